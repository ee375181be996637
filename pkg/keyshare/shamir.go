package keyshare

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/shamir"

	"zetrix-gateway/pkg/ledger"
)

// Split 将私钥种子切分为 parts 份，至少 threshold 份才能恢复
// return: parts 个 Share (Hex String)，前 32 字节为 Y 值，末字节为 X 坐标
func Split(privateKey string, parts, threshold int) ([]string, error) {
	priv, err := ledger.DecodePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	sharesBytes, err := shamir.Split(priv.Seed(), parts, threshold)
	if err != nil {
		return nil, err
	}

	shares := make([]string, 0, len(sharesBytes))
	for _, share := range sharesBytes {
		shares = append(shares, hex.EncodeToString(share))
	}
	return shares, nil
}

// Combine 由 Shares 恢复私钥。份数不足阈值时得到的是另一把私钥，调用方需核对公钥
func Combine(sharesHex []string) (string, error) {
	sharesBytes := make([][]byte, 0, len(sharesHex))
	for _, s := range sharesHex {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
		if err != nil {
			return "", fmt.Errorf("invalid share hex: %w", err)
		}
		sharesBytes = append(sharesBytes, b)
	}

	seed, err := shamir.Combine(sharesBytes)
	if err != nil {
		return "", err
	}
	return ledger.EncodePrivateKey(seed)
}
