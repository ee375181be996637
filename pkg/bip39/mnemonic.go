package bip39

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"zetrix-gateway/pkg/ledger"
)

// 24 个单词 (256 bits)，熵即 Ed25519 种子
const entropyBits = 256

var (
	ErrInvalidMnemonic = errors.New("助记词无效")
	ErrEntropySize     = errors.New("助记词必须为 24 个单词")
)

// Generate 生成一个新的 24 词助记词
func Generate() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("生成熵失败: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// ToPrivateKey 由助记词恢复 Zetrix 私钥
func ToPrivateKey(mnemonic string) (string, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	if len(entropy)*8 != entropyBits {
		return "", ErrEntropySize
	}
	return ledger.EncodePrivateKey(entropy)
}

// FromPrivateKey 将私钥导出为助记词，用于离线备份
func FromPrivateKey(privateKey string) (string, error) {
	priv, err := ledger.DecodePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(priv.Seed())
}
