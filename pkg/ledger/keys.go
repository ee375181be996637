package ledger

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ed25519"

	"zetrix-gateway/pkg/crypto_util"
)

// 私钥编码: base58( prefix(3) | type(1) | seed(32) | fill(1) | checksum(4) )
// 公钥编码: hex( 0xB0 | type(1) | pubkey(32) | checksum(4) )
var privateKeyPrefix = []byte{0xDA, 0x37, 0x9F}

const (
	keyTypeEd25519  byte = 0x01
	publicKeyPrefix byte = 0xB0
	privateKeyFill  byte = 0x00
	encodedKeySize       = 3 + 1 + ed25519.SeedSize + 1 + crypto_util.ChecksumSize
)

// DecodePrivateKey 解析 base58 编码的私钥并校验 checksum
func DecodePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw := base58.Decode(encoded)
	if len(raw) != encodedKeySize {
		return nil, &Error{Code: CodeInvalidPrivateKey, Desc: "invalid private key length"}
	}
	if !bytes.Equal(raw[:3], privateKeyPrefix) || raw[3] != keyTypeEd25519 {
		return nil, &Error{Code: CodeInvalidPrivateKey, Desc: "unsupported private key type"}
	}
	body, sum := raw[:len(raw)-crypto_util.ChecksumSize], raw[len(raw)-crypto_util.ChecksumSize:]
	if !bytes.Equal(crypto_util.Checksum(body), sum) {
		return nil, &Error{Code: CodeInvalidPrivateKey, Desc: "private key checksum mismatch"}
	}

	priv, _, err := crypto_util.Ed25519FromSeed(raw[4 : 4+ed25519.SeedSize])
	if err != nil {
		return nil, &Error{Code: CodeInvalidPrivateKey, Desc: err.Error()}
	}
	return priv, nil
}

// EncodePrivateKey 将 32 字节种子编码为私钥字符串
func EncodePrivateKey(seed []byte) (string, error) {
	if len(seed) != ed25519.SeedSize {
		return "", &Error{Code: CodeInvalidPrivateKey, Desc: "seed must be 32 bytes"}
	}
	body := make([]byte, 0, encodedKeySize)
	body = append(body, privateKeyPrefix...)
	body = append(body, keyTypeEd25519)
	body = append(body, seed...)
	body = append(body, privateKeyFill)
	body = append(body, crypto_util.Checksum(body)...)
	return base58.Encode(body), nil
}

// EncodePublicKey 公钥的十六进制编码
func EncodePublicKey(pub ed25519.PublicKey) string {
	body := make([]byte, 0, 2+len(pub)+crypto_util.ChecksumSize)
	body = append(body, publicKeyPrefix, keyTypeEd25519)
	body = append(body, pub...)
	body = append(body, crypto_util.Checksum(body)...)
	return hex.EncodeToString(body)
}

// SignBlob 每个私钥产生一条签名
func SignBlob(privateKeys []string, blob Blob) ([]Signature, error) {
	if len(privateKeys) == 0 {
		return nil, &Error{Code: CodeInvalidPrivateKey, Desc: "privateKeys cannot be empty"}
	}
	if len(blob) == 0 {
		return nil, &Error{Code: CodeInvalidBlob, Desc: "blob cannot be empty"}
	}

	sigs := make([]Signature, 0, len(privateKeys))
	for _, encoded := range privateKeys {
		priv, err := DecodePrivateKey(encoded)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, Signature{
			SignData:  hex.EncodeToString(crypto_util.Ed25519Sign(priv, blob)),
			PublicKey: EncodePublicKey(priv.Public().(ed25519.PublicKey)),
		})
	}
	return sigs, nil
}

// PublicKeyOf 由编码后的私钥得到编码后的公钥
func PublicKeyOf(privateKey string) (string, error) {
	priv, err := DecodePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	return EncodePublicKey(priv.Public().(ed25519.PublicKey)), nil
}
