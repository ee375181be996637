package crypto_util

import (
	"fmt"

	"golang.org/x/crypto/ed25519"
)

// ------------------------------------------------------------------------------------------------
// Ed25519 (Edwards-curve 数字签名算法)
// Zetrix 账户使用 Ed25519，私钥以 32 字节种子形式存储。
// ------------------------------------------------------------------------------------------------

// Ed25519FromSeed 由 32 字节种子恢复 Ed25519 密钥对。
func Ed25519FromSeed(seed []byte) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, nil, fmt.Errorf("种子长度错误: %d", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, priv.Public().(ed25519.PublicKey), nil
}

// Ed25519Sign 对消息进行签名。
func Ed25519Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Ed25519Verify 验证签名。
func Ed25519Verify(pub ed25519.PublicKey, message, signature []byte) bool {
	return ed25519.Verify(pub, message, signature)
}
