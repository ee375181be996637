package crypto_util

import (
	"crypto/sha256"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// ChecksumSize Zetrix 密钥编码中校验和的字节数
const ChecksumSize = 4

// CalculateSHA256 计算输入的 SHA256 哈希值 (Hex)。
// 交易哈希即 blob 的 SHA256。
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Checksum 计算双重 SHA256 并截取前 4 字节，用于私钥/公钥编码校验。
func Checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:ChecksumSize]
}

// CalculateBlake3 计算输入的 Blake3 哈希值。
// 用作消息去重的指纹，不参与任何链上格式。
func CalculateBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
