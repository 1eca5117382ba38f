package util

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// GetRandomString 生成指定长度的随机字符串
func GetRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	for i := range b {
		// 直接使用全局 rand，无需每次都 NewSource
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// GenerateShareToken generates an opaque share token
// GenerateShareToken 生成不透明的分享 Token
// 由不带连字符的 UUID 加 8 字节加密随机数组成，48 位十六进制字符
// 碰撞概率可以忽略，数据库层仍有唯一索引兜底
func GenerateShareToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	suffix := make([]byte, 8)
	if _, err := cryptorand.Read(suffix); err != nil {
		// 加密随机源不可用时退回普通随机串
		return id + GetRandomString(16)
	}
	return id + hex.EncodeToString(suffix)
}
