package crypter

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SHA384Crypter 以 HMAC-SHA-384 保存登录密码
type SHA384Crypter struct {
	key []byte
}

func NewSHA384Crypter(key string) *SHA384Crypter {
	return &SHA384Crypter{key: []byte(key)}
}

func (c *SHA384Crypter) Encrypt(password string) string {
	h := hmac.New(sha512.New384, c.key)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify 常量时间比较
func (c *SHA384Crypter) Verify(password, encrypted string) bool {
	expected, err := hex.DecodeString(encrypted)
	if err != nil {
		return false
	}
	h := hmac.New(sha512.New384, c.key)
	h.Write([]byte(password))
	return hmac.Equal(h.Sum(nil), expected)
}
