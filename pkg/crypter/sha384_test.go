package crypter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA384Crypter_Encrypt(t *testing.T) {
	c := NewSHA384Crypter("k1")

	encrypted := c.Encrypt("secret")
	assert.Len(t, encrypted, 96)
	assert.Equal(t, encrypted, c.Encrypt("secret"))
	assert.NotEqual(t, encrypted, NewSHA384Crypter("k2").Encrypt("secret"))
	assert.Len(t, c.Encrypt(""), 96)
}

func TestSHA384Crypter_Verify(t *testing.T) {
	c := NewSHA384Crypter("k1")
	encrypted := c.Encrypt("secret")

	assert.True(t, c.Verify("secret", encrypted))
	assert.False(t, c.Verify("Secret", encrypted))
	assert.False(t, c.Verify("secret", "not-hex"))
	assert.False(t, NewSHA384Crypter("k2").Verify("secret", encrypted))
}
