package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskBody(t *testing.T) {
	l := NewLogger(LoggerConfig{MaxBodySize: 64})

	masked := l.maskBody([]byte(`{"username":"admin","password":"secret"}`))
	assert.Contains(t, masked, `"password":"******"`)
	assert.Contains(t, masked, `"username":"admin"`)

	assert.Equal(t, "", l.maskBody(nil))
	assert.Equal(t, "[NON-JSON]", l.maskBody([]byte("a=b")))
	assert.Equal(t, "[TRUNCATED]", l.maskBody([]byte(`{"x":"`+strings.Repeat("y", 100)+`"}`)))
}
