package sentinel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinel_Match(t *testing.T) {
	s := &Sentinel{resources: map[string]string{
		resourceKey("POST", "/api/auth/login"):            "login",
		resourceKey("", "/api/user-menus/user/:user_id"): "user_menus",
	}}

	name, ok := s.match("POST", "/api/auth/login")
	assert.True(t, ok)
	assert.Equal(t, "login", name)

	_, ok = s.match("GET", "/api/auth/login")
	assert.False(t, ok, "method bound resource")

	name, ok = s.match("GET", "/api/user-menus/user/:user_id")
	assert.True(t, ok)
	assert.Equal(t, "user_menus", name)

	s.defaultResource = "global_default"
	name, ok = s.match("GET", "/api/menus")
	assert.True(t, ok)
	assert.Equal(t, "global_default", name)
}

func TestToFields(t *testing.T) {
	fields := toFields([]any{"a", 1, 2, "skipped", "b"})
	assert.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)

	l := NewSentinelLogger(nil)
	assert.False(t, l.DebugEnabled())
}

