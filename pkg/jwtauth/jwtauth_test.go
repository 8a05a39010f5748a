package jwtauth

import (
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: "60s", want: 60 * time.Second},
		{name: "minutes", input: "5m", want: 5 * time.Minute},
		{name: "hours", input: "2h", want: 2 * time.Hour},
		{name: "days", input: "1d", want: 24 * time.Hour},
		{name: "weeks", input: "3w", want: 3 * 7 * 24 * time.Hour},
		{name: "fraction", input: "1.5h", want: 90 * time.Minute},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown unit", input: "10x", wantErr: true},
		{name: "no unit", input: "10", wantErr: true},
		{name: "letters", input: "abcdefh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestJWT(t *testing.T) *JWT {
	t.Helper()
	j, err := NewJWT("navigation-secret", "1h", "7d")
	require.NoError(t, err)
	return j
}

func TestGenerateAndParseToken(t *testing.T) {
	j := newTestJWT(t)

	pair, err := j.GenerateToken(42, "kim", RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := j.ParseToken(pair.AccessToken, AccessTokenType)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "kim", claims.Username)
	assert.True(t, claims.IsAdmin())

	_, err = j.ParseToken(pair.RefreshToken, AccessTokenType)
	assert.ErrorIs(t, err, ErrTokenType)
}

func TestParseTokenRejectsOtherKey(t *testing.T) {
	j := newTestJWT(t)
	other, err := NewJWT("another-secret", "1h", "7d")
	require.NoError(t, err)

	pair, err := other.GenerateToken(1, "lee", "user")
	require.NoError(t, err)

	_, err = j.ParseToken(pair.AccessToken, AccessTokenType)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	j := newTestJWT(t)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := j.GenerateToken(1, "lee", "user")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseToken(pair.AccessToken, AccessTokenType)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	j := newTestJWT(t)
	pair, err := j.GenerateToken(7, "park", "user")
	require.NoError(t, err)

	_, err = j.RefreshToken(pair.AccessToken)
	assert.Error(t, err)

	refreshed, err := j.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := j.ParseToken(refreshed.AccessToken, AccessTokenType)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
}

func TestContextClaims(t *testing.T) {
	j := newTestJWT(t)
	c := app.NewContext(0)

	_, err := j.ContextClaims(c)
	assert.ErrorIs(t, err, ErrClaimsNotFound)

	c.Set(ClaimsKey, &Claims{UserID: 9, Role: "user"})
	id, err := j.GetUserIDUint64(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), id)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = BearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}
