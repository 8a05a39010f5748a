package navigation

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/pkg/errors"
)

// Token 登录返回的令牌
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	UserID       uint64 `json:"user_id"`
	Role         string `json:"role"`
}

// Login 登录并把访问令牌设置到 client 上；401 时由调用方处理
func Login(ctx context.Context, client *httpclient.Client, username, password string) (*Token, error) {
	var token Token
	body := map[string]string{"username": username, "password": password}
	if err := client.PostJSON(ctx, "/api/auth/login", body, &token); err != nil {
		return nil, errors.Wrap(err, "login")
	}
	client.SetBearerToken(token.AccessToken)
	return &token, nil
}
