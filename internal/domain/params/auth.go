package params

// LoginRequest 账号密码登录
type LoginRequest struct {
	Username string `json:"username" vd:"len($)>0&&len($)<=50"`
	Password string `json:"password" vd:"len($)>0&&len($)<=128"`
}

// RefreshTokenRequest 用刷新令牌换取新的令牌对
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" vd:"len($)>0"`
}
