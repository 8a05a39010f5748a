package jwtauth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v5"
)

var Instance *JWT

const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
	// ClaimsKey 请求上下文中保存载荷的键名
	ClaimsKey = "jwt_claims"
	// RoleAdmin 可以维护菜单、画面和授权的角色
	RoleAdmin = "admin"
)

var (
	ErrTokenType      = errors.New("unexpected token type")
	ErrClaimsNotFound = errors.New("jwt claims not found in context")
)

func Init(jwt *JWT) {
	Instance = jwt
}

// Claims JWT 载荷
type Claims struct {
	UserID   uint64 `json:"uid"`
	Username string `json:"name"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// IsAdmin 是否管理员
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// TokenPair 包含 Access Token 和 Refresh Token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// JWT 签发和校验令牌
type JWT struct {
	signingKey      []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewJWT 有效期支持 s/m/h/d/w 后缀，如 "2h"、"7d"
func NewJWT(signingKey, accessTokenExp, refreshTokenExp string) (*JWT, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	accessTTL, err := parseDuration(accessTokenExp)
	if err != nil {
		return nil, fmt.Errorf("invalid token expiration: %w", err)
	}
	refreshTTL, err := parseDuration(refreshTokenExp)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token expiration: %w", err)
	}
	return &JWT{
		signingKey:      []byte(signingKey),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		now:             time.Now,
	}, nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, errors.New("empty duration string")
	}
	unit := s[len(s)-1]
	num, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || num <= 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	var base time.Duration
	switch unit {
	case 's':
		base = time.Second
	case 'm':
		base = time.Minute
	case 'h':
		base = time.Hour
	case 'd':
		base = 24 * time.Hour
	case 'w':
		base = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown unit in duration: %c", unit)
	}
	return time.Duration(num * float64(base)), nil
}

// GenerateToken 生成 access token 和 refresh token
func (j *JWT) GenerateToken(userID uint64, username, role string) (*TokenPair, error) {
	now := j.now()
	access, err := j.sign(userID, username, role, AccessTokenType, now.Add(j.accessTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}
	refresh, err := j.sign(userID, username, role, RefreshTokenType, now.Add(j.refreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(j.accessTokenTTL).Unix(),
	}, nil
}

func (j *JWT) sign(userID uint64, username, role, tokenType string, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(j.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.signingKey)
}

// ParseToken 校验签名、有效期和令牌类型
func (j *JWT) ParseToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.signingKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if tokenType != "" && claims.Type != tokenType {
		return nil, ErrTokenType
	}
	return claims, nil
}

// RefreshToken 使用 refresh token 换发新的令牌对
func (j *JWT) RefreshToken(refreshToken string) (*TokenPair, error) {
	claims, err := j.ParseToken(refreshToken, RefreshTokenType)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	return j.GenerateToken(claims.UserID, claims.Username, claims.Role)
}

// ContextClaims 读取中间件写入的载荷
func (j *JWT) ContextClaims(c *app.RequestContext) (*Claims, error) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, ErrClaimsNotFound
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil, ErrClaimsNotFound
	}
	return claims, nil
}

// GetUserIDUint64 当前请求的用户ID
func (j *JWT) GetUserIDUint64(c *app.RequestContext) (uint64, error) {
	claims, err := j.ContextClaims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// BearerToken 从 Authorization 头中取出令牌
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
