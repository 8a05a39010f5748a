package service

import (
	"context"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthService 登录与令牌刷新
type AuthService struct {
	repos *dao.Repos
	jwt   *jwtauth.JWT
}

func NewAuthService(repos *dao.Repos, jwt *jwtauth.JWT) *AuthService {
	return &AuthService{repos: repos, jwt: jwt}
}

// Login 校验用户名密码并签发令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (*vo.LoginResult, error) {
	user, err := s.repos.User.Find(ctx, &models.User{Username: username})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn(ctx, "Login with unknown user", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}
	if !user.Verify(password) {
		logger.Warn(ctx, "Invalid password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled() {
		return nil, ErrUserDisabled
	}

	tokens, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}

	user.LastLoginTime = time.Now()
	if err := s.repos.User.Update(ctx, user); err != nil {
		logger.Warn(ctx, "Failed to record login time", zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	logger.Info(ctx, "Login successful", zap.String("username", user.Username))
	return &vo.LoginResult{
		TokenResponse: vo.TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    tokens.ExpiresAt,
		},
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}, nil
}

// Refresh 用刷新令牌换新令牌，角色和状态以数据库为准
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*vo.TokenResponse, error) {
	claims, err := s.jwt.ParseToken(refreshToken, jwtauth.RefreshTokenType)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCredentials, err.Error())
	}
	user, err := s.repos.User.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}
	if !user.Enabled() {
		return nil, ErrUserDisabled
	}

	tokens, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}
	return &vo.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}, nil
}

// EnsureAdmin 用户表为空时创建初始管理员
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.repos.User.QueryBuilder().Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count users")
	}
	if count > 0 {
		return nil
	}
	admin := &models.User{
		Username:    username,
		Password:    password,
		DisplayName: username,
		Role:        jwtauth.RoleAdmin,
		Status:      models.UserStatusEnabled,
	}
	admin.EncryptPassword()
	if err := s.repos.User.Create(ctx, admin); err != nil {
		return errors.Wrap(err, "create admin")
	}
	logger.Info(ctx, "Initial admin created", zap.String("username", username))
	return nil
}
