/*
 * @Description: 会话令牌的签发、刷新与解析
 * @Author: 苏屿
 * @Date: 2025-09-06 10:12:37
 * @LastEditTime: 2025-11-26 19:40:12
 * @LastEditors: 苏屿
 */
package auth

import (
	"context"
	"fmt"

	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/pkg/config"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
)

// TokenService 负责会话令牌的签发与校验。
type TokenService interface {
	// GenerateSessionTokens 为用户签发一对访问/刷新令牌，expiresAt 是访问令牌的过期时间（毫秒）。
	GenerateSessionTokens(ctx context.Context, user *model.User) (accessToken, refreshToken string, expiresAt int64, err error)
	// RefreshAccessToken 用刷新令牌换取新的访问令牌。
	RefreshAccessToken(ctx context.Context, refreshToken string) (accessToken string, expiresAt int64, err error)
	// ParseAccessToken 解析并校验访问令牌。
	ParseAccessToken(ctx context.Context, accessToken string) (*auth.CustomClaims, error)
}

type tokenService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewTokenService 构造函数
func NewTokenService(userRepo repository.UserRepository, cfg *config.Config) TokenService {
	return &tokenService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *tokenService) secret() ([]byte, error) {
	jwtSecret := s.cfg.GetString(config.KeyJWTSecret)
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET 未配置, 无法处理令牌")
	}
	return []byte(jwtSecret), nil
}

func (s *tokenService) GenerateSessionTokens(ctx context.Context, user *model.User) (string, string, int64, error) {
	secret, err := s.secret()
	if err != nil {
		return "", "", 0, err
	}

	// auth.GenerateToken 接收内部 uint ID，并在内部转换为公共 ID
	accessToken, err := auth.GenerateToken(user.ID, user.UserGroupID, secret)
	if err != nil {
		return "", "", 0, err
	}
	refreshToken, err := auth.GenerateRefreshToken(user.ID, secret)
	if err != nil {
		return "", "", 0, err
	}

	claims, err := auth.ParseToken(accessToken, secret)
	if err != nil {
		return "", "", 0, err
	}
	return accessToken, refreshToken, claims.ExpiresAt.Time.UnixMilli(), nil
}

func (s *tokenService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, int64, error) {
	secret, err := s.secret()
	if err != nil {
		return "", 0, err
	}

	claims, err := auth.ParseToken(refreshToken, secret)
	if err != nil {
		return "", 0, fmt.Errorf("无效或过期的刷新令牌: %w", constant.ErrInvalidToken)
	}

	// 刷新令牌里的 UserID 是公共 ID，需要解码为内部数据库 ID 并验证类型
	internalUserID, entityType, err := idgen.DecodePublicID(claims.UserID)
	if err != nil || entityType != idgen.EntityTypeUser {
		return "", 0, fmt.Errorf("令牌中的用户ID无效: %w", constant.ErrInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, internalUserID)
	if err != nil {
		return "", 0, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return "", 0, fmt.Errorf("用户不存在: %w", constant.ErrUnauthorized)
	}

	accessToken, err := auth.GenerateToken(user.ID, user.UserGroupID, secret)
	if err != nil {
		return "", 0, err
	}
	newClaims, err := auth.ParseToken(accessToken, secret)
	if err != nil {
		return "", 0, err
	}
	return accessToken, newClaims.ExpiresAt.Time.UnixMilli(), nil
}

func (s *tokenService) ParseAccessToken(ctx context.Context, accessToken string) (*auth.CustomClaims, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, err
	}
	return auth.ParseToken(accessToken, secret)
}
