/*
 * @Description: 注册与登录
 * @Author: 苏屿
 * @Date: 2025-09-06 10:40:55
 * @LastEditTime: 2025-12-03 22:18:09
 * @LastEditors: 苏屿
 */
package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/studylink-hub/studylink-app/internal/pkg/security"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

// LoginResult 是一次成功登录的产物。
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // 访问令牌过期时间（毫秒）
}

// AuthService 定义了注册登录相关的业务逻辑接口
type AuthService interface {
	Register(ctx context.Context, nickname, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, expiresAt int64, err error)
}

type authService struct {
	userRepo repository.UserRepository
	tokenSvc TokenService
}

// NewAuthService 是 authService 的构造函数
func NewAuthService(userRepo repository.UserRepository, tokenSvc TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

// Register 注册一个新学生账号。邮箱不区分大小写，全站唯一。
func (s *authService) Register(ctx context.Context, nickname, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("注册查重失败: %w", err)
	}
	if existing != nil {
		return nil, constant.ErrEmailTaken
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Nickname:     strings.TrimSpace(nickname),
		Email:        email,
		PasswordHash: hashed,
		UserGroupID:  model.UserGroupStudent,
	})
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	log.Printf("✅ [认证] 新用户注册成功: %s (ID: %d)", user.Email, user.ID)
	return user, nil
}

// Login 校验凭证并签发会话令牌。
// 邮箱不存在与密码错误返回同一个错误，避免暴露账号是否存在。
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("登录查询用户失败: %w", err)
	}
	if user == nil || !security.CheckPasswordHash(password, user.PasswordHash) {
		return nil, constant.ErrWrongCredentials
	}

	accessToken, refreshToken, expiresAt, err := s.tokenSvc.GenerateSessionTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("签发会话令牌失败: %w", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, int64, error) {
	return s.tokenSvc.RefreshAccessToken(ctx, refreshToken)
}
