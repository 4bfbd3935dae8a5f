/*
 * @Description: 用户资料相关的业务逻辑
 * @Author: 苏屿
 * @Date: 2025-09-06 14:22:18
 * @LastEditTime: 2025-11-15 09:51:33
 * @LastEditors: 苏屿
 */
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/studylink-hub/studylink-app/internal/pkg/security"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

// UserService 定义了用户资料相关的业务逻辑接口
type UserService interface {
	GetUserInfoByID(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, nickname *string, avatarURL *string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService 是 userService 的构造函数
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取用户信息时数据库出错: %w", err)
	}
	if user == nil {
		return nil, constant.ErrNotFound
	}
	return user, nil
}

func (s *userService) GetUserInfoByID(ctx context.Context, userID uint) (*model.User, error) {
	return s.findUser(ctx, userID)
}

// UpdateProfile 更新昵称或头像，传 nil 表示不修改对应字段。
func (s *userService) UpdateProfile(ctx context.Context, userID uint, nickname *string, avatarURL *string) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if nickname != nil {
		trimmed := strings.TrimSpace(*nickname)
		if trimmed == "" {
			return nil, fmt.Errorf("昵称不能为空: %w", constant.ErrBadRequest)
		}
		user.Nickname = trimmed
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新用户资料失败: %w", err)
	}
	return user, nil
}

// UpdatePassword 校验旧密码后更新为新密码。
func (s *userService) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if !security.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return fmt.Errorf("旧密码不正确: %w", constant.ErrForbidden)
	}

	hashed, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("生成新密码哈希失败: %w", err)
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}
	return nil
}
