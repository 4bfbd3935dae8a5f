/*
 * @Description: 用户仓储的 gorm 实现
 * @Author: 苏屿
 * @Date: 2025-09-16 14:17:08
 * @LastEditTime: 2025-11-21 09:26:40
 * @LastEditors: 苏屿
 */
package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储的 gorm 实现。
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	po := &UserPO{
		Nickname:     user.Nickname,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		AvatarURL:    user.AvatarURL,
		UserGroupID:  user.UserGroupID,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var po UserPO
	err := r.db.WithContext(ctx).First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var po UserPO
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("按邮箱查询用户失败: %w", err)
	}
	return po.toDomain(), nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&UserPO{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"nickname":      user.Nickname,
			"avatar_url":    user.AvatarURL,
			"password_hash": user.PasswordHash,
		})
	if result.Error != nil {
		return fmt.Errorf("更新用户失败: %w", result.Error)
	}
	return nil
}

func (r *userRepo) FindManyByIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pos []*UserPO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("批量查询用户失败: %w", err)
	}
	users := make([]*model.User, 0, len(pos))
	for _, po := range pos {
		users = append(users, po.toDomain())
	}
	return users, nil
}

func (r *userRepo) FindByGroupID(ctx context.Context, groupID uint) ([]*model.User, error) {
	var pos []*UserPO
	if err := r.db.WithContext(ctx).Where("user_group_id = ?", groupID).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("按用户组查询用户失败: %w", err)
	}
	users := make([]*model.User, 0, len(pos))
	for _, po := range pos {
		users = append(users, po.toDomain())
	}
	return users, nil
}
