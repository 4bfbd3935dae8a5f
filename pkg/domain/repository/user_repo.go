package repository

import (
	"context"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// UserRepository 定义了用户数据的持久化操作接口。
type UserRepository interface {
	// Create 创建一个新用户
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID 根据数据库ID查找用户
	FindByID(ctx context.Context, id uint) (*model.User, error)

	// Update 保存用户资料的变更
	Update(ctx context.Context, user *model.User) error

	// FindByEmail 根据邮箱查找用户（登录与注册查重）
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindManyByIDs 批量查找用户，用于填充评论列表的作者信息
	FindManyByIDs(ctx context.Context, ids []uint) ([]*model.User, error)

	// FindByGroupID 查找某用户组下的全部用户（通知管理员时使用）
	FindByGroupID(ctx context.Context, groupID uint) ([]*model.User, error)
}
