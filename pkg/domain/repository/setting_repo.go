package repository

import (
	"context"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// SettingRepository 定义了站点配置的持久化操作接口。
type SettingRepository interface {
	// FindAll 读取数据库中的全部配置项
	FindAll(ctx context.Context) ([]*model.Setting, error)

	// Update 批量写入配置项（不存在则创建）
	Update(ctx context.Context, settings map[string]string) error
}
