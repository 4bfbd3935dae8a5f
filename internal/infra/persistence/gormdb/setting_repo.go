/*
 * @Description: 站点配置仓储的 gorm 实现
 * @Author: 苏屿
 * @Date: 2025-09-16 16:05:31
 * @LastEditTime: 2025-11-21 10:15:48
 * @LastEditors: 苏屿
 */
package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
)

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepository 创建站点配置仓储的 gorm 实现。
func NewSettingRepository(db *gorm.DB) repository.SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) FindAll(ctx context.Context) ([]*model.Setting, error) {
	var pos []*SettingPO
	if err := r.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("加载站点配置失败: %w", err)
	}
	settings := make([]*model.Setting, 0, len(pos))
	for _, po := range pos {
		settings = append(settings, po.toDomain())
	}
	return settings, nil
}

func (r *settingRepo) Update(ctx context.Context, settings map[string]string) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range settings {
			po := SettingPO{ConfigKey: key, Value: value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "config_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&po).Error
			if err != nil {
				return fmt.Errorf("更新配置项 '%s' 失败: %w", key, err)
			}
		}
		return nil
	})
}
