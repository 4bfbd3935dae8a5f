/*
 * @Description: 数据库迁移与初始数据填充
 * @Author: 苏屿
 * @Date: 2025-09-16 09:48:13
 * @LastEditTime: 2025-12-03 14:02:55
 * @LastEditors: 苏屿
 */
package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/studylink-hub/studylink-app/internal/configdef"
	"github.com/studylink-hub/studylink-app/internal/infra/persistence/gormdb"
	"github.com/studylink-hub/studylink-app/internal/pkg/security"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
)

// MigrationService 负责建表与初始数据填充。
type MigrationService struct {
	db *gorm.DB
}

// NewMigrationService 创建迁移服务
func NewMigrationService(db *gorm.DB) *MigrationService {
	return &MigrationService{db: db}
}

// RunMigrations 执行建表迁移并填充缺失的初始数据。
// 填充是幂等的：已存在的配置项和账号不会被覆盖。
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	log.Println("📋 开始执行数据库迁移...")

	if err := m.db.WithContext(ctx).AutoMigrate(gormdb.AllModels()...); err != nil {
		return fmt.Errorf("自动建表失败: %w", err)
	}

	if err := m.seedSettings(ctx); err != nil {
		return fmt.Errorf("填充默认配置失败: %w", err)
	}
	if err := m.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("创建初始管理员失败: %w", err)
	}

	log.Println("✅ 数据库迁移完成")
	return nil
}

// seedSettings 把代码里定义的默认配置写入 settings 表，只补缺不覆盖。
func (m *MigrationService) seedSettings(ctx context.Context) error {
	var added int
	for _, def := range configdef.AllSettings {
		var count int64
		err := m.db.WithContext(ctx).Model(&gormdb.SettingPO{}).
			Where("config_key = ?", def.Key.String()).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		po := gormdb.SettingPO{
			ConfigKey: def.Key.String(),
			Value:     def.Value,
			Comment:   def.Comment,
		}
		if err := m.db.WithContext(ctx).Create(&po).Error; err != nil {
			return err
		}
		added++
	}
	if added > 0 {
		log.Printf("  → 已补充 %d 个默认配置项", added)
	}
	return nil
}

// seedAdminUser 在用户表为空时创建初始管理员，随机密码只在日志里出现一次。
func (m *MigrationService) seedAdminUser(ctx context.Context) error {
	var count int64
	if err := m.db.WithContext(ctx).Model(&gormdb.UserPO{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("生成初始密码失败: %w", err)
	}
	password := hex.EncodeToString(raw)

	hashed, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("哈希初始密码失败: %w", err)
	}

	admin := gormdb.UserPO{
		Nickname:     "管理员",
		Email:        "admin@studylink.local",
		PasswordHash: hashed,
		UserGroupID:  model.UserGroupAdmin,
	}
	if err := m.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("  → 已创建初始管理员账号: %s，初始密码: %s（请尽快修改）", admin.Email, password)
	return nil
}
