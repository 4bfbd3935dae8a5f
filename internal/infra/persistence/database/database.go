/*
 * @Description: 数据库连接管理 (支持 MySQL 与 PostgreSQL)
 * @Author: 苏屿
 * @Date: 2025-09-16 09:10:27
 * @LastEditTime: 2025-12-03 13:44:02
 * @LastEditors: 苏屿
 */
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studylink-hub/studylink-app/pkg/config"
)

// NewGormDB 创建并返回一个 gorm 连接，根据配置选择数据库驱动。
func NewGormDB(cfg *config.Config) (*gorm.DB, error) {
	driver := cfg.GetString(config.KeyDBType)
	if driver == "" {
		log.Println("提示: 配置文件中未指定 'Database.Type'，将默认使用 'mysql'")
		driver = "mysql"
	}

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
		return nil, fmt.Errorf("数据库连接参数不完整 (需要 User, Host, Port, Name)")
	}

	var dialector gorm.Dialector
	switch driver {
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s (支持: mysql/mariadb, postgres)", driver)
	}

	logLevel := logger.Warn
	if cfg.GetBool(config.KeyDBDebug) {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败 (驱动: %s): %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("✅ 成功连接到数据库 (%s, %s:%s/%s)", driver, dbHost, dbPort, dbName)
	return db, nil
}
