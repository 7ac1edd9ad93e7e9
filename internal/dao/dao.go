// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"
	"os"

	"github.com/2ta/recall/internal/model"
	"github.com/2ta/recall/pkg/fileurl"
	"github.com/2ta/recall/pkg/timex"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 数据库文件路径
	Path string
	// TablePrefix 表前缀
	TablePrefix string
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool
	// RunMode 运行模式，debug 时打印 SQL
	RunMode string
}

// Dao 封装底层 KV 读写
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger
}

func New(db *gorm.DB, lg *zap.Logger) *Dao {
	return &Dao{db: db, logger: lg}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// GetValue 读取指定键的值，第二个返回值表示键是否存在
func (d *Dao) GetValue(ctx context.Context, key string) (string, bool, error) {
	var record model.KvRecord
	err := d.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Value, true, nil
}

// SetValue 写入指定键的值，键存在则整体覆盖
func (d *Dao) SetValue(ctx context.Context, key string, value string) error {
	record := model.KvRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: timex.Now(),
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

// DeleteValue 删除指定键
func (d *Dao) DeleteValue(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("key = ?", key).Delete(&model.KvRecord{}).Error
}

// NewDBEngineWithConfig 初始化 sqlite 引擎
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {

	if !fileurl.IsExist(c.Path) {
		if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(c.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db, "KvRecord"); err != nil {
			return nil, err
		}
	}

	return db, nil
}
