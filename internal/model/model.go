package model

import (
	"github.com/2ta/recall/pkg/timex"

	"gorm.io/gorm"
)

// KvRecord 本地 KV 存储的一条记录
// 每个存储键下放一个整体序列化的 JSON 值，对应原始前端的 localStorage 条目
type KvRecord struct {
	Key       string     `gorm:"column:key;primaryKey"`
	Value     string     `gorm:"column:value;type:text"`
	UpdatedAt timex.Time `gorm:"column:updated_at"`
}

func (KvRecord) TableName() string {
	return "kv_record"
}

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "KvRecord":
		return db.AutoMigrate(KvRecord{})
	}
	return nil
}
