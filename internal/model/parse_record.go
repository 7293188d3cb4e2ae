package model

import (
	"time"
)

// ParseRecord 单次解析的历史记录
type ParseRecord struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID      string    `json:"task_id" gorm:"type:varchar(64);index"`
	Platform    string    `json:"platform" gorm:"type:varchar(32);not null;index"`
	Command     string    `json:"command" gorm:"type:varchar(256);not null"`
	Routine     string    `json:"routine" gorm:"type:varchar(128)"`
	Status      string    `json:"status" gorm:"type:varchar(16);not null;default:'success'"`
	ErrorCode   string    `json:"error_code" gorm:"type:varchar(32)"`
	ErrorMsg    string    `json:"error_msg" gorm:"type:text"`
	OutputBytes int       `json:"output_bytes"`
	ArchivePath string    `json:"archive_path" gorm:"type:varchar(512)"`
	Duration    int64     `json:"duration"` // 解析耗时，毫秒
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 表名
func (ParseRecord) TableName() string {
	return "parse_records"
}

// 解析状态
const (
	ParseStatusSuccess = "success"
	ParseStatusFailed  = "failed"
)
