package models

import "time"

// Announcement 公告模型（扁平权限实体）
type Announcement struct {
	SoftDeleteModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	PublishedAt *time.Time `json:"published_at"` // 为空表示草稿
	CreatedBy   uint       `json:"created_by"`
}
