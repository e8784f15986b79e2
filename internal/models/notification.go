package models

import "time"

// Notification 通知模型（扁平权限实体）
type Notification struct {
	BaseModel
	UserID    uint       `gorm:"not null;index" json:"user_id"` // 接收人
	Kind      string     `gorm:"size:50;not null" json:"kind"`  // 通知类型
	Title     string     `gorm:"size:255;not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	MeetingID *uint      `gorm:"index" json:"meeting_id"` // 关联会议（可选）
	ReadAt    *time.Time `json:"read_at"`                 // 为空表示未读
}

// 通知类型常量
const (
	NotificationKindMeetingReminder  = "meeting_reminder"  // 会议提醒
	NotificationKindMeetingPublished = "meeting_published" // 会议发布
	NotificationKindSystem           = "system"            // 系统通知
)
