package models

import "time"

// Meeting 会议模型
// 每个会议归属且仅归属一个会议类型，会议级操作的授权由该类型的上下文授权决定
type Meeting struct {
	SoftDeleteModel
	MeetingTypeID uint       `gorm:"not null;index" json:"meeting_type_id"` // 所属会议类型
	Title         string     `gorm:"size:255;not null" json:"title"`        // 会议标题
	Number        string     `gorm:"size:50" json:"number"`                 // 会议编号，如 "AC-2026-03"
	Venue         string     `gorm:"size:255" json:"venue"`                 // 会议地点
	ScheduledAt   *time.Time `json:"scheduled_at"`                          // 计划开始时间
	Status        string     `gorm:"size:20;default:'draft'" json:"status"` // 状态：draft, finalized, published
	FinalizedAt   *time.Time `json:"finalized_at"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedBy     uint       `json:"created_by"`

	// 关联关系
	MeetingType *MeetingType `gorm:"foreignKey:MeetingTypeID" json:"meeting_type,omitempty"`
	AgendaItems []AgendaItem `gorm:"foreignKey:MeetingID" json:"agenda_items,omitempty"`
}

// 会议状态常量
const (
	MeetingStatusDraft     = "draft"
	MeetingStatusFinalized = "finalized"
	MeetingStatusPublished = "published"
)
