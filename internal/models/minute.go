package models

// Minute 会议纪要模型
// 通过议程项间接归属一个会议，授权经议程项委托给所属会议
type Minute struct {
	SoftDeleteModel
	AgendaItemID uint   `gorm:"not null;index" json:"agenda_item_id"` // 所属议程项
	Content      string `gorm:"type:text" json:"content"`             // 纪要正文
	Decision     string `gorm:"type:text" json:"decision"`            // 决议
	RecordedBy   uint   `json:"recorded_by"`                          // 记录人

	// 关联关系
	AgendaItem *AgendaItem `gorm:"foreignKey:AgendaItemID" json:"agenda_item,omitempty"`
}
