package models

// AgendaItem 议程项模型
// 归属且仅归属一个会议，授权完全委托给所属会议
type AgendaItem struct {
	SoftDeleteModel
	MeetingID        uint    `gorm:"not null;index" json:"meeting_id"` // 所属会议
	AgendaItemTypeID *uint   `gorm:"index" json:"agenda_item_type_id"` // 议程项类型（可选）
	Title            string  `gorm:"size:255;not null" json:"title"`   // 议题
	Description      string  `gorm:"type:text" json:"description"`     // 议题说明
	SortOrder        int     `gorm:"default:0" json:"sort_order"`      // 排序号
	PresenterID      *uint   `json:"presenter_id"`                     // 汇报人（可选）
	Presenter        *User   `gorm:"foreignKey:PresenterID" json:"presenter,omitempty"`

	// 关联关系
	Meeting        *Meeting        `gorm:"foreignKey:MeetingID" json:"meeting,omitempty"`
	AgendaItemType *AgendaItemType `gorm:"foreignKey:AgendaItemTypeID" json:"agenda_item_type,omitempty"`
	Minutes        []Minute        `gorm:"foreignKey:AgendaItemID" json:"minutes,omitempty"`
}

// AgendaItemType 议程项类型（扁平权限实体）
type AgendaItemType struct {
	SoftDeleteModel
	Code        string `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}
