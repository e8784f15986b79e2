package models

// HelpCategory 帮助分类模型（扁平权限实体）
type HelpCategory struct {
	SoftDeleteModel
	Name      string `gorm:"size:100;not null" json:"name"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`

	Articles []HelpArticle `gorm:"foreignKey:CategoryID" json:"articles,omitempty"`
}

// HelpArticle 帮助文章模型（扁平权限实体）
type HelpArticle struct {
	SoftDeleteModel
	CategoryID uint   `gorm:"not null;index" json:"category_id"`
	Title      string `gorm:"size:255;not null" json:"title"`
	Body       string `gorm:"type:text" json:"body"`
	Published  bool   `gorm:"default:false" json:"published"`

	Category *HelpCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
