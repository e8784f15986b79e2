package models

// Setting 系统设置模型（扁平权限实体），键值对存储
type Setting struct {
	BaseModel
	Key         string `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"size:255" json:"description"`
}
