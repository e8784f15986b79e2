package models

// Permission 全局权限模型
// Code是扁平的权限字符串，形如 "edit agenda items"，精确匹配，无层级
type Permission struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;size:100;not null" json:"code"` // 权限字符串，如 "edit agenda items"
	Name        string `gorm:"size:100;not null" json:"name"`             // 权限名称，如 "编辑议程项"
	Description string `gorm:"size:255" json:"description"`               // 权限描述
	Module      string `gorm:"size:50;not null" json:"module"`            // 所属模块，如 "meetings"
	Action      string `gorm:"size:50;not null" json:"action"`            // 动作，如 "edit"
}
