package models

// 小型目录类实体：职位、聘用状态、关键词
// 全部是扁平权限实体，仅受全局权限约束

// Position 职位模型
type Position struct {
	SoftDeleteModel
	Code  string `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Grade int    `gorm:"default:0" json:"grade"` // 职级，用于排序展示
}

// EmploymentStatus 聘用状态模型
type EmploymentStatus struct {
	SoftDeleteModel
	Code string `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Keyword 关键词模型
type Keyword struct {
	SoftDeleteModel
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}
