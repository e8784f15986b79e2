package models

// Participant 参会人员模型（扁平权限实体）
// 可以关联系统用户，也可以是外部人员（仅姓名邮箱）
type Participant struct {
	SoftDeleteModel
	UserID             *uint  `gorm:"index" json:"user_id"` // 关联用户（可选）
	Name               string `gorm:"size:100;not null" json:"name"`
	Email              string `gorm:"size:100;index" json:"email"`
	Department         string `gorm:"size:100" json:"department"`
	PositionID         *uint  `gorm:"index" json:"position_id"`
	EmploymentStatusID *uint  `gorm:"index" json:"employment_status_id"`

	// 关联关系
	User             *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Position         *Position         `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	EmploymentStatus *EmploymentStatus `gorm:"foreignKey:EmploymentStatusID" json:"employment_status,omitempty"`
}
