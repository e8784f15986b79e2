package models

import "time"

// Role 角色模型
type Role struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;size:100;not null" json:"code"` // 角色代码，如 "registrar"
	Name        string `gorm:"size:100;not null" json:"name"`             // 角色名称
	Description string `gorm:"size:255" json:"description"`               // 角色描述
	IsReserved  bool   `gorm:"default:false" json:"is_reserved"`          // 保留角色（超级管理员），不可改名/删除
	Status      string `gorm:"size:20;default:'active'" json:"status"`    // 状态：active, inactive

	// 关联关系
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// 角色状态常量
const (
	RoleStatusActive   = "active"
	RoleStatusInactive = "inactive"
)

// RoleSuperAdmin 保留角色代码：持有该角色的用户在策略层直接放行
const RoleSuperAdmin = "super_admin"

// 系统预定义角色常量
const (
	RoleVC        = "vc"        // 校长
	RoleRegistrar = "registrar" // 教务长
	RoleDirector  = "director"  // 主任
	RoleDean      = "dean"      // 院长
	RoleFaculty   = "faculty"   // 教师
	RoleStaff     = "staff"     // 职员
)

// RolePermission 角色权限关联表
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;uniqueIndex:idx_role_perm" json:"role_id"`
	PermissionID uint      `gorm:"not null;uniqueIndex:idx_role_perm" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}
