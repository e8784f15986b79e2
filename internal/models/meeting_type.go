package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MeetingType 会议类型（如"学术委员会"）
// 上下文授权的载体：每个(用户, 会议类型)对持有一份上下文权限集
type MeetingType struct {
	SoftDeleteModel
	Code        string `gorm:"uniqueIndex;size:100;not null" json:"code"` // 类型代码，如 "academic_council"
	Name        string `gorm:"size:100;not null" json:"name"`             // 类型名称
	Description string `gorm:"size:255" json:"description"`               // 类型描述

	// 关联关系
	Grants []MeetingTypeGrant `gorm:"foreignKey:MeetingTypeID" json:"grants,omitempty"`
}

// MeetingTypeGrant 会议类型授权记录
// (meeting_type_id, user_id) 复合唯一：重复授权覆盖整套权限集，绝不重复建行
type MeetingTypeGrant struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	MeetingTypeID uint           `gorm:"not null;uniqueIndex:idx_type_user" json:"meeting_type_id"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_type_user" json:"user_id"`
	Permissions   datatypes.JSON `gorm:"type:json" json:"permissions"` // 序列化的上下文权限数组，如 ["view","edit"]
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CreatedBy     uint           `json:"created_by"` // 谁授的权

	// 关联关系
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// PermissionList 解析授权记录中的权限数组
// 脏数据解析失败时返回空集，绝不放行
func (g *MeetingTypeGrant) PermissionList() []string {
	if len(g.Permissions) == 0 {
		return nil
	}
	var perms []string
	if err := json.Unmarshal(g.Permissions, &perms); err != nil {
		return nil
	}
	return perms
}

// PermissionSet 权限数组转集合
func (g *MeetingTypeGrant) PermissionSet() map[string]bool {
	set := make(map[string]bool)
	for _, p := range g.PermissionList() {
		set[p] = true
	}
	return set
}
