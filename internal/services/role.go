package services

import (
	"fmt"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// RoleService 角色服务
type RoleService struct {
	db    *gorm.DB
	cache *PermissionCache
}

func NewRoleService(db *gorm.DB, cache *PermissionCache) *RoleService {
	return &RoleService{
		db:    db,
		cache: cache,
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建角色
func (s *RoleService) Create(code, name, description string) (*models.Role, error) {
	if err := s.ValidateCreateParams(code, name); err != nil {
		return nil, err
	}

	// 检查角色代码是否重复
	var count int64
	s.db.Model(&models.Role{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("角色代码已存在")
	}

	role := &models.Role{
		Code:        code,
		Name:        name,
		Description: description,
		Status:      models.RoleStatusActive,
		IsReserved:  false,
	}

	err := s.db.Create(role).Error
	return role, err
}

// GetByID 根据ID获取角色
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, id).Error
	return &role, err
}

// GetByCode 根据代码获取角色
func (s *RoleService) GetByCode(code string) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").Where("code = ?", code).First(&role).Error
	return &role, err
}

// GetWithPage 分页获取角色
func (s *RoleService) GetWithPage(status string, page, pageSize int) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := s.db.Model(&models.Role{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Permissions").Offset(offset).Limit(pageSize).Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// Update 更新角色
// 保留角色的目标级守卫由求值器判定（CanRole），handler在调用前把关
func (s *RoleService) Update(id uint, name, description, status string) (*models.Role, error) {
	if err := s.ValidateUpdateParams(name, status); err != nil {
		return nil, err
	}

	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return nil, err
	}

	role.Name = name
	role.Description = description
	role.Status = status

	err = s.db.Save(&role).Error
	if err == nil {
		// 状态变更影响全部持有者的有效权限
		s.cache.InvalidateAll()
	}
	return &role, err
}

// Delete 删除角色
// 目标级守卫同Update，由handler经求值器判定
func (s *RoleService) Delete(id uint) error {
	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return err
	}

	if err := s.db.Delete(&role).Error; err != nil {
		return err
	}

	s.cache.InvalidateAll()
	return nil
}

// ========== 权限管理方法 ==========

// AssignPermissions 为角色分配权限（整体替换）
// 角色权限集变更对所有持有者立即生效，无需逐用户更新
func (s *RoleService) AssignPermissions(roleID uint, permissionIDs []uint) error {
	var role models.Role
	err := s.db.First(&role, roleID).Error
	if err != nil {
		return err
	}

	var permissions []models.Permission
	err = s.db.Where("id IN ?", permissionIDs).Find(&permissions).Error
	if err != nil {
		return err
	}
	if len(permissions) != len(permissionIDs) {
		return fmt.Errorf("部分权限不存在")
	}

	if err := s.db.Model(&role).Association("Permissions").Replace(permissions); err != nil {
		return err
	}

	// 无法廉价枚举持有者，全量失效
	s.cache.InvalidateAll()
	return nil
}

// GetRolePermissions 获取角色的权限
func (s *RoleService) GetRolePermissions(roleID uint) ([]models.Permission, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, roleID).Error
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

// ========== 验证方法 ==========

// ValidateCode 验证角色代码
func (s *RoleService) ValidateCode(code string) bool {
	if len(code) < 2 || len(code) > 50 {
		return false
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateName 验证角色名称
func (s *RoleService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// ValidateStatus 验证角色状态
func (s *RoleService) ValidateStatus(status string) bool {
	return status == models.RoleStatusActive || status == models.RoleStatusInactive
}

// ValidateCreateParams 验证创建角色的参数
func (s *RoleService) ValidateCreateParams(code, name string) error {
	if !s.ValidateCode(code) {
		return fmt.Errorf("角色代码长度必须在2-50个字符之间，且只能包含字母、数字和下划线")
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("角色名称长度必须在2-50个字符之间")
	}
	return nil
}

// ValidateUpdateParams 验证更新角色的参数
func (s *RoleService) ValidateUpdateParams(name, status string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("角色名称长度必须在2-50个字符之间")
	}
	if !s.ValidateStatus(status) {
		return fmt.Errorf("状态只能是active或inactive")
	}
	return nil
}
