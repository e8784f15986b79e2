package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// UserService 用户服务，同时实现策略层的PermissionSource
type UserService struct {
	db    *gorm.DB
	cache *PermissionCache
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
}

func NewUserService(db *gorm.DB, cache *PermissionCache) *UserService {
	return &UserService{
		db:    db,
		cache: cache,
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (s *UserService) Create(username, email, password, name string, phone *string) (*models.User, error) {
	// 验证参数
	if err := s.ValidateCreateParams(username, email, password, name); err != nil {
		return nil, err
	}

	// 检查用户名是否重复
	var usernameCount int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&usernameCount)
	if usernameCount > 0 {
		return nil, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Phone:    phone,
		Status:   models.UserStatusActive,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err := s.db.Create(user).Error
	return user, err
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	return &user, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *UserService) GetWithFiltersAndPage(status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户
func (s *UserService) Update(id uint, name, email string, phone *string, status string) (*models.User, error) {
	if err := s.ValidateUpdateParams(name, email, status); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	// 如果邮箱变更，检查是否重复
	if user.Email != email {
		var emailCount int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&emailCount)
		if emailCount > 0 {
			return nil, fmt.Errorf("邮箱已存在")
		}
	}

	user.Name = name
	user.Email = email
	user.Phone = phone
	user.Status = status

	// 用户状态不参与有效权限解析（停用用户由登录中间件拦截），无需失效缓存
	err = s.db.Save(&user).Error
	return &user, err
}

// Delete 删除用户（软删除）
func (s *UserService) Delete(id uint) error {
	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// Restore 恢复软删除的用户
func (s *UserService) Restore(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Unscoped().First(&user, id).Error; err != nil {
		return nil, err
	}
	if err := s.db.Unscoped().Model(&user).Update("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ForceDelete 彻底删除用户
func (s *UserService) ForceDelete(id uint) error {
	if err := s.db.Unscoped().Delete(&models.User{}, id).Error; err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// ========== 快捷操作方法 ==========

// Activate 激活用户
func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusActive)
}

// Deactivate 停用用户
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusInactive)
}

// Lock 锁定用户
func (s *UserService) Lock(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusLocked)
}

func (s *UserService) setStatus(id uint, status string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	user.Status = status
	err = s.db.Save(&user).Error
	return &user, err
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) (*models.User, error) {
	if err := s.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err = s.db.Save(&user).Error
	return &user, err
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

// IsActive 检查用户是否激活
func (s *UserService) IsActive(user *models.User) bool {
	return user.Status == models.UserStatusActive
}

// GetStats 获取用户统计
func (s *UserService) GetStats() (*UserStats, error) {
	stats := &UserStats{}

	s.db.Model(&models.User{}).Count(&stats.Total)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.Active)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusInactive).Count(&stats.Inactive)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusLocked).Count(&stats.Locked)

	return stats, nil
}

// ========== 角色与直接权限管理 ==========

// AssignRoles 为用户分配角色（整体替换）
func (s *UserService) AssignRoles(userID uint, roleIDs []uint) error {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		return err
	}

	var roles []models.Role
	err = s.db.Where("id IN ?", roleIDs).Find(&roles).Error
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return fmt.Errorf("部分角色不存在")
	}

	if err := s.db.Model(&user).Association("Roles").Replace(roles); err != nil {
		return err
	}

	// 写路径同步失效，下一次鉴权立即反映变更
	s.cache.Invalidate(userID)
	return nil
}

// AddRole 为用户添加单个角色
func (s *UserService) AddRole(userID, roleID uint) error {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		return err
	}

	var role models.Role
	err = s.db.First(&role, roleID).Error
	if err != nil {
		return fmt.Errorf("角色不存在")
	}

	var count int64
	s.db.Table("user_roles").Where("user_id = ? AND role_id = ?", userID, roleID).Count(&count)
	if count > 0 {
		return fmt.Errorf("用户已拥有该角色")
	}

	if err := s.db.Model(&user).Association("Roles").Append(&role); err != nil {
		return err
	}

	s.cache.Invalidate(userID)
	return nil
}

// RemoveRole 移除用户的角色
func (s *UserService) RemoveRole(userID, roleID uint) error {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err != nil {
		return err
	}

	var role models.Role
	err = s.db.First(&role, roleID).Error
	if err != nil {
		return err
	}

	if err := s.db.Model(&user).Association("Roles").Delete(&role); err != nil {
		return err
	}

	s.cache.Invalidate(userID)
	return nil
}

// AssignDirectPermissions 为用户直接授予权限（绕过角色，整体替换）
func (s *UserService) AssignDirectPermissions(userID uint, permissionIDs []uint) error {
	var user models.User
	err := s.db.First(&user, userID).Error
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

	if err := s.db.Model(&user).Association("Permissions").Replace(permissions); err != nil {
		return err
	}

	s.cache.Invalidate(userID)
	return nil
}

// GetUserRoles 获取用户的角色列表
func (s *UserService) GetUserRoles(userID uint) ([]models.Role, error) {
	var user models.User
	err := s.db.Preload("Roles.Permissions").First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return user.Roles, nil
}

// ========== 有效权限解析（策略层数据源） ==========

// loadEffective 从数据库解析有效权限集：活跃角色的权限 ∪ 直接权限
func (s *UserService) loadEffective(userID uint) (map[string]bool, bool, error) {
	var user models.User
	err := s.db.Preload("Roles.Permissions").Preload("Permissions").First(&user, userID).Error
	if err != nil {
		return nil, false, err
	}

	codes := make(map[string]bool)
	isSuper := false

	for _, role := range user.Roles {
		if role.Status != models.RoleStatusActive {
			continue
		}
		if role.Code == models.RoleSuperAdmin {
			isSuper = true
		}
		for _, permission := range role.Permissions {
			codes[permission.Code] = true
		}
	}

	// 直接授予的权限（绕过角色）
	for _, permission := range user.Permissions {
		codes[permission.Code] = true
	}

	return codes, isSuper, nil
}

// effective 带缓存的有效权限解析
func (s *UserService) effective(userID uint) (map[string]bool, bool, error) {
	if codes, isSuper, ok := s.cache.Get(userID); ok {
		return codes, isSuper, nil
	}

	codes, isSuper, err := s.loadEffective(userID)
	if err != nil {
		return nil, false, err
	}

	s.cache.Set(userID, codes, isSuper)
	return codes, isSuper, nil
}

// EffectivePermissions 获取用户的有效全局权限集
func (s *UserService) EffectivePermissions(userID uint) ([]string, error) {
	codes, _, err := s.effective(userID)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(codes))
	for code := range codes {
		result = append(result, code)
	}
	return result, nil
}

// IsSuperAdmin 用户是否持有保留的超级管理员角色（policy.PermissionSource）
func (s *UserService) IsSuperAdmin(userID uint) (bool, error) {
	_, isSuper, err := s.effective(userID)
	return isSuper, err
}

// HasPermission 有效权限集是否包含指定权限字符串（policy.PermissionSource）
func (s *UserService) HasPermission(userID uint, code string) (bool, error) {
	codes, _, err := s.effective(userID)
	if err != nil {
		return false, err
	}
	return codes[code], nil
}

// ========== 验证相关方法 ==========

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateEmail 验证邮箱
func (s *UserService) ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".") && len(email) >= 5 && len(email) <= 100
}

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	if len(password) > 50 {
		return fmt.Errorf("密码长度不能超过50位")
	}
	return nil
}

// ValidateName 验证姓名（按字符数而非字节数）
func (s *UserService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// IsValidStatus 检查用户状态是否有效
func (s *UserService) IsValidStatus(status string) bool {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusLocked:
		return true
	default:
		return false
	}
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(username, email, password, name string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名长度必须在3-50个字符之间，且只能包含字母、数字和下划线")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在2-50个字符之间")
	}
	return nil
}

// ValidateUpdateParams 验证更新用户的参数
func (s *UserService) ValidateUpdateParams(name, email, status string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在2-50个字符之间")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if !s.IsValidStatus(status) {
		return fmt.Errorf("状态只能是active、inactive或locked")
	}
	return nil
}
