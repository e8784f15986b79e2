package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"meetgov/internal/models"
	"meetgov/internal/policy"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MeetingTypeService 会议类型服务与授权存储
// (meeting_type_id, user_id)复合唯一：重复授权覆盖整套权限集
// 同时实现策略层的GrantSource
type MeetingTypeService struct {
	db *gorm.DB
}

// GrantedUser 某会议类型下已授权用户的展示结构
type GrantedUser struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	FullAccess  bool     `json:"full_access"` // 权限集等于完整词汇表，仅用于展示统计
	GrantedAt   int64    `json:"granted_at"`
}

// Candidate 待授权用户搜索结果
type Candidate struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// 候选用户搜索的结果上限
const candidateLimit = 5

func NewMeetingTypeService(db *gorm.DB) *MeetingTypeService {
	return &MeetingTypeService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建会议类型
func (s *MeetingTypeService) Create(code, name, description string) (*models.MeetingType, error) {
	if err := s.ValidateCreateParams(code, name); err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.MeetingType{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("会议类型代码已存在")
	}

	meetingType := &models.MeetingType{
		Code:        code,
		Name:        name,
		Description: description,
	}

	err := s.db.Create(meetingType).Error
	return meetingType, err
}

// GetByID 根据ID获取会议类型
func (s *MeetingTypeService) GetByID(id uint) (*models.MeetingType, error) {
	var meetingType models.MeetingType
	err := s.db.First(&meetingType, id).Error
	return &meetingType, err
}

// GetWithPage 分页获取会议类型
func (s *MeetingTypeService) GetWithPage(keyword string, page, pageSize int) ([]*models.MeetingType, int64, error) {
	var types []*models.MeetingType
	var total int64

	query := s.db.Model(&models.MeetingType{})
	if keyword != "" {
		pattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR code LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&types).Error
	if err != nil {
		return nil, 0, err
	}

	return types, total, nil
}

// Update 更新会议类型
func (s *MeetingTypeService) Update(id uint, name, description string) (*models.MeetingType, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("类型名称长度必须在2-100个字符之间")
	}

	var meetingType models.MeetingType
	err := s.db.First(&meetingType, id).Error
	if err != nil {
		return nil, err
	}

	meetingType.Name = name
	meetingType.Description = description

	err = s.db.Save(&meetingType).Error
	return &meetingType, err
}

// Delete 删除会议类型（软删除），存在会议时拒绝
func (s *MeetingTypeService) Delete(id uint) error {
	var meetingCount int64
	s.db.Model(&models.Meeting{}).Where("meeting_type_id = ?", id).Count(&meetingCount)
	if meetingCount > 0 {
		return fmt.Errorf("该类型下存在会议，不能删除")
	}

	return s.db.Delete(&models.MeetingType{}, id).Error
}

// ========== 授权存储 ==========

// NormalizeGrantPermissions 校验并规范化上下文权限集
// 写入时拒绝词汇表之外的值（而非静默忽略），去重并按词汇表顺序排序
func NormalizeGrantPermissions(perms []string) ([]string, error) {
	seen := make(map[string]bool)
	for _, p := range perms {
		if !policy.IsContextualPerm(p) {
			return nil, fmt.Errorf("未知的上下文权限: %s", p)
		}
		seen[p] = true
	}

	// 按词汇表顺序输出，保证序列化结果稳定
	result := make([]string, 0, len(seen))
	for _, p := range policy.ContextualPerms {
		if seen[string(p)] {
			result = append(result, string(p))
		}
	}
	return result, nil
}

// Grant 授权：覆盖式upsert，同一(类型,用户)对绝不产生第二条记录
func (s *MeetingTypeService) Grant(meetingTypeID, userID uint, perms []string, createdBy uint) (*models.MeetingTypeGrant, error) {
	normalized, err := NormalizeGrantPermissions(perms)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("权限集不能为空")
	}

	// 检查会议类型和用户存在
	var typeCount int64
	s.db.Model(&models.MeetingType{}).Where("id = ?", meetingTypeID).Count(&typeCount)
	if typeCount == 0 {
		return nil, fmt.Errorf("会议类型不存在")
	}
	var userCount int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&userCount)
	if userCount == 0 {
		return nil, fmt.Errorf("用户不存在")
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("序列化权限集失败: %v", err)
	}

	// upsert：已有记录覆盖整套权限集
	var grant models.MeetingTypeGrant
	err = s.db.Where("meeting_type_id = ? AND user_id = ?", meetingTypeID, userID).First(&grant).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		grant = models.MeetingTypeGrant{
			MeetingTypeID: meetingTypeID,
			UserID:        userID,
			Permissions:   datatypes.JSON(data),
			CreatedBy:     createdBy,
		}
		if err := s.db.Create(&grant).Error; err != nil {
			return nil, err
		}
		return &grant, nil
	}

	grant.Permissions = datatypes.JSON(data)
	if err := s.db.Save(&grant).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}

// Revoke 撤销授权：整条记录删除
func (s *MeetingTypeService) Revoke(meetingTypeID, userID uint) error {
	result := s.db.Where("meeting_type_id = ? AND user_id = ?", meetingTypeID, userID).
		Delete(&models.MeetingTypeGrant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("授权记录不存在")
	}
	return nil
}

// ListGrantedUsers 某会议类型下的全部授权用户
// 按授权创建时间排序（稳定，非字母序）
func (s *MeetingTypeService) ListGrantedUsers(meetingTypeID uint) ([]*GrantedUser, error) {
	var grants []models.MeetingTypeGrant
	err := s.db.Where("meeting_type_id = ?", meetingTypeID).
		Preload("User").
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}

	result := make([]*GrantedUser, 0, len(grants))
	for _, grant := range grants {
		entry := &GrantedUser{
			UserID:      grant.UserID,
			Permissions: grant.PermissionList(),
			GrantedAt:   grant.CreatedAt.Unix(),
		}
		if grant.User != nil {
			entry.Username = grant.User.Username
			entry.Name = grant.User.Name
			entry.Email = grant.User.Email
		}
		// 仅用于展示：权限集覆盖完整词汇表即"完全访问"
		entry.FullAccess = len(entry.Permissions) == len(policy.ContextualPerms)
		result = append(result, entry)
	}

	return result, nil
}

// FindCandidates 搜索尚未授权的用户（添加用户流程）
// 姓名/邮箱大小写不敏感的子串匹配，结果数量封顶
func (s *MeetingTypeService) FindCandidates(meetingTypeID uint, term string) ([]*Candidate, error) {
	var users []models.User

	granted := s.db.Model(&models.MeetingTypeGrant{}).
		Select("user_id").
		Where("meeting_type_id = ?", meetingTypeID)

	query := s.db.Model(&models.User{}).Where("id NOT IN (?)", granted)
	if term != "" {
		pattern := fmt.Sprintf("%%%s%%", term)
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	err := query.Limit(candidateLimit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make([]*Candidate, 0, len(users))
	for _, user := range users {
		result = append(result, &Candidate{
			UserID:   user.ID,
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
		})
	}
	return result, nil
}

// UserIDsWithGrant 某会议类型下持有指定上下文权限的全部用户ID（提醒调度用）
func (s *MeetingTypeService) UserIDsWithGrant(meetingTypeID uint, perm policy.ContextualPerm) ([]uint, error) {
	var grants []models.MeetingTypeGrant
	err := s.db.Where("meeting_type_id = ?", meetingTypeID).Find(&grants).Error
	if err != nil {
		return nil, err
	}

	var userIDs []uint
	for _, grant := range grants {
		if grant.PermissionSet()[string(perm)] {
			userIDs = append(userIDs, grant.UserID)
		}
	}
	return userIDs, nil
}

// GetGrant 获取单条授权记录
func (s *MeetingTypeService) GetGrant(meetingTypeID, userID uint) (*models.MeetingTypeGrant, error) {
	var grant models.MeetingTypeGrant
	err := s.db.Where("meeting_type_id = ? AND user_id = ?", meetingTypeID, userID).First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// HasGrant 用户在指定会议类型下是否持有指定上下文权限（policy.GrantSource）
// 词汇表之外的历史残留值在读取时被忽略，不会使检查失败
func (s *MeetingTypeService) HasGrant(userID, meetingTypeID uint, perm policy.ContextualPerm) (bool, error) {
	var grant models.MeetingTypeGrant
	err := s.db.Where("meeting_type_id = ? AND user_id = ?", meetingTypeID, userID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return grant.PermissionSet()[string(perm)], nil
}

// TypeIDsWithGrant 用户持有指定上下文权限的全部会议类型ID
// 用于列表过滤（view）和创建时的类型集收窄（create）
func (s *MeetingTypeService) TypeIDsWithGrant(userID uint, perm policy.ContextualPerm) ([]uint, error) {
	var grants []models.MeetingTypeGrant
	err := s.db.Where("user_id = ?", userID).Find(&grants).Error
	if err != nil {
		return nil, err
	}

	var typeIDs []uint
	for _, grant := range grants {
		if grant.PermissionSet()[string(perm)] {
			typeIDs = append(typeIDs, grant.MeetingTypeID)
		}
	}
	return typeIDs, nil
}

// TypesWithGrant 用户持有指定上下文权限的全部会议类型
func (s *MeetingTypeService) TypesWithGrant(userID uint, perm policy.ContextualPerm) ([]*models.MeetingType, error) {
	typeIDs, err := s.TypeIDsWithGrant(userID, perm)
	if err != nil {
		return nil, err
	}
	if len(typeIDs) == 0 {
		return []*models.MeetingType{}, nil
	}

	var types []*models.MeetingType
	err = s.db.Where("id IN ?", typeIDs).Find(&types).Error
	return types, err
}

// GetAll 获取全部会议类型（超级管理员的类型选择列表）
func (s *MeetingTypeService) GetAll() ([]*models.MeetingType, error) {
	var types []*models.MeetingType
	err := s.db.Find(&types).Error
	return types, err
}

// ========== 验证方法 ==========

// ValidateCode 验证类型代码
func (s *MeetingTypeService) ValidateCode(code string) bool {
	if len(code) < 2 || len(code) > 100 {
		return false
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateName 验证类型名称
func (s *MeetingTypeService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}

// ValidateCreateParams 验证创建参数
func (s *MeetingTypeService) ValidateCreateParams(code, name string) error {
	if !s.ValidateCode(code) {
		return fmt.Errorf("类型代码长度必须在2-100个字符之间，且只能包含小写字母、数字和下划线")
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("类型名称长度必须在2-100个字符之间")
	}
	return nil
}
