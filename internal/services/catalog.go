package services

import (
	"fmt"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// 小型目录类实体的服务：职位、聘用状态、关键词
// 全部是扁平权限实体，只做简单CRUD

// ========== 职位 ==========

// PositionService 职位服务
type PositionService struct {
	db *gorm.DB
}

func NewPositionService(db *gorm.DB) *PositionService {
	return &PositionService{db: db}
}

// Create 创建职位
func (s *PositionService) Create(code, name string, grade int) (*models.Position, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("职位名称长度必须在2-100个字符之间")
	}

	var count int64
	s.db.Model(&models.Position{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("职位代码已存在")
	}

	position := &models.Position{Code: code, Name: name, Grade: grade}
	err := s.db.Create(position).Error
	return position, err
}

// GetByID 根据ID获取职位
func (s *PositionService) GetByID(id uint) (*models.Position, error) {
	var position models.Position
	err := s.db.First(&position, id).Error
	return &position, err
}

// GetAll 获取全部职位（按职级降序）
func (s *PositionService) GetAll() ([]*models.Position, error) {
	var positions []*models.Position
	err := s.db.Order("grade DESC, code ASC").Find(&positions).Error
	return positions, err
}

// Update 更新职位
func (s *PositionService) Update(id uint, name string, grade int) (*models.Position, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("职位名称长度必须在2-100个字符之间")
	}

	var position models.Position
	err := s.db.First(&position, id).Error
	if err != nil {
		return nil, err
	}

	position.Name = name
	position.Grade = grade
	err = s.db.Save(&position).Error
	return &position, err
}

// Delete 删除职位，仍被参会人员引用时拒绝
func (s *PositionService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.Participant{}).Where("position_id = ?", id).Count(&count)
	if count > 0 {
		return fmt.Errorf("该职位仍被参会人员引用，不能删除")
	}
	return s.db.Delete(&models.Position{}, id).Error
}

// ========== 聘用状态 ==========

// EmploymentStatusService 聘用状态服务
type EmploymentStatusService struct {
	db *gorm.DB
}

func NewEmploymentStatusService(db *gorm.DB) *EmploymentStatusService {
	return &EmploymentStatusService{db: db}
}

// Create 创建聘用状态
func (s *EmploymentStatusService) Create(code, name string) (*models.EmploymentStatus, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("聘用状态名称长度必须在2-100个字符之间")
	}

	var count int64
	s.db.Model(&models.EmploymentStatus{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("聘用状态代码已存在")
	}

	status := &models.EmploymentStatus{Code: code, Name: name}
	err := s.db.Create(status).Error
	return status, err
}

// GetByID 根据ID获取聘用状态
func (s *EmploymentStatusService) GetByID(id uint) (*models.EmploymentStatus, error) {
	var status models.EmploymentStatus
	err := s.db.First(&status, id).Error
	return &status, err
}

// GetAll 获取全部聘用状态
func (s *EmploymentStatusService) GetAll() ([]*models.EmploymentStatus, error) {
	var statuses []*models.EmploymentStatus
	err := s.db.Order("code").Find(&statuses).Error
	return statuses, err
}

// Update 更新聘用状态
func (s *EmploymentStatusService) Update(id uint, name string) (*models.EmploymentStatus, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("聘用状态名称长度必须在2-100个字符之间")
	}

	var status models.EmploymentStatus
	err := s.db.First(&status, id).Error
	if err != nil {
		return nil, err
	}

	status.Name = name
	err = s.db.Save(&status).Error
	return &status, err
}

// Delete 删除聘用状态，仍被参会人员引用时拒绝
func (s *EmploymentStatusService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.Participant{}).Where("employment_status_id = ?", id).Count(&count)
	if count > 0 {
		return fmt.Errorf("该聘用状态仍被参会人员引用，不能删除")
	}
	return s.db.Delete(&models.EmploymentStatus{}, id).Error
}

// ========== 关键词 ==========

// KeywordService 关键词服务
type KeywordService struct {
	db *gorm.DB
}

func NewKeywordService(db *gorm.DB) *KeywordService {
	return &KeywordService{db: db}
}

// Create 创建关键词
func (s *KeywordService) Create(name string) (*models.Keyword, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("关键词长度必须在2-100个字符之间")
	}

	var count int64
	s.db.Model(&models.Keyword{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("关键词已存在")
	}

	keyword := &models.Keyword{Name: name}
	err := s.db.Create(keyword).Error
	return keyword, err
}

// GetAll 获取全部关键词
func (s *KeywordService) GetAll() ([]*models.Keyword, error) {
	var keywords []*models.Keyword
	err := s.db.Order("name").Find(&keywords).Error
	return keywords, err
}

// Update 更新关键词
func (s *KeywordService) Update(id uint, name string) (*models.Keyword, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("关键词长度必须在2-100个字符之间")
	}

	var keyword models.Keyword
	err := s.db.First(&keyword, id).Error
	if err != nil {
		return nil, err
	}

	keyword.Name = name
	err = s.db.Save(&keyword).Error
	return &keyword, err
}

// Delete 删除关键词
func (s *KeywordService) Delete(id uint) error {
	return s.db.Delete(&models.Keyword{}, id).Error
}

// validateCatalogName 目录类名称的公共校验
func validateCatalogName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}
