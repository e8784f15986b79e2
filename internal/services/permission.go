package services

import (
	"meetgov/internal/models"

	"gorm.io/gorm"
)

// PermissionService 权限服务
// 权限词汇表在发布时由种子数据固化，运行时只读
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// GetWithPage 分页获取权限
func (s *PermissionService) GetWithPage(module string, page, pageSize int) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	query := s.db.Model(&models.Permission{})

	// 按模块筛选
	if module != "" {
		query = query.Where("module = ?", module)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("module, action").Offset(offset).Limit(pageSize).Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

// GetByID 根据ID获取权限
func (s *PermissionService) GetByID(id uint) (*models.Permission, error) {
	var permission models.Permission
	err := s.db.First(&permission, id).Error
	return &permission, err
}

// GetByCode 根据权限字符串获取权限
func (s *PermissionService) GetByCode(code string) (*models.Permission, error) {
	var permission models.Permission
	err := s.db.Where("code = ?", code).First(&permission).Error
	return &permission, err
}

// GetModules 获取全部模块名（用于管理界面的分组展示）
func (s *PermissionService) GetModules() ([]string, error) {
	var modules []string
	err := s.db.Model(&models.Permission{}).Distinct("module").Order("module").Pluck("module", &modules).Error
	return modules, err
}
