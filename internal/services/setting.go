package services

import (
	"errors"
	"fmt"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// SettingService 系统设置服务，键值对存储
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// 预置设置键
const (
	SettingKeySiteName         = "site_name"
	SettingKeyMaintenanceMode  = "maintenance_mode"
	SettingKeyReminderLeadTime = "reminder_lead_hours"
)

// GetAll 获取全部设置
func (s *SettingService) GetAll() ([]*models.Setting, error) {
	var settings []*models.Setting
	err := s.db.Order("key").Find(&settings).Error
	return settings, err
}

// Get 获取单个设置值，不存在时返回默认值
func (s *SettingService) Get(key, defaultValue string) (string, error) {
	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultValue, nil
		}
		return "", err
	}
	return setting.Value, nil
}

// Set 写入设置（不存在则创建）
func (s *SettingService) Set(key, value string) (*models.Setting, error) {
	if key == "" {
		return nil, fmt.Errorf("设置键不能为空")
	}

	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		setting = models.Setting{Key: key, Value: value}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}

	setting.Value = value
	if err := s.db.Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// IsMaintenanceMode 维护模式是否开启（数据库设置优先于环境变量）
func (s *SettingService) IsMaintenanceMode() bool {
	value, err := s.Get(SettingKeyMaintenanceMode, "false")
	if err != nil {
		return false
	}
	return value == "true" || value == "1"
}
