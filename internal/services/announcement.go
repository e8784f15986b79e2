package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// AnnouncementService 公告服务（扁平权限实体）
type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

// Create 创建公告（草稿）
func (s *AnnouncementService) Create(title, body string, createdBy uint) (*models.Announcement, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("公告标题长度必须在2-255个字符之间")
	}

	announcement := &models.Announcement{
		Title:     title,
		Body:      body,
		CreatedBy: createdBy,
	}

	err := s.db.Create(announcement).Error
	return announcement, err
}

// GetByID 根据ID获取公告
func (s *AnnouncementService) GetByID(id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	err := s.db.First(&announcement, id).Error
	return &announcement, err
}

// GetWithPage 分页获取公告
// publishedOnly为true时只返回已发布的（普通用户的公告列表）
func (s *AnnouncementService) GetWithPage(publishedOnly bool, page, pageSize int) ([]*models.Announcement, int64, error) {
	var announcements []*models.Announcement
	var total int64

	query := s.db.Model(&models.Announcement{})
	if publishedOnly {
		query = query.Where("published_at IS NOT NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&announcements).Error
	if err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

// Update 更新公告
func (s *AnnouncementService) Update(id uint, title, body string) (*models.Announcement, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("公告标题长度必须在2-255个字符之间")
	}

	var announcement models.Announcement
	err := s.db.First(&announcement, id).Error
	if err != nil {
		return nil, err
	}

	announcement.Title = title
	announcement.Body = body

	err = s.db.Save(&announcement).Error
	return &announcement, err
}

// Publish 发布公告
func (s *AnnouncementService) Publish(id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	err := s.db.First(&announcement, id).Error
	if err != nil {
		return nil, err
	}

	if announcement.PublishedAt != nil {
		return nil, fmt.Errorf("公告已发布")
	}

	now := time.Now()
	announcement.PublishedAt = &now

	err = s.db.Save(&announcement).Error
	return &announcement, err
}

// Delete 删除公告（软删除）
func (s *AnnouncementService) Delete(id uint) error {
	var announcement models.Announcement
	err := s.db.First(&announcement, id).Error
	if err != nil {
		return err
	}
	return s.db.Delete(&announcement).Error
}

// ValidateTitle 验证公告标题
func (s *AnnouncementService) ValidateTitle(title string) bool {
	runeCount := utf8.RuneCountInString(title)
	return runeCount >= 2 && runeCount <= 255
}
