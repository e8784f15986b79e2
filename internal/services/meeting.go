package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// MeetingService 会议服务
// 状态机：draft -> finalized -> published，只允许单向推进
type MeetingService struct {
	db *gorm.DB
}

func NewMeetingService(db *gorm.DB) *MeetingService {
	return &MeetingService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建会议（初始状态为草稿）
func (s *MeetingService) Create(meetingTypeID uint, title, number, venue string, scheduledAt *time.Time, createdBy uint) (*models.Meeting, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("会议标题长度必须在2-255个字符之间")
	}

	var typeCount int64
	s.db.Model(&models.MeetingType{}).Where("id = ?", meetingTypeID).Count(&typeCount)
	if typeCount == 0 {
		return nil, fmt.Errorf("会议类型不存在")
	}

	meeting := &models.Meeting{
		MeetingTypeID: meetingTypeID,
		Title:         title,
		Number:        number,
		Venue:         venue,
		ScheduledAt:   scheduledAt,
		Status:        models.MeetingStatusDraft,
		CreatedBy:     createdBy,
	}

	err := s.db.Create(meeting).Error
	return meeting, err
}

// GetByID 根据ID获取会议
func (s *MeetingService) GetByID(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Preload("MeetingType").First(&meeting, id).Error
	return &meeting, err
}

// GetUnscoped 获取会议（含软删除），回收站操作的目标解析用
func (s *MeetingService) GetUnscoped(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Unscoped().Preload("MeetingType").First(&meeting, id).Error
	return &meeting, err
}

// GetWithDetail 获取会议及其议程项（含排序）
func (s *MeetingService) GetWithDetail(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Preload("MeetingType").
		Preload("AgendaItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("AgendaItems.AgendaItemType").
		Preload("AgendaItems.Presenter").
		First(&meeting, id).Error
	return &meeting, err
}

// GetWithPage 分页获取会议，按可见类型集过滤
// typeIDs为调用方算出的可见类型集（超级管理员传nil表示不过滤）
func (s *MeetingService) GetWithPage(typeIDs []uint, restrict bool, status, keyword string, page, pageSize int) ([]*models.Meeting, int64, error) {
	var meetings []*models.Meeting
	var total int64

	query := s.db.Model(&models.Meeting{})

	if restrict {
		if len(typeIDs) == 0 {
			// 无任何可见类型，直接返回空页
			return []*models.Meeting{}, 0, nil
		}
		query = query.Where("meeting_type_id IN ?", typeIDs)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		pattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("title LIKE ? OR number LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("MeetingType").
		Order("scheduled_at DESC NULLS LAST, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

// Update 更新会议基本信息
// 已发布的会议不允许修改
func (s *MeetingService) Update(id uint, title, number, venue string, scheduledAt *time.Time) (*models.Meeting, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("会议标题长度必须在2-255个字符之间")
	}

	var meeting models.Meeting
	err := s.db.First(&meeting, id).Error
	if err != nil {
		return nil, err
	}

	if meeting.Status == models.MeetingStatusPublished {
		return nil, fmt.Errorf("已发布的会议不允许修改")
	}

	meeting.Title = title
	meeting.Number = number
	meeting.Venue = venue
	meeting.ScheduledAt = scheduledAt

	err = s.db.Save(&meeting).Error
	return &meeting, err
}

// Delete 删除会议（软删除），议程项随会议一并隐藏
func (s *MeetingService) Delete(id uint) error {
	var meeting models.Meeting
	err := s.db.First(&meeting, id).Error
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", id).Delete(&models.AgendaItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meeting).Error
	})
}

// Restore 恢复软删除的会议及其议程项
func (s *MeetingService) Restore(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Unscoped().First(&meeting, id).Error
	if err != nil {
		return nil, err
	}
	if !meeting.DeletedAt.Valid {
		return nil, fmt.Errorf("会议未被删除")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.AgendaItem{}).
			Where("meeting_id = ?", id).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Model(&meeting).Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}

	meeting.DeletedAt = gorm.DeletedAt{}
	return &meeting, nil
}

// ForceDelete 彻底删除会议及其全部下属数据
func (s *MeetingService) ForceDelete(id uint) error {
	var meeting models.Meeting
	err := s.db.Unscoped().First(&meeting, id).Error
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Unscoped().Model(&models.AgendaItem{}).
			Where("meeting_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Unscoped().Where("agenda_item_id IN ?", itemIDs).Delete(&models.Minute{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("meeting_id = ?", id).Delete(&models.AgendaItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&meeting).Error
	})
}

// GetDeleted 分页获取回收站中的会议
func (s *MeetingService) GetDeleted(typeIDs []uint, restrict bool, page, pageSize int) ([]*models.Meeting, int64, error) {
	var meetings []*models.Meeting
	var total int64

	query := s.db.Unscoped().Model(&models.Meeting{}).Where("deleted_at IS NOT NULL")
	if restrict {
		if len(typeIDs) == 0 {
			return []*models.Meeting{}, 0, nil
		}
		query = query.Where("meeting_type_id IN ?", typeIDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("MeetingType").
		Order("deleted_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&meetings).Error
	if err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

// ========== 状态流转方法 ==========

// Finalize 定稿会议：draft -> finalized
func (s *MeetingService) Finalize(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.First(&meeting, id).Error
	if err != nil {
		return nil, err
	}

	if meeting.Status != models.MeetingStatusDraft {
		return nil, fmt.Errorf("只有草稿状态的会议可以定稿")
	}

	now := time.Now()
	meeting.Status = models.MeetingStatusFinalized
	meeting.FinalizedAt = &now

	err = s.db.Save(&meeting).Error
	return &meeting, err
}

// Publish 发布会议：finalized -> published
// 通知投递由调用方（handler）在发布成功后触发
func (s *MeetingService) Publish(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	err := s.db.Preload("MeetingType").First(&meeting, id).Error
	if err != nil {
		return nil, err
	}

	if meeting.Status != models.MeetingStatusFinalized {
		return nil, fmt.Errorf("只有定稿状态的会议可以发布")
	}

	now := time.Now()
	meeting.Status = models.MeetingStatusPublished
	meeting.PublishedAt = &now

	err = s.db.Save(&meeting).Error
	return &meeting, err
}

// ========== 统计方法 ==========

// GetStats 获取会议统计信息
func (s *MeetingService) GetStats(typeIDs []uint, restrict bool) (map[string]int64, error) {
	stats := make(map[string]int64)

	base := func() *gorm.DB {
		query := s.db.Model(&models.Meeting{})
		if restrict {
			if len(typeIDs) == 0 {
				query = query.Where("1 = 0")
			} else {
				query = query.Where("meeting_type_id IN ?", typeIDs)
			}
		}
		return query
	}

	var total, draft, finalized, published int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	base().Where("status = ?", models.MeetingStatusDraft).Count(&draft)
	base().Where("status = ?", models.MeetingStatusFinalized).Count(&finalized)
	base().Where("status = ?", models.MeetingStatusPublished).Count(&published)

	stats["total"] = total
	stats["draft"] = draft
	stats["finalized"] = finalized
	stats["published"] = published
	return stats, nil
}

// UpcomingWithin 获取指定时间窗口内计划开始的已发布会议（提醒调度用）
func (s *MeetingService) UpcomingWithin(from, to time.Time) ([]*models.Meeting, error) {
	var meetings []*models.Meeting
	err := s.db.Where("status = ?", models.MeetingStatusPublished).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Preload("MeetingType").
		Find(&meetings).Error
	return meetings, err
}

// ========== 验证方法 ==========

// ValidateTitle 验证会议标题
func (s *MeetingService) ValidateTitle(title string) bool {
	runeCount := utf8.RuneCountInString(title)
	return runeCount >= 2 && runeCount <= 255
}
