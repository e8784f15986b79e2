package services

import (
	"fmt"

	"meetgov/internal/models"
	"meetgov/internal/policy"

	"gorm.io/gorm"
)

// MinuteService 会议纪要服务
// 纪要经议程项间接归属会议，鉴权沿该链条委托
type MinuteService struct {
	db *gorm.DB
}

func NewMinuteService(db *gorm.DB) *MinuteService {
	return &MinuteService{db: db}
}

// Create 创建纪要
func (s *MinuteService) Create(agendaItemID uint, content, decision string, recordedBy uint) (*models.Minute, error) {
	if content == "" {
		return nil, fmt.Errorf("纪要正文不能为空")
	}

	var itemCount int64
	s.db.Model(&models.AgendaItem{}).Where("id = ?", agendaItemID).Count(&itemCount)
	if itemCount == 0 {
		return nil, fmt.Errorf("议程项不存在")
	}

	minute := &models.Minute{
		AgendaItemID: agendaItemID,
		Content:      content,
		Decision:     decision,
		RecordedBy:   recordedBy,
	}

	err := s.db.Create(minute).Error
	return minute, err
}

// GetByID 根据ID获取纪要
func (s *MinuteService) GetByID(id uint) (*models.Minute, error) {
	var minute models.Minute
	err := s.db.Preload("AgendaItem").First(&minute, id).Error
	return &minute, err
}

// GetByAgendaItem 获取某议程项下的全部纪要
func (s *MinuteService) GetByAgendaItem(agendaItemID uint) ([]*models.Minute, error) {
	var minutes []*models.Minute
	err := s.db.Where("agenda_item_id = ?", agendaItemID).
		Order("id ASC").
		Find(&minutes).Error
	return minutes, err
}

// GetByMeeting 获取某会议下的全部纪要（沿议程项连接）
func (s *MinuteService) GetByMeeting(meetingID uint) ([]*models.Minute, error) {
	var minutes []*models.Minute
	err := s.db.Joins("JOIN agenda_items ON agenda_items.id = minutes.agenda_item_id").
		Where("agenda_items.meeting_id = ? AND agenda_items.deleted_at IS NULL", meetingID).
		Preload("AgendaItem").
		Order("agenda_items.sort_order ASC, minutes.id ASC").
		Find(&minutes).Error
	return minutes, err
}

// Update 更新纪要
func (s *MinuteService) Update(id uint, content, decision string) (*models.Minute, error) {
	if content == "" {
		return nil, fmt.Errorf("纪要正文不能为空")
	}

	var minute models.Minute
	err := s.db.First(&minute, id).Error
	if err != nil {
		return nil, err
	}

	minute.Content = content
	minute.Decision = decision

	err = s.db.Save(&minute).Error
	return &minute, err
}

// Delete 删除纪要（软删除）
func (s *MinuteService) Delete(id uint) error {
	var minute models.Minute
	err := s.db.First(&minute, id).Error
	if err != nil {
		return err
	}
	return s.db.Delete(&minute).Error
}

// Restore 恢复软删除的纪要
func (s *MinuteService) Restore(id uint) (*models.Minute, error) {
	var minute models.Minute
	err := s.db.Unscoped().First(&minute, id).Error
	if err != nil {
		return nil, err
	}
	if !minute.DeletedAt.Valid {
		return nil, fmt.Errorf("纪要未被删除")
	}

	err = s.db.Unscoped().Model(&minute).Update("deleted_at", nil).Error
	if err != nil {
		return nil, err
	}
	minute.DeletedAt = gorm.DeletedAt{}
	return &minute, nil
}

// ForceDelete 彻底删除纪要
func (s *MinuteService) ForceDelete(id uint) error {
	var minute models.Minute
	err := s.db.Unscoped().First(&minute, id).Error
	if err != nil {
		return err
	}
	return s.db.Unscoped().Delete(&minute).Error
}

// OwningMeeting 解析纪要的所属会议：纪要 -> 议程项 -> 会议
func (s *MinuteService) OwningMeeting(id uint) (*policy.MeetingRef, error) {
	var minute models.Minute
	err := s.db.Unscoped().Select("id", "agenda_item_id").First(&minute, id).Error
	if err != nil {
		return nil, err
	}

	var item models.AgendaItem
	err = s.db.Unscoped().Select("id", "meeting_id").First(&item, minute.AgendaItemID).Error
	if err != nil {
		return nil, err
	}

	var meeting models.Meeting
	err = s.db.Unscoped().Select("id", "meeting_type_id").First(&meeting, item.MeetingID).Error
	if err != nil {
		return nil, err
	}

	return &policy.MeetingRef{ID: meeting.ID, MeetingTypeID: meeting.MeetingTypeID}, nil
}
