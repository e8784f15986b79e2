package services

import (
	"fmt"
	"unicode/utf8"

	"meetgov/internal/models"
	"meetgov/internal/policy"

	"gorm.io/gorm"
)

// AgendaItemService 议程项服务
// 议程项自身不持有上下文授权，鉴权经所属会议委托
type AgendaItemService struct {
	db *gorm.DB
}

func NewAgendaItemService(db *gorm.DB) *AgendaItemService {
	return &AgendaItemService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建议程项
// 已发布的会议不允许新增议程项
func (s *AgendaItemService) Create(meetingID uint, typeID, presenterID *uint, title, description string, sortOrder int) (*models.AgendaItem, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("议题长度必须在2-255个字符之间")
	}

	var meeting models.Meeting
	err := s.db.First(&meeting, meetingID).Error
	if err != nil {
		return nil, err
	}
	if meeting.Status == models.MeetingStatusPublished {
		return nil, fmt.Errorf("已发布的会议不允许新增议程项")
	}

	item := &models.AgendaItem{
		MeetingID:        meetingID,
		AgendaItemTypeID: typeID,
		Title:            title,
		Description:      description,
		SortOrder:        sortOrder,
		PresenterID:      presenterID,
	}

	err = s.db.Create(item).Error
	return item, err
}

// GetByID 根据ID获取议程项
func (s *AgendaItemService) GetByID(id uint) (*models.AgendaItem, error) {
	var item models.AgendaItem
	err := s.db.Preload("AgendaItemType").Preload("Presenter").
		Preload("Minutes").First(&item, id).Error
	return &item, err
}

// GetByMeeting 获取某会议的全部议程项（按排序号）
func (s *AgendaItemService) GetByMeeting(meetingID uint) ([]*models.AgendaItem, error) {
	var items []*models.AgendaItem
	err := s.db.Where("meeting_id = ?", meetingID).
		Preload("AgendaItemType").Preload("Presenter").
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	return items, err
}

// Update 更新议程项
func (s *AgendaItemService) Update(id uint, typeID, presenterID *uint, title, description string, sortOrder int) (*models.AgendaItem, error) {
	if !s.ValidateTitle(title) {
		return nil, fmt.Errorf("议题长度必须在2-255个字符之间")
	}

	var item models.AgendaItem
	err := s.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}

	item.AgendaItemTypeID = typeID
	item.Title = title
	item.Description = description
	item.SortOrder = sortOrder
	item.PresenterID = presenterID

	err = s.db.Save(&item).Error
	return &item, err
}

// Reorder 批量调整排序号
func (s *AgendaItemService) Reorder(meetingID uint, orderedIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, itemID := range orderedIDs {
			result := tx.Model(&models.AgendaItem{}).
				Where("id = ? AND meeting_id = ?", itemID, meetingID).
				Update("sort_order", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("议程项 %d 不属于该会议", itemID)
			}
		}
		return nil
	})
}

// Delete 删除议程项（软删除）
func (s *AgendaItemService) Delete(id uint) error {
	var item models.AgendaItem
	err := s.db.First(&item, id).Error
	if err != nil {
		return err
	}
	return s.db.Delete(&item).Error
}

// Restore 恢复软删除的议程项
func (s *AgendaItemService) Restore(id uint) (*models.AgendaItem, error) {
	var item models.AgendaItem
	err := s.db.Unscoped().First(&item, id).Error
	if err != nil {
		return nil, err
	}
	if !item.DeletedAt.Valid {
		return nil, fmt.Errorf("议程项未被删除")
	}

	err = s.db.Unscoped().Model(&item).Update("deleted_at", nil).Error
	if err != nil {
		return nil, err
	}
	item.DeletedAt = gorm.DeletedAt{}
	return &item, nil
}

// ForceDelete 彻底删除议程项及其纪要
func (s *AgendaItemService) ForceDelete(id uint) error {
	var item models.AgendaItem
	err := s.db.Unscoped().First(&item, id).Error
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("agenda_item_id = ?", id).Delete(&models.Minute{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&item).Error
	})
}

// OwningMeeting 解析议程项的所属会议（委托鉴权的锚点）
// 包含软删除的议程项，回收站操作也要能定位所属会议
func (s *AgendaItemService) OwningMeeting(id uint) (*policy.MeetingRef, error) {
	var item models.AgendaItem
	err := s.db.Unscoped().Select("id", "meeting_id").First(&item, id).Error
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

// ValidateTitle 验证议题
func (s *AgendaItemService) ValidateTitle(title string) bool {
	runeCount := utf8.RuneCountInString(title)
	return runeCount >= 2 && runeCount <= 255
}

// ========== 议程项类型 ==========

// AgendaItemTypeService 议程项类型服务（扁平权限实体）
type AgendaItemTypeService struct {
	db *gorm.DB
}

func NewAgendaItemTypeService(db *gorm.DB) *AgendaItemTypeService {
	return &AgendaItemTypeService{db: db}
}

// Create 创建议程项类型
func (s *AgendaItemTypeService) Create(code, name, description string) (*models.AgendaItemType, error) {
	var count int64
	s.db.Model(&models.AgendaItemType{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("议程项类型代码已存在")
	}

	itemType := &models.AgendaItemType{
		Code:        code,
		Name:        name,
		Description: description,
	}
	err := s.db.Create(itemType).Error
	return itemType, err
}

// GetByID 根据ID获取议程项类型
func (s *AgendaItemTypeService) GetByID(id uint) (*models.AgendaItemType, error) {
	var itemType models.AgendaItemType
	err := s.db.First(&itemType, id).Error
	return &itemType, err
}

// GetAll 获取全部议程项类型
func (s *AgendaItemTypeService) GetAll() ([]*models.AgendaItemType, error) {
	var types []*models.AgendaItemType
	err := s.db.Order("code").Find(&types).Error
	return types, err
}

// Update 更新议程项类型
func (s *AgendaItemTypeService) Update(id uint, name, description string) (*models.AgendaItemType, error) {
	var itemType models.AgendaItemType
	err := s.db.First(&itemType, id).Error
	if err != nil {
		return nil, err
	}

	itemType.Name = name
	itemType.Description = description
	err = s.db.Save(&itemType).Error
	return &itemType, err
}

// Delete 删除议程项类型，仍被议程项引用时拒绝
func (s *AgendaItemTypeService) Delete(id uint) error {
	var count int64
	s.db.Model(&models.AgendaItem{}).Where("agenda_item_type_id = ?", id).Count(&count)
	if count > 0 {
		return fmt.Errorf("该类型仍被议程项引用，不能删除")
	}
	return s.db.Delete(&models.AgendaItemType{}, id).Error
}
