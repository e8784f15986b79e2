package services

import (
	"time"

	"meetgov/internal/models"
	"meetgov/pkg/logger"
	"meetgov/pkg/queue"

	"gorm.io/gorm"
)

// NotificationService 通知服务
// 通知先落库，再经Redis队列异步投递；队列不可用时只记日志，不影响主流程
type NotificationService struct {
	db    *gorm.DB
	queue *queue.NotificationQueue
}

func NewNotificationService(db *gorm.DB, q *queue.NotificationQueue) *NotificationService {
	return &NotificationService{
		db:    db,
		queue: q,
	}
}

// Notify 创建通知并入队投递
func (s *NotificationService) Notify(userID uint, kind, title, content string, meetingID *uint) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		MeetingID: meetingID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return nil, err
	}

	if s.queue != nil {
		message := queue.NewMessage(userID, kind, title, content, meetingID)
		if err := s.queue.Enqueue(message); err != nil {
			logger.GetLogger().WithError(err).Warn("通知入队失败，仅保留库内记录")
		}
		if err := s.queue.PublishToUser(message); err != nil {
			logger.GetLogger().WithError(err).Debug("通知实时推送失败")
		}
	}

	return notification, nil
}

// NotifyMany 向多个用户投递同一通知
func (s *NotificationService) NotifyMany(userIDs []uint, kind, title, content string, meetingID *uint) error {
	for _, userID := range userIDs {
		if _, err := s.Notify(userID, kind, title, content, meetingID); err != nil {
			return err
		}
	}
	return nil
}

// GetByUser 分页获取用户的通知
func (s *NotificationService) GetByUser(userID uint, unreadOnly bool, page, pageSize int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount 用户未读通知数
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead 标记单条通知已读（只能操作自己的通知）
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead 标记用户全部通知已读
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now)
	return result.RowsAffected, result.Error
}

// Delete 删除通知（只能操作自己的通知）
func (s *NotificationService) Delete(userID, notificationID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasReminderFor 用户是否已收到某会议的提醒（调度去重用）
func (s *NotificationService) HasReminderFor(userID, meetingID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND meeting_id = ? AND kind = ?",
			userID, meetingID, models.NotificationKindMeetingReminder).
		Count(&count).Error
	return count > 0, err
}
