package services

import (
	"fmt"
	"sync"
	"time"

	"meetgov/internal/models"
	"meetgov/internal/policy"
	"meetgov/pkg/config"
	"meetgov/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler 会议提醒调度器
// 按配置的cron表达式周期扫描：即将开始的已发布会议，向持有该类型
// 查看授权的用户投递提醒，同一(用户,会议)只提醒一次
type ReminderScheduler struct {
	cron         *cron.Cron
	meetings     *MeetingService
	meetingTypes *MeetingTypeService
	notifier     *NotificationService

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

func NewReminderScheduler(meetings *MeetingService, meetingTypes *MeetingTypeService, notifier *NotificationService) *ReminderScheduler {
	return &ReminderScheduler{
		cron:         cron.New(),
		meetings:     meetings,
		meetingTypes: meetingTypes,
		notifier:     notifier,
	}
}

// Start 启动调度器
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("提醒调度器已在运行")
	}

	cfg := config.GetConfig()
	entryID, err := s.cron.AddFunc(cfg.Reminder.CronSpec, s.runOnce)
	if err != nil {
		return fmt.Errorf("注册提醒任务失败: %v", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.running = true

	logger.GetLogger().WithField("cron", cfg.Reminder.CronSpec).Info("会议提醒调度器已启动")
	return nil
}

// Stop 停止调度器，等待在途任务完成
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	logger.GetLogger().Info("会议提醒调度器已停止")
}

// runOnce 执行一轮提醒扫描
func (s *ReminderScheduler) runOnce() {
	log := logger.GetLogger()
	cfg := config.GetConfig()

	now := time.Now()
	deadline := now.Add(time.Duration(cfg.Reminder.LeadHours) * time.Hour)

	meetings, err := s.meetings.UpcomingWithin(now, deadline)
	if err != nil {
		log.WithError(err).Error("扫描待提醒会议失败")
		return
	}

	var sent int
	for _, meeting := range meetings {
		count, err := s.remindFor(meeting)
		if err != nil {
			log.WithError(err).WithField("meeting_id", meeting.ID).Error("投递会议提醒失败")
			continue
		}
		sent += count
	}

	if sent > 0 {
		log.WithFields(map[string]interface{}{
			"meetings": len(meetings),
			"sent":     sent,
		}).Info("会议提醒扫描完成")
	}
}

// remindFor 向某会议的可见用户投递提醒
func (s *ReminderScheduler) remindFor(meeting *models.Meeting) (int, error) {
	userIDs, err := s.meetingTypes.UserIDsWithGrant(meeting.MeetingTypeID, policy.GrantView)
	if err != nil {
		return 0, err
	}

	var sent int
	for _, userID := range userIDs {
		already, err := s.notifier.HasReminderFor(userID, meeting.ID)
		if err != nil {
			return sent, err
		}
		if already {
			continue
		}

		title := fmt.Sprintf("会议提醒：%s", meeting.Title)
		content := fmt.Sprintf("会议「%s」计划于 %s 开始",
			meeting.Title, meeting.ScheduledAt.Format("2006-01-02 15:04"))
		meetingID := meeting.ID
		if _, err := s.notifier.Notify(userID, models.NotificationKindMeetingReminder, title, content, &meetingID); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}
