package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// NotificationQueue 基于Redis的通知队列
type NotificationQueue struct {
	client *redis.Client
	prefix string
}

// NotificationMessage 队列中的通知消息
type NotificationMessage struct {
	MessageID string `json:"message_id"`
	UserID    uint   `json:"user_id"`    // 接收人
	Kind      string `json:"kind"`       // 通知类型：meeting_reminder, meeting_published, system
	Title     string `json:"title"`      // 标题
	Content   string `json:"content"`    // 内容
	MeetingID *uint  `json:"meeting_id"` // 关联会议（可选）
	Created   int64  `json:"created"`
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewNotificationQueue 创建通知队列实例
func NewNotificationQueue(config *Config) *NotificationQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "meetgov:notify"
	}

	return &NotificationQueue{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (q *NotificationQueue) Close() error {
	return q.client.Close()
}

// Ping 测试Redis连接
func (q *NotificationQueue) Ping() error {
	ctx := context.Background()
	return q.client.Ping(ctx).Err()
}

// NewMessage 构造通知消息并分配消息ID
func NewMessage(userID uint, kind, title, content string, meetingID *uint) *NotificationMessage {
	return &NotificationMessage{
		MessageID: uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		MeetingID: meetingID,
		Created:   time.Now().Unix(),
	}
}

// Enqueue 将通知消息加入待投递队列
func (q *NotificationQueue) Enqueue(message *NotificationMessage) error {
	ctx := context.Background()

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %v", err)
	}

	// 左侧入队
	if err := q.client.LPush(ctx, q.pendingKey(), data).Err(); err != nil {
		return fmt.Errorf("通知入队失败: %v", err)
	}

	// 记录消息状态（用于排障查询）
	msgKey := q.messageKey(message.MessageID)
	msgInfo := map[string]interface{}{
		"message_id": message.MessageID,
		"user_id":    message.UserID,
		"kind":       message.Kind,
		"status":     "queued",
		"queued_at":  time.Now().Unix(),
	}
	if err := q.client.HSet(ctx, msgKey, msgInfo).Err(); err != nil {
		return fmt.Errorf("记录通知状态失败: %v", err)
	}
	q.client.Expire(ctx, msgKey, 24*time.Hour)

	return nil
}

// DequeueBlocking 阻塞式出队，timeout为0表示一直等待
func (q *NotificationQueue) DequeueBlocking(ctx context.Context, timeout time.Duration) (*NotificationMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.pendingKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	// BRPop返回 [key, value]
	if len(result) < 2 {
		return nil, fmt.Errorf("通知出队返回格式异常")
	}

	var message NotificationMessage
	if err := json.Unmarshal([]byte(result[1]), &message); err != nil {
		return nil, fmt.Errorf("反序列化通知消息失败: %v", err)
	}

	return &message, nil
}

// PublishToUser 向用户专属频道发布消息（WebSocket实时推送用）
func (q *NotificationQueue) PublishToUser(message *NotificationMessage) error {
	ctx := context.Background()

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("序列化通知消息失败: %v", err)
	}

	return q.client.Publish(ctx, q.userChannel(message.UserID), data).Err()
}

// SubscribeUser 订阅用户专属频道
func (q *NotificationQueue) SubscribeUser(ctx context.Context, userID uint) *redis.PubSub {
	return q.client.Subscribe(ctx, q.userChannel(userID))
}

// MarkDelivered 标记消息已投递
func (q *NotificationQueue) MarkDelivered(messageID string) error {
	ctx := context.Background()
	return q.client.HSet(ctx, q.messageKey(messageID), "status", "delivered").Err()
}

// ========== 键名辅助方法 ==========

func (q *NotificationQueue) pendingKey() string {
	return q.prefix + ":pending"
}

func (q *NotificationQueue) messageKey(messageID string) string {
	return fmt.Sprintf("%s:msg:%s", q.prefix, messageID)
}

func (q *NotificationQueue) userChannel(userID uint) string {
	return fmt.Sprintf("%s:user:%d", q.prefix, userID)
}
