package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	meetingID := uint(5)
	msg := NewMessage(42, "meeting_reminder", "会议提醒", "学术委员会会议将于明天召开", &meetingID)

	assert.NotEmpty(t, msg.MessageID)
	assert.Equal(t, uint(42), msg.UserID)
	assert.Equal(t, "meeting_reminder", msg.Kind)
	assert.Equal(t, "会议提醒", msg.Title)
	assert.NotNil(t, msg.MeetingID)
	assert.Equal(t, uint(5), *msg.MeetingID)
	assert.NotZero(t, msg.Created)

	// 每条消息分配独立的消息ID
	other := NewMessage(42, "meeting_reminder", "会议提醒", "内容", nil)
	assert.NotEqual(t, msg.MessageID, other.MessageID)
	assert.Nil(t, other.MeetingID)
}

func TestMessageRoundTrip(t *testing.T) {
	msg := NewMessage(7, "meeting_published", "会议已发布", "会议纪要已发布", nil)

	data, err := json.Marshal(msg)
	assert.NoError(t, err)

	var decoded NotificationMessage
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg.MessageID, decoded.MessageID)
	assert.Equal(t, msg.UserID, decoded.UserID)
	assert.Equal(t, msg.Kind, decoded.Kind)
	assert.Nil(t, decoded.MeetingID)
}

func TestQueueKeys(t *testing.T) {
	q := &NotificationQueue{prefix: "meetgov:notify"}

	assert.Equal(t, "meetgov:notify:pending", q.pendingKey())
	assert.Equal(t, "meetgov:notify:msg:abc", q.messageKey("abc"))
	assert.Equal(t, "meetgov:notify:user:42", q.userChannel(42))
}
