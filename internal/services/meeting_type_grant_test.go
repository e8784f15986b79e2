package services

import (
	"testing"

	"meetgov/internal/models"
	"meetgov/internal/policy"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func seedGrantFixture(t *testing.T) (*MeetingTypeService, *models.MeetingType, *models.User) {
	db := newServiceTestDB(t)
	s := NewMeetingTypeService(db)

	meetingType := &models.MeetingType{Code: "party_committee", Name: "党委会"}
	assert.NoError(t, db.Create(meetingType).Error)

	user := &models.User{
		Username: "secretary",
		Email:    "secretary@meetgov.local",
		Name:     "会议秘书",
		Status:   models.UserStatusActive,
	}
	assert.NoError(t, user.SetPassword("Test@123"))
	assert.NoError(t, db.Create(user).Error)

	return s, meetingType, user
}

// 重复授权是覆盖式upsert：同一(类型,用户)对绝不产生第二条记录
func TestGrantUpsertOverwrites(t *testing.T) {
	s, mt, user := seedGrantFixture(t)

	first, err := s.Grant(mt.ID, user.ID, []string{"view", "edit"}, 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"view", "edit"}, first.PermissionList())

	// 再次授权：整套权限集被替换，记录数不变
	second, err := s.Grant(mt.ID, user.ID, []string{"publish"}, 1)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"publish"}, second.PermissionList())

	var count int64
	s.db.Model(&models.MeetingTypeGrant{}).
		Where("meeting_type_id = ? AND user_id = ?", mt.ID, user.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	ok, err := s.HasGrant(user.ID, mt.ID, policy.GrantPublish)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.HasGrant(user.ID, mt.ID, policy.GrantView)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantRejectsInvalidInput(t *testing.T) {
	s, mt, user := seedGrantFixture(t)

	_, err := s.Grant(mt.ID, user.ID, []string{"view", "approve"}, 1)
	assert.EqualError(t, err, "未知的上下文权限: approve")

	_, err = s.Grant(mt.ID, user.ID, []string{}, 1)
	assert.EqualError(t, err, "权限集不能为空")

	_, err = s.Grant(mt.ID+100, user.ID, []string{"view"}, 1)
	assert.EqualError(t, err, "会议类型不存在")

	_, err = s.Grant(mt.ID, user.ID+100, []string{"view"}, 1)
	assert.EqualError(t, err, "用户不存在")
}

func TestRevokeGrant(t *testing.T) {
	s, mt, user := seedGrantFixture(t)

	_, err := s.Grant(mt.ID, user.ID, []string{"view"}, 1)
	assert.NoError(t, err)

	assert.NoError(t, s.Revoke(mt.ID, user.ID))
	assert.EqualError(t, s.Revoke(mt.ID, user.ID), "授权记录不存在")

	ok, err := s.HasGrant(user.ID, mt.ID, policy.GrantView)
	assert.NoError(t, err)
	assert.False(t, ok)
}

// 存量脏数据：读取路径忽略词汇表之外的值，不报错
func TestHasGrantIgnoresUnknownStoredValues(t *testing.T) {
	s, mt, user := seedGrantFixture(t)

	dirty := &models.MeetingTypeGrant{
		MeetingTypeID: mt.ID,
		UserID:        user.ID,
		Permissions:   datatypes.JSON(`["view","approve"]`),
		CreatedBy:     1,
	}
	assert.NoError(t, s.db.Create(dirty).Error)

	ok, err := s.HasGrant(user.ID, mt.ID, policy.GrantView)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasGrant(user.ID, mt.ID, policy.GrantEdit)
	assert.NoError(t, err)
	assert.False(t, ok)
}
