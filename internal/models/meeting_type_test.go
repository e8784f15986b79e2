package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestGrantPermissionList(t *testing.T) {
	grant := &MeetingTypeGrant{
		Permissions: datatypes.JSON(`["view","edit"]`),
	}
	assert.Equal(t, []string{"view", "edit"}, grant.PermissionList())

	set := grant.PermissionSet()
	assert.True(t, set["view"])
	assert.True(t, set["edit"])
	assert.False(t, set["publish"])
}

func TestGrantPermissionListEmpty(t *testing.T) {
	grant := &MeetingTypeGrant{}
	assert.Nil(t, grant.PermissionList())
	assert.Empty(t, grant.PermissionSet())
}

func TestGrantPermissionListMalformed(t *testing.T) {
	// 脏数据解析失败按空集处理，不放行
	grant := &MeetingTypeGrant{
		Permissions: datatypes.JSON(`{"view": true}`),
	}
	assert.Nil(t, grant.PermissionList())
	assert.Empty(t, grant.PermissionSet())
}
