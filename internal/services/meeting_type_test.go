package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGrantPermissions(t *testing.T) {
	// 去重并按词汇表顺序排序
	perms, err := NormalizeGrantPermissions([]string{"edit", "view", "edit", "publish"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"view", "edit", "publish"}, perms)
}

func TestNormalizeGrantPermissionsRejectsUnknown(t *testing.T) {
	// 写入路径拒绝词汇表之外的值，而不是静默忽略
	_, err := NormalizeGrantPermissions([]string{"view", "approve"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "approve")
}

func TestNormalizeGrantPermissionsEmpty(t *testing.T) {
	perms, err := NormalizeGrantPermissions(nil)
	assert.NoError(t, err)
	assert.Empty(t, perms)
}

func TestNormalizeGrantPermissionsFullSet(t *testing.T) {
	perms, err := NormalizeGrantPermissions([]string{"publish", "delete", "edit", "create", "view"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"view", "create", "edit", "delete", "publish"}, perms)
}
