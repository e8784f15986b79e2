package services

import (
	"fmt"
	"testing"

	"meetgov/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{}, &models.Permission{}, &models.Role{},
		&models.RolePermission{}, &models.UserRole{}, &models.UserPermission{},
		&models.MeetingType{}, &models.MeetingTypeGrant{},
	)
	assert.NoError(t, err)
	return db
}

func seedUserWithPermission(t *testing.T, db *gorm.DB, permCode string) *models.User {
	perm := &models.Permission{Code: permCode, Name: permCode, Module: "meetings", Action: "view"}
	assert.NoError(t, db.Create(perm).Error)

	role := &models.Role{Code: "dean", Name: "院长", Status: models.RoleStatusActive}
	assert.NoError(t, db.Create(role).Error)
	assert.NoError(t, db.Model(role).Association("Permissions").Append(perm))

	user := &models.User{
		Username: "dean01",
		Email:    "dean01@meetgov.local",
		Name:     "测试院长",
		Status:   models.UserStatusActive,
	}
	assert.NoError(t, user.SetPassword("Test@123"))
	assert.NoError(t, db.Create(user).Error)
	assert.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	return user
}

// 用户状态不参与有效权限解析：停用/锁定后权限集不变，拦截在登录中间件
func TestUserStatusDoesNotAffectEffectivePermissions(t *testing.T) {
	db := newServiceTestDB(t)
	s := NewUserService(db, NewPermissionCache())

	user := seedUserWithPermission(t, db, "view meetings")

	ok, err := s.HasPermission(user.ID, "view meetings")
	assert.NoError(t, err)
	assert.True(t, ok)

	// 快捷停用
	deactivated, err := s.Deactivate(user.ID)
	assert.NoError(t, err)
	assert.False(t, s.IsActive(deactivated))

	ok, err = s.HasPermission(user.ID, "view meetings")
	assert.NoError(t, err)
	assert.True(t, ok)

	// 常规编辑流改状态，结果一致
	updated, err := s.Update(user.ID, user.Name, user.Email, nil, models.UserStatusLocked)
	assert.NoError(t, err)
	assert.False(t, s.IsActive(updated))

	ok, err = s.HasPermission(user.ID, "view meetings")
	assert.NoError(t, err)
	assert.True(t, ok)
}

// 角色分配变更同步失效缓存：新权限立即可见
func TestAssignRolesInvalidatesCache(t *testing.T) {
	db := newServiceTestDB(t)
	s := NewUserService(db, NewPermissionCache())

	user := seedUserWithPermission(t, db, "view meetings")

	// 预热缓存
	ok, err := s.HasPermission(user.ID, "edit meetings")
	assert.NoError(t, err)
	assert.False(t, ok)

	perm := &models.Permission{Code: "edit meetings", Name: "edit meetings", Module: "meetings", Action: "edit"}
	assert.NoError(t, db.Create(perm).Error)
	editor := &models.Role{Code: "editor", Name: "编辑员", Status: models.RoleStatusActive}
	assert.NoError(t, db.Create(editor).Error)
	assert.NoError(t, db.Model(editor).Association("Permissions").Append(perm))

	var roles []models.Role
	assert.NoError(t, db.Find(&roles).Error)
	roleIDs := make([]uint, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}
	assert.NoError(t, s.AssignRoles(user.ID, roleIDs))

	ok, err = s.HasPermission(user.ID, "edit meetings")
	assert.NoError(t, err)
	assert.True(t, ok)
}
