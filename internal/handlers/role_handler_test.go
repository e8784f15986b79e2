package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"meetgov/internal/models"
	"meetgov/internal/policy"
	"meetgov/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ========== 测试基础设施 ==========

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestDB(t *testing.T) *gorm.DB {
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

func newRoleHandlerTest(t *testing.T) (*RoleHandler, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	cache := services.NewPermissionCache()
	userService := services.NewUserService(db, cache)
	roleService := services.NewRoleService(db, cache)
	typeService := services.NewMeetingTypeService(db)
	evaluator := policy.New(userService, typeService)

	return NewRoleHandler(roleService, evaluator), db
}

func seedRole(t *testing.T, db *gorm.DB, code, name string, reserved bool, permCodes ...string) *models.Role {
	role := &models.Role{
		Code:       code,
		Name:       name,
		IsReserved: reserved,
		Status:     models.RoleStatusActive,
	}
	assert.NoError(t, db.Create(role).Error)

	for _, permCode := range permCodes {
		perm := &models.Permission{Code: permCode, Name: permCode, Module: "roles", Action: "test"}
		assert.NoError(t, db.Create(perm).Error)
		assert.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	}
	return role
}

func seedUser(t *testing.T, db *gorm.DB, username string, roles ...*models.Role) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@meetgov.local",
		Name:     username,
		Status:   models.UserStatusActive,
	}
	assert.NoError(t, user.SetPassword("Test@123"))
	assert.NoError(t, db.Create(user).Error)

	for _, role := range roles {
		assert.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	}
	return user
}

func doRoleUpdate(handler *RoleHandler, userID, roleID uint, body string) *envelope {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PUT", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(roleID), 10)}}
	c.Set("user_id", userID)

	handler.Update(c)

	var resp envelope
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return &resp
}

func doRoleDelete(handler *RoleHandler, userID, roleID uint) *envelope {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(roleID), 10)}}
	c.Set("user_id", userID)

	handler.Delete(c)

	var resp envelope
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return &resp
}

// ========== 保留角色守卫 ==========

// 超级管理员短路覆盖保留角色守卫：改名保留角色端到端放行
func TestUpdateReservedRoleBySuperAdmin(t *testing.T) {
	handler, db := newRoleHandlerTest(t)

	reserved := seedRole(t, db, models.RoleSuperAdmin, "超级管理员", true)
	admin := seedUser(t, db, "admin", reserved)

	resp := doRoleUpdate(handler, admin.ID, reserved.ID, `{"name":"系统超级管理员","status":"active"}`)
	assert.Equal(t, 200, resp.Code)

	var updated models.Role
	assert.NoError(t, db.First(&updated, reserved.ID).Error)
	assert.Equal(t, "系统超级管理员", updated.Name)
}

// 持有全部角色全局权限的普通用户：保留角色的改名/删除仍被拒绝
func TestUpdateReservedRoleDeniedForNonSuperAdmin(t *testing.T) {
	handler, db := newRoleHandlerTest(t)

	reserved := seedRole(t, db, models.RoleSuperAdmin, "超级管理员", true)
	manager := seedRole(t, db, "role_manager", "角色管理员", false,
		"edit roles", "delete roles")
	user := seedUser(t, db, "manager", manager)

	resp := doRoleUpdate(handler, user.ID, reserved.ID, `{"name":"篡改名称","status":"active"}`)
	assert.Equal(t, 403, resp.Code)
	assert.Equal(t, "保留角色不允许修改", resp.Message)

	var unchanged models.Role
	assert.NoError(t, db.First(&unchanged, reserved.ID).Error)
	assert.Equal(t, "超级管理员", unchanged.Name)

	resp = doRoleDelete(handler, user.ID, reserved.ID)
	assert.Equal(t, 403, resp.Code)
	assert.Equal(t, "保留角色不允许删除", resp.Message)

	var count int64
	db.Model(&models.Role{}).Where("id = ?", reserved.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// 普通角色不受守卫影响：持有edit roles即可改名
func TestUpdateNormalRoleWithGlobalPermission(t *testing.T) {
	handler, db := newRoleHandlerTest(t)

	manager := seedRole(t, db, "role_manager", "角色管理员", false, "edit roles")
	target := seedRole(t, db, "dean", "院长", false)
	user := seedUser(t, db, "manager", manager)

	resp := doRoleUpdate(handler, user.ID, target.ID, `{"name":"学院院长","status":"active"}`)
	assert.Equal(t, 200, resp.Code)

	var updated models.Role
	assert.NoError(t, db.First(&updated, target.ID).Error)
	assert.Equal(t, "学院院长", updated.Name)
}

// 无相应全局权限：普通角色的改名也被拒绝
func TestUpdateRoleDeniedWithoutPermission(t *testing.T) {
	handler, db := newRoleHandlerTest(t)

	viewer := seedRole(t, db, "viewer", "只读用户", false, "view roles")
	target := seedRole(t, db, "dean", "院长", false)
	user := seedUser(t, db, "viewer", viewer)

	resp := doRoleUpdate(handler, user.ID, target.ID, `{"name":"改不动的","status":"active"}`)
	assert.Equal(t, 403, resp.Code)
}
