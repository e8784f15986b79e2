package main

import (
	"fmt"
	"strings"

	"meetgov/internal/database"
	"meetgov/internal/models"
	"meetgov/internal/policy"
	"meetgov/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 初始化权限词汇表
	if err := initializePermissions(db); err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 2. 创建保留的超级管理员角色
	if err := createSuperAdminRole(db); err != nil {
		return fmt.Errorf("创建超级管理员角色失败: %v", err)
	}

	// 3. 创建预置业务角色
	if err := createStandardRoles(db); err != nil {
		return fmt.Errorf("创建预置角色失败: %v", err)
	}

	// 4. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	// 5. 初始化默认设置
	if err := initializeSettings(db); err != nil {
		return fmt.Errorf("初始化默认设置失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// verbLabels 动词的展示名
var verbLabels = map[policy.Verb]string{
	policy.VerbView:        "查看",
	policy.VerbCreate:      "创建",
	policy.VerbEdit:        "编辑",
	policy.VerbDelete:      "删除",
	policy.VerbRestore:     "恢复",
	policy.VerbForceDelete: "彻底删除",
	policy.VerbExport:      "导出",
	policy.VerbImport:      "导入",
}

// nounLabels 名词的展示名
var nounLabels = map[policy.Noun]string{
	policy.NounMeetings:           "会议",
	policy.NounMeetingTypes:       "会议类型",
	policy.NounAgendaItems:        "议程项",
	policy.NounAgendaItemTypes:    "议程项类型",
	policy.NounMinutes:            "纪要",
	policy.NounAnnouncements:      "公告",
	policy.NounEmploymentStatuses: "聘用状态",
	policy.NounHelpArticles:       "帮助文章",
	policy.NounHelpCategories:     "帮助分类",
	policy.NounKeywords:           "关键词",
	policy.NounNotifications:      "通知",
	policy.NounParticipants:       "参会人员",
	policy.NounPositions:          "职位",
	policy.NounRoles:              "角色",
	policy.NounPermissions:        "权限",
	policy.NounSettings:           "系统设置",
	policy.NounUsers:              "用户",
}

// specialLabels 命名特殊权限的展示名
var specialLabels = map[string]string{
	policy.PermFinalizeMeetings:  "定稿会议",
	policy.PermPublishMeetings:   "发布会议",
	policy.PermDownloadMinutes:   "下载纪要",
	policy.PermViewMinutesPDF:    "在线查看纪要",
	policy.PermDownloadAgenda:    "下载议程",
	policy.PermViewAgendaPDF:     "在线查看议程",
	policy.PermAssignRoles:       "分配角色",
	policy.PermBypassMaintenance: "豁免维护模式",
}

// initializePermissions 初始化权限：动词×名词 全网格 + 命名特殊权限
// 幂等：已存在的权限跳过
func initializePermissions(db *gorm.DB) error {
	var permissions []models.Permission

	for _, noun := range policy.Nouns {
		module := strings.ReplaceAll(string(noun), " ", "_")
		for _, verb := range policy.StandardVerbs {
			permissions = append(permissions, models.Permission{
				Code:        policy.Code(verb, noun),
				Name:        verbLabels[verb] + nounLabels[noun],
				Module:      module,
				Action:      string(verb),
				Description: verbLabels[verb] + nounLabels[noun],
			})
		}
	}

	for _, code := range policy.SpecialPermissions {
		permissions = append(permissions, models.Permission{
			Code:        code,
			Name:        specialLabels[code],
			Module:      "special",
			Action:      code,
			Description: specialLabels[code],
		})
	}

	for _, permission := range permissions {
		var count int64
		db.Model(&models.Permission{}).Where("code = ?", permission.Code).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&permission).Error; err != nil {
			return err
		}
	}

	logger.GetLogger().Infof("权限词汇表初始化完成，共 %d 个权限", len(permissions))
	return nil
}

// createSuperAdminRole 创建保留的超级管理员角色
// 超级管理员在求值器中短路放行，角色本身不挂权限也不影响判定
func createSuperAdminRole(db *gorm.DB) error {
	var count int64
	db.Model(&models.Role{}).Where("code = ?", models.RoleSuperAdmin).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("超级管理员角色已存在，跳过创建")
		return nil
	}

	role := &models.Role{
		Code:        models.RoleSuperAdmin,
		Name:        "超级管理员",
		Description: "保留角色，绕过所有权限检查",
		IsReserved:  true,
		Status:      models.RoleStatusActive,
	}

	if err := db.Create(role).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("超级管理员角色创建成功")
	return nil
}

// standardRole 预置业务角色定义
type standardRole struct {
	code        string
	name        string
	description string
	perms       []string
}

// standardRoles 预置业务角色及其全局权限集
// 会议相关的实际能力还要叠加各会议类型的上下文授权
func standardRoles() []standardRole {
	viewAll := func() []string {
		var codes []string
		for _, noun := range policy.Nouns {
			codes = append(codes, policy.Code(policy.VerbView, noun))
		}
		return codes
	}

	crud := func(noun policy.Noun) []string {
		return []string{
			policy.Code(policy.VerbView, noun),
			policy.Code(policy.VerbCreate, noun),
			policy.Code(policy.VerbEdit, noun),
			policy.Code(policy.VerbDelete, noun),
		}
	}

	concat := func(groups ...[]string) []string {
		var result []string
		for _, group := range groups {
			result = append(result, group...)
		}
		return result
	}

	docPerms := []string{
		policy.PermDownloadMinutes, policy.PermViewMinutesPDF,
		policy.PermDownloadAgenda, policy.PermViewAgendaPDF,
	}

	return []standardRole{
		{
			code:        "vice_chancellor",
			name:        "副校长",
			description: "主持治理会议，定稿并发布",
			perms: concat(viewAll(), docPerms, []string{
				policy.PermFinalizeMeetings,
				policy.PermPublishMeetings,
			}),
		},
		{
			code:        "registrar",
			name:        "教务主任",
			description: "治理会议的日常运转：会议、议程、纪要的维护",
			perms: concat(
				crud(policy.NounMeetings),
				crud(policy.NounAgendaItems),
				crud(policy.NounMinutes),
				crud(policy.NounParticipants),
				[]string{
					policy.Code(policy.VerbRestore, policy.NounMeetings),
					policy.Code(policy.VerbExport, policy.NounMeetings),
					policy.Code(policy.VerbExport, policy.NounParticipants),
					policy.Code(policy.VerbImport, policy.NounParticipants),
					policy.Code(policy.VerbView, policy.NounMeetingTypes),
					policy.Code(policy.VerbView, policy.NounAgendaItemTypes),
					policy.PermFinalizeMeetings,
				},
				docPerms,
			),
		},
		{
			code:        "director",
			name:        "部门主管",
			description: "查看会议并维护本部门议程项",
			perms: concat(
				crud(policy.NounAgendaItems),
				crud(policy.NounMinutes),
				[]string{
					policy.Code(policy.VerbView, policy.NounMeetings),
					policy.Code(policy.VerbView, policy.NounAnnouncements),
				},
				docPerms,
			),
		},
		{
			code:        "dean",
			name:        "院长",
			description: "查看会议与文档",
			perms: concat([]string{
				policy.Code(policy.VerbView, policy.NounMeetings),
				policy.Code(policy.VerbView, policy.NounAgendaItems),
				policy.Code(policy.VerbView, policy.NounMinutes),
				policy.Code(policy.VerbView, policy.NounAnnouncements),
			}, docPerms),
		},
		{
			code:        "faculty",
			name:        "教师",
			description: "查看已发布的会议信息与公告",
			perms: []string{
				policy.Code(policy.VerbView, policy.NounMeetings),
				policy.Code(policy.VerbView, policy.NounAnnouncements),
				policy.Code(policy.VerbView, policy.NounHelpArticles),
				policy.Code(policy.VerbView, policy.NounHelpCategories),
			},
		},
		{
			code:        "staff",
			name:        "职员",
			description: "查看公告与帮助",
			perms: []string{
				policy.Code(policy.VerbView, policy.NounAnnouncements),
				policy.Code(policy.VerbView, policy.NounHelpArticles),
				policy.Code(policy.VerbView, policy.NounHelpCategories),
			},
		},
	}
}

// createStandardRoles 创建预置业务角色并挂接权限
// 幂等：已存在的角色不再重建、不覆盖管理员对其权限集的后续调整
func createStandardRoles(db *gorm.DB) error {
	for _, def := range standardRoles() {
		var count int64
		db.Model(&models.Role{}).Where("code = ?", def.code).Count(&count)
		if count > 0 {
			continue
		}

		role := &models.Role{
			Code:        def.code,
			Name:        def.name,
			Description: def.description,
			IsReserved:  false,
			Status:      models.RoleStatusActive,
		}
		if err := db.Create(role).Error; err != nil {
			return err
		}

		var permissions []models.Permission
		if err := db.Where("code IN ?", def.perms).Find(&permissions).Error; err != nil {
			return err
		}
		if err := db.Model(role).Association("Permissions").Replace(permissions); err != nil {
			return err
		}

		logger.GetLogger().Infof("预置角色 %s 创建成功（%d 个权限）", def.code, len(permissions))
	}

	return nil
}

// createDefaultAdmin 创建默认管理员用户并挂接超级管理员角色
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@meetgov.local",
		Name:     "系统管理员",
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword("Admin@123"); err != nil {
		return err
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	var superRole models.Role
	if err := db.Where("code = ?", models.RoleSuperAdmin).First(&superRole).Error; err != nil {
		return err
	}
	if err := db.Create(&models.UserRole{UserID: admin.ID, RoleID: superRole.ID}).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认管理员创建成功（用户名: admin，请尽快修改初始密码）")
	return nil
}

// initializeSettings 初始化默认设置
func initializeSettings(db *gorm.DB) error {
	defaults := []models.Setting{
		{Key: "site_name", Value: "学术治理会议管理系统", Description: "站点名称"},
		{Key: "maintenance_mode", Value: "false", Description: "维护模式开关"},
		{Key: "reminder_lead_hours", Value: "24", Description: "会议提醒提前小时数"},
	}

	for _, setting := range defaults {
		var count int64
		db.Model(&models.Setting{}).Where("key = ?", setting.Key).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
	}

	return nil
}
