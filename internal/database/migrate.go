package database

import (
	"meetgov/internal/models"
	"meetgov/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		// 身份与权限
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.UserRole{},
		&models.UserPermission{},
		// 会议域
		&models.MeetingType{},
		&models.MeetingTypeGrant{},
		&models.Meeting{},
		&models.AgendaItem{},
		&models.AgendaItemType{},
		&models.Minute{},
		// 行政实体
		&models.Announcement{},
		&models.EmploymentStatus{},
		&models.HelpCategory{},
		&models.HelpArticle{},
		&models.Keyword{},
		&models.Notification{},
		&models.Participant{},
		&models.Position{},
		&models.Setting{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")

	// 种子数据初始化在 main.go 中单独调用，避免循环依赖

	return nil
}
