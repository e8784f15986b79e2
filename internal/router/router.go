package router

import (
	"meetgov/internal/database"
	"meetgov/internal/handlers"
	"meetgov/internal/middleware"
	"meetgov/internal/policy"
	"meetgov/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerRoutes(router)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {
	db := database.GetDB()
	cache := services.GetPermissionCache()
	notifyQueue := database.GetNotificationQueue()

	// 服务层
	userService := services.NewUserService(db, cache)
	roleService := services.NewRoleService(db, cache)
	permissionService := services.NewPermissionService(db)
	typeService := services.NewMeetingTypeService(db)
	meetingService := services.NewMeetingService(db)
	agendaItemService := services.NewAgendaItemService(db)
	agendaItemTypeService := services.NewAgendaItemTypeService(db)
	minuteService := services.NewMinuteService(db)
	announcementService := services.NewAnnouncementService(db)
	positionService := services.NewPositionService(db)
	employmentService := services.NewEmploymentStatusService(db)
	keywordService := services.NewKeywordService(db)
	helpService := services.NewHelpService(db)
	participantService := services.NewParticipantService(db)
	settingService := services.NewSettingService(db)
	notificationService := services.NewNotificationService(db, notifyQueue)
	exportService := services.NewExportService(db, agendaItemService, minuteService, participantService)

	// 授权求值器：全局权限由用户服务提供，上下文授权由会议类型服务提供
	evaluator := policy.New(userService, typeService)

	auth := middleware.NewAuthMiddleware(userService, evaluator)
	maintenance := middleware.NewMaintenanceMiddleware(settingService, evaluator)

	systemHandler := handlers.NewSystemHandler()

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", systemHandler.Health)
		api.GET("/ping", systemHandler.Ping)

		// 认证路由（无需登录）
		authHandler := handlers.NewAuthHandler(userService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/profile", auth.RequireLogin(), authHandler.Profile)
			authGroup.POST("/change-password", auth.RequireLogin(), authHandler.ChangePassword)
		}

		// 通知实时推送（token走查询参数，不经过RequireLogin）
		wsHandler := handlers.NewWebSocketHandler(notifyQueue)
		api.GET("/ws/notifications", wsHandler.Notifications)

		// 登录后的所有业务路由统一挂维护模式关卡
		app := api.Group("", auth.RequireLogin(), maintenance.Gate())

		// 用户管理
		userHandler := handlers.NewUserHandler(userService)
		users := app.Group("/users")
		{
			users.POST("", auth.Require(policy.VerbCreate, policy.NounUsers), userHandler.Create)
			users.GET("", auth.Require(policy.VerbView, policy.NounUsers), userHandler.GetAll)
			users.GET("/stats", auth.Require(policy.VerbView, policy.NounUsers), userHandler.GetStats)
			users.GET("/:id", auth.Require(policy.VerbView, policy.NounUsers), userHandler.GetByID)
			users.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounUsers), userHandler.Update)
			users.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounUsers), userHandler.Delete)
			users.POST("/:id/restore", auth.Require(policy.VerbRestore, policy.NounUsers), userHandler.Restore)
			users.DELETE("/:id/force", auth.Require(policy.VerbForceDelete, policy.NounUsers), userHandler.ForceDelete)

			users.POST("/:id/activate", auth.Require(policy.VerbEdit, policy.NounUsers), userHandler.Activate)
			users.POST("/:id/deactivate", auth.Require(policy.VerbEdit, policy.NounUsers), userHandler.Deactivate)
			users.POST("/:id/lock", auth.Require(policy.VerbEdit, policy.NounUsers), userHandler.Lock)
			users.POST("/:id/reset-password", auth.Require(policy.VerbEdit, policy.NounUsers), userHandler.ResetPassword)

			// 角色与直接权限分配走命名特殊权限
			users.POST("/:id/roles", auth.RequireNamed(policy.PermAssignRoles), userHandler.AssignRoles)
			users.POST("/:id/permissions", auth.RequireNamed(policy.PermAssignRoles), userHandler.AssignPermissions)
			users.GET("/:id/roles", auth.Require(policy.VerbView, policy.NounUsers), userHandler.GetRoles)
			users.GET("/:id/permissions", auth.Require(policy.VerbView, policy.NounUsers), userHandler.GetEffectivePermissions)
		}

		// 角色管理
		// 更新/删除是目标级判定（保留角色守卫），在handler内走求值器
		roleHandler := handlers.NewRoleHandler(roleService, evaluator)
		roles := app.Group("/roles")
		{
			roles.POST("", auth.Require(policy.VerbCreate, policy.NounRoles), roleHandler.Create)
			roles.GET("", auth.Require(policy.VerbView, policy.NounRoles), roleHandler.GetAll)
			roles.GET("/:id", auth.Require(policy.VerbView, policy.NounRoles), roleHandler.GetByID)
			roles.PUT("/:id", roleHandler.Update)
			roles.DELETE("/:id", roleHandler.Delete)
			roles.POST("/:id/permissions", auth.Require(policy.VerbEdit, policy.NounRoles), roleHandler.AssignPermissions)
			roles.GET("/:id/permissions", auth.Require(policy.VerbView, policy.NounRoles), roleHandler.GetPermissions)
		}

		// 权限词汇表（只读）
		permissionHandler := handlers.NewPermissionHandler(permissionService)
		permissions := app.Group("/permissions")
		{
			permissions.GET("", auth.Require(policy.VerbView, policy.NounPermissions), permissionHandler.GetAll)
			permissions.GET("/modules", auth.Require(policy.VerbView, policy.NounPermissions), permissionHandler.GetModules)
			permissions.GET("/:id", auth.Require(policy.VerbView, policy.NounPermissions), permissionHandler.GetByID)
		}

		// 会议类型与授权管理
		typeHandler := handlers.NewMeetingTypeHandler(typeService)
		meetingTypes := app.Group("/meeting-types")
		{
			meetingTypes.POST("", auth.Require(policy.VerbCreate, policy.NounMeetingTypes), typeHandler.Create)
			meetingTypes.GET("", auth.Require(policy.VerbView, policy.NounMeetingTypes), typeHandler.GetAll)
			meetingTypes.GET("/:id", auth.Require(policy.VerbView, policy.NounMeetingTypes), typeHandler.GetByID)
			meetingTypes.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounMeetingTypes), typeHandler.Update)
			meetingTypes.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounMeetingTypes), typeHandler.Delete)

			// 授权存储：编辑会议类型的权限即可管理其授权
			meetingTypes.GET("/:id/grants", auth.Require(policy.VerbEdit, policy.NounMeetingTypes), typeHandler.GetGrantedUsers)
			meetingTypes.GET("/:id/grants/candidates", auth.Require(policy.VerbEdit, policy.NounMeetingTypes), typeHandler.GetCandidates)
			meetingTypes.POST("/:id/grants", auth.Require(policy.VerbEdit, policy.NounMeetingTypes), typeHandler.Grant)
			meetingTypes.DELETE("/:id/grants/:user_id", auth.Require(policy.VerbEdit, policy.NounMeetingTypes), typeHandler.Revoke)
		}

		// 会议（上下文实体：handler内走求值器）
		meetingHandler := handlers.NewMeetingHandler(meetingService, typeService, userService, notificationService, exportService, evaluator)
		meetings := app.Group("/meetings")
		{
			meetings.POST("", meetingHandler.Create)
			meetings.GET("", meetingHandler.GetAll)
			meetings.GET("/creatable-types", meetingHandler.GetCreatableTypes)
			meetings.GET("/stats", meetingHandler.GetStats)
			meetings.GET("/deleted", meetingHandler.GetDeleted)
			meetings.GET("/export", auth.Require(policy.VerbExport, policy.NounMeetings), meetingHandler.Export)
			meetings.GET("/:id", meetingHandler.GetByID)
			meetings.PUT("/:id", meetingHandler.Update)
			meetings.DELETE("/:id", meetingHandler.Delete)
			meetings.POST("/:id/restore", meetingHandler.Restore)
			meetings.DELETE("/:id/force", meetingHandler.ForceDelete)
			meetings.POST("/:id/finalize", meetingHandler.Finalize)
			meetings.POST("/:id/publish", meetingHandler.Publish)
			meetings.GET("/:id/agenda/download", meetingHandler.DownloadAgenda)
			meetings.GET("/:id/minutes/download", meetingHandler.DownloadMinutes)
		}

		// 议程项（委托实体）
		agendaItemHandler := handlers.NewAgendaItemHandler(agendaItemService, meetingService, evaluator)
		agendaItems := app.Group("/agenda-items")
		{
			agendaItems.POST("", auth.Require(policy.VerbCreate, policy.NounAgendaItems), agendaItemHandler.Create)
			agendaItems.GET("/:id", agendaItemHandler.GetByID)
			agendaItems.PUT("/:id", agendaItemHandler.Update)
			agendaItems.DELETE("/:id", agendaItemHandler.Delete)
			agendaItems.POST("/:id/restore", agendaItemHandler.Restore)
			agendaItems.DELETE("/:id/force", agendaItemHandler.ForceDelete)
		}
		app.GET("/meetings/:id/agenda-items", agendaItemHandler.GetByMeeting)
		app.POST("/meetings/:id/agenda-items/reorder", agendaItemHandler.Reorder)

		// 议程项类型
		agendaItemTypeHandler := handlers.NewAgendaItemTypeHandler(agendaItemTypeService)
		agendaItemTypes := app.Group("/agenda-item-types")
		{
			agendaItemTypes.POST("", auth.Require(policy.VerbCreate, policy.NounAgendaItemTypes), agendaItemTypeHandler.Create)
			agendaItemTypes.GET("", auth.Require(policy.VerbView, policy.NounAgendaItemTypes), agendaItemTypeHandler.GetAll)
			agendaItemTypes.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounAgendaItemTypes), agendaItemTypeHandler.Update)
			agendaItemTypes.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounAgendaItemTypes), agendaItemTypeHandler.Delete)
		}

		// 纪要（委托实体）
		minuteHandler := handlers.NewMinuteHandler(minuteService, agendaItemService, evaluator)
		minutes := app.Group("/minutes")
		{
			minutes.POST("", auth.Require(policy.VerbCreate, policy.NounMinutes), minuteHandler.Create)
			minutes.GET("/:id", minuteHandler.GetByID)
			minutes.PUT("/:id", minuteHandler.Update)
			minutes.DELETE("/:id", minuteHandler.Delete)
			minutes.POST("/:id/restore", minuteHandler.Restore)
			minutes.DELETE("/:id/force", minuteHandler.ForceDelete)
		}
		app.GET("/agenda-items/:id/minutes", minuteHandler.GetByAgendaItem)

		// 公告
		announcementHandler := handlers.NewAnnouncementHandler(announcementService, evaluator)
		announcements := app.Group("/announcements")
		{
			announcements.POST("", auth.Require(policy.VerbCreate, policy.NounAnnouncements), announcementHandler.Create)
			announcements.GET("", announcementHandler.GetAll)
			announcements.GET("/:id", auth.Require(policy.VerbView, policy.NounAnnouncements), announcementHandler.GetByID)
			announcements.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounAnnouncements), announcementHandler.Update)
			announcements.POST("/:id/publish", auth.Require(policy.VerbEdit, policy.NounAnnouncements), announcementHandler.Publish)
			announcements.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounAnnouncements), announcementHandler.Delete)
		}

		// 职位
		positionHandler := handlers.NewPositionHandler(positionService)
		positions := app.Group("/positions")
		{
			positions.POST("", auth.Require(policy.VerbCreate, policy.NounPositions), positionHandler.Create)
			positions.GET("", auth.Require(policy.VerbView, policy.NounPositions), positionHandler.GetAll)
			positions.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounPositions), positionHandler.Update)
			positions.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounPositions), positionHandler.Delete)
		}

		// 聘用状态
		employmentHandler := handlers.NewEmploymentStatusHandler(employmentService)
		employmentStatuses := app.Group("/employment-statuses")
		{
			employmentStatuses.POST("", auth.Require(policy.VerbCreate, policy.NounEmploymentStatuses), employmentHandler.Create)
			employmentStatuses.GET("", auth.Require(policy.VerbView, policy.NounEmploymentStatuses), employmentHandler.GetAll)
			employmentStatuses.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounEmploymentStatuses), employmentHandler.Update)
			employmentStatuses.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounEmploymentStatuses), employmentHandler.Delete)
		}

		// 关键词
		keywordHandler := handlers.NewKeywordHandler(keywordService)
		keywords := app.Group("/keywords")
		{
			keywords.POST("", auth.Require(policy.VerbCreate, policy.NounKeywords), keywordHandler.Create)
			keywords.GET("", auth.Require(policy.VerbView, policy.NounKeywords), keywordHandler.GetAll)
			keywords.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounKeywords), keywordHandler.Update)
			keywords.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounKeywords), keywordHandler.Delete)
		}

		// 帮助中心
		helpHandler := handlers.NewHelpHandler(helpService, evaluator)
		help := app.Group("/help")
		{
			help.GET("/categories", auth.Require(policy.VerbView, policy.NounHelpCategories), helpHandler.GetCategories)
			help.POST("/categories", auth.Require(policy.VerbCreate, policy.NounHelpCategories), helpHandler.CreateCategory)
			help.PUT("/categories/:id", auth.Require(policy.VerbEdit, policy.NounHelpCategories), helpHandler.UpdateCategory)
			help.DELETE("/categories/:id", auth.Require(policy.VerbDelete, policy.NounHelpCategories), helpHandler.DeleteCategory)

			help.POST("/articles", auth.Require(policy.VerbCreate, policy.NounHelpArticles), helpHandler.CreateArticle)
			help.GET("/articles/:id", auth.Require(policy.VerbView, policy.NounHelpArticles), helpHandler.GetArticle)
			help.PUT("/articles/:id", auth.Require(policy.VerbEdit, policy.NounHelpArticles), helpHandler.UpdateArticle)
			help.DELETE("/articles/:id", auth.Require(policy.VerbDelete, policy.NounHelpArticles), helpHandler.DeleteArticle)
		}

		// 参会人员
		participantHandler := handlers.NewParticipantHandler(participantService, exportService)
		participants := app.Group("/participants")
		{
			participants.POST("", auth.Require(policy.VerbCreate, policy.NounParticipants), participantHandler.Create)
			participants.GET("", auth.Require(policy.VerbView, policy.NounParticipants), participantHandler.GetAll)
			participants.GET("/export", auth.Require(policy.VerbExport, policy.NounParticipants), participantHandler.Export)
			participants.POST("/import", auth.Require(policy.VerbImport, policy.NounParticipants), participantHandler.Import)
			participants.GET("/:id", auth.Require(policy.VerbView, policy.NounParticipants), participantHandler.GetByID)
			participants.PUT("/:id", auth.Require(policy.VerbEdit, policy.NounParticipants), participantHandler.Update)
			participants.DELETE("/:id", auth.Require(policy.VerbDelete, policy.NounParticipants), participantHandler.Delete)
		}

		// 系统设置
		settingHandler := handlers.NewSettingHandler(settingService)
		settings := app.Group("/settings")
		{
			settings.GET("", auth.Require(policy.VerbView, policy.NounSettings), settingHandler.GetAll)
			settings.PUT("", auth.Require(policy.VerbEdit, policy.NounSettings), settingHandler.Set)
		}

		// 通知（个人数据，只需登录）
		notificationHandler := handlers.NewNotificationHandler(notificationService)
		notifications := app.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetMine)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}
	}
}
