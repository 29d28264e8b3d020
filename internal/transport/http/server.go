package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/bootstrap"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/cache"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/handler"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	clientRepo := repository.NewClientRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	assistantRepo := repository.NewAssistantRepository(app.MySQL)
	templateRepo := repository.NewTemplateRepository(app.MySQL)
	groupRepo := repository.NewGroupRepository(app.MySQL)
	threadRepo := repository.NewThreadRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	fileRepo := repository.NewFileRepository(app.MySQL)
	assistantFileRepo := repository.NewAssistantFileRepository(app.MySQL)
	functionRepo := repository.NewFunctionRepository(app.MySQL)
	analyticsRepo := repository.NewAnalyticsRepository(app.MySQL)

	callTimeout := time.Duration(app.Config.OpenAI.TimeoutSeconds) * time.Second

	authService := appsvc.NewAuthService(
		clientRepo,
		sessionRepo,
		app.Config.Auth.SessionSecret,
		time.Duration(app.Config.Auth.SessionTTLHours)*time.Hour,
	)
	assistantService := appsvc.NewAssistantService(
		assistantRepo,
		clientRepo,
		templateRepo,
		app.Resolver,
		app.AssistantAPI,
		app.Config.OpenAI.DefaultModel,
		callTimeout,
	)
	fileService := appsvc.NewFileService(
		fileRepo,
		assistantFileRepo,
		assistantRepo,
		app.Resolver,
		app.AssistantAPI,
		app.Publisher,
		app.Config.Uploads.Dir,
		callTimeout,
	)
	functionService := appsvc.NewFunctionService(
		functionRepo,
		assistantRepo,
		app.Resolver,
		app.AssistantAPI,
		callTimeout,
	)
	threadService := appsvc.NewThreadService(threadRepo, messageRepo, assistantRepo)
	adminService := appsvc.NewAdminService(clientRepo, templateRepo, groupRepo)

	var resultCache appsvc.ResultCache
	if app.Redis != nil {
		resultCache = cache.NewDashboardCache(
			app.Redis,
			time.Duration(app.Config.Redis.DashboardTTLSeconds)*time.Second,
		)
	}
	analyticsService := appsvc.NewAnalyticsService(analyticsRepo, resultCache)

	authHandler := handler.NewAuthHandler(authService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	fileHandler := handler.NewFileHandler(fileService)
	functionHandler := handler.NewFunctionHandler(functionService)
	threadHandler := handler.NewThreadHandler(threadService)
	adminHandler := handler.NewAdminHandler(adminService, assistantService)
	groupHandler := handler.NewGroupHandler(adminService, assistantService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)
	router.POST("/login", authHandler.Login)

	authed := router.Group("/")
	authed.Use(middleware.AuthSession(authService))

	authed.POST("/logout", authHandler.Logout)
	authed.GET("/me", authHandler.Me)

	authed.POST("/create_assistant/:client_id", assistantHandler.Create)
	authed.PUT("/update_assistant/:asst_id", assistantHandler.Update)
	authed.PUT("/softdelete_asst/:asst_id", assistantHandler.SoftDelete)
	authed.PUT("/toggle_file_search/:asst_id", assistantHandler.ToggleFileSearch)
	authed.GET("/asst_list/:id", assistantHandler.List)
	authed.GET("/avatars_list/:id", assistantHandler.ListAvatars)

	authed.GET("/threads_list/:asstId", threadHandler.List)
	authed.POST("/threads/:asstId", threadHandler.Create)
	authed.GET("/messages_list/:threadId", threadHandler.ListMessages)
	authed.POST("/messages/:threadId", threadHandler.AppendMessage)

	authed.POST("/upload_files/:asstId", fileHandler.Upload)
	authed.GET("/upload_status/:batchId", fileHandler.UploadStatus)
	authed.GET("/files_list/:asstId", fileHandler.List)
	authed.GET("/asst_files/:assistantId", fileHandler.ListIndexed)
	authed.DELETE("/delete_file/:fileId", fileHandler.Delete)
	authed.GET("/download/:fileName", fileHandler.Download)

	authed.POST("/add_function/:assistantId", functionHandler.Add)
	authed.GET("/functions/:assistantId", functionHandler.List)
	authed.DELETE("/functions/:assistantId/:functionName", functionHandler.Delete)

	authed.GET("/assistant-activity", analyticsHandler.AssistantActivity)
	authed.GET("/message-volume", analyticsHandler.MessageVolume)
	authed.GET("/average-response-time", analyticsHandler.AverageResponseTime)
	authed.GET("/thread-activity", analyticsHandler.ThreadActivity)
	authed.GET("/most-active-threads", analyticsHandler.MostActiveThreads)
	authed.GET("/dashboard/summary", analyticsHandler.Summary)
	authed.GET("/dashboard/messages-daily", analyticsHandler.MessagesDaily)
	authed.GET("/dashboard/messages-hourly", analyticsHandler.MessagesHourly)
	authed.GET("/dashboard/group-usage", middleware.RequireAdmin(), analyticsHandler.GroupUsage)

	groupScoped := authed.Group("/group")
	groupScoped.GET("/users", groupHandler.ListUsers)
	groupScoped.GET("/assistants", groupHandler.ListAssistants)
	groupScoped.GET("/templates", groupHandler.ListTemplates)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/assistants", adminHandler.ListAssistants)
	admin.GET("/templates", adminHandler.ListTemplates)
	admin.POST("/templates", adminHandler.CreateTemplate)
	admin.PUT("/templates/:id", adminHandler.UpdateTemplate)
	admin.DELETE("/templates/:id", adminHandler.DeleteTemplate)
	admin.GET("/groups", adminHandler.ListGroups)
	admin.POST("/groups", adminHandler.CreateGroup)
	admin.PUT("/groups/:id", adminHandler.UpdateGroup)
	admin.DELETE("/groups/:id", adminHandler.DeleteGroup)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	return router
}
