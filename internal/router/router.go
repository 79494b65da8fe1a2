package router

import (
	"github.com/gin-gonic/gin"

	"gradus/internal/domain"
	"gradus/internal/handler"
	"gradus/internal/middleware"
	"gradus/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	groupH *handler.GroupHandler,
	proposalH *handler.ProposalHandler,
	thesisH *handler.ThesisHandler,
	agendaH *handler.AgendaHandler,
	notificationH *handler.NotificationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/auth/me", authH.Me)

	reviewers := middleware.RequireRole(domain.RoleModerator, domain.RoleChair, domain.RoleHead, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// User management
	users := protected.Group("/users")
	users.POST("", adminOnly, userH.Create)
	users.GET("", adminOnly, userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", userH.Update)
	users.DELETE("/:id", adminOnly, userH.Delete)

	// Groups and membership
	groups := protected.Group("/groups")
	groups.POST("", adminOnly, groupH.Create)
	groups.GET("", groupH.List)
	groups.GET("/mine", groupH.ListMine)
	groups.GET("/:id", groupH.GetByID)
	groups.PUT("/:id", adminOnly, groupH.Update)
	groups.DELETE("/:id", adminOnly, groupH.Delete)
	groups.GET("/:id/members", groupH.Members)
	groups.POST("/:id/members", groupH.AddMember)
	groups.DELETE("/:id/members/:userID", groupH.RemoveMember)
	groups.PUT("/:id/leader", adminOnly, groupH.ChangeLeader)

	// Topic proposal sets
	groups.POST("/:id/sets", proposalH.CreateSet)
	groups.GET("/:id/sets", proposalH.ListSets)
	groups.GET("/:id/sets/can-start", proposalH.CanStartSet)
	groups.GET("/:id/thesis", thesisH.GetByGroup)

	sets := protected.Group("/sets")
	sets.GET("/:id", proposalH.GetSet)
	sets.GET("/:id/export/csv", proposalH.ExportCSV)
	sets.POST("/:id/topics", proposalH.AddTopic)
	sets.PUT("/:id/topics/:topicID", proposalH.UpdateTopic)
	sets.DELETE("/:id/topics/:topicID", proposalH.RemoveTopic)
	sets.POST("/:id/submit", proposalH.SubmitSet)
	sets.POST("/:id/topics/:topicID/decision", reviewers, proposalH.Decide)
	sets.POST("/:id/topics/:topicID/promote", proposalH.Promote)

	protected.GET("/review/queue", reviewers, proposalH.ReviewQueue)

	// Theses and progress
	theses := protected.Group("/theses")
	theses.GET("/:id", thesisH.GetByID)
	theses.PUT("/:id", thesisH.Update)
	theses.GET("/:id/progress", thesisH.Progress)
	theses.POST("/:id/chapters", thesisH.CreateChapter)
	theses.POST("/:id/requirements", thesisH.CreateRequirement)
	theses.POST("/:id/files/upload-url", thesisH.UploadURL)
	theses.GET("/:id/files/download-url", thesisH.DownloadURL)

	chapters := protected.Group("/chapters")
	chapters.PUT("/:id", thesisH.UpdateChapter)
	chapters.DELETE("/:id", thesisH.DeleteChapter)
	chapters.POST("/:id/submit", thesisH.SubmitChapter)
	chapters.PUT("/:id/status", reviewers, thesisH.ReviewChapter)
	chapters.GET("/:id/file-url", thesisH.ChapterFileURL)

	requirements := protected.Group("/requirements")
	requirements.DELETE("/:id", thesisH.DeleteRequirement)
	requirements.POST("/:id/submit", thesisH.SubmitRequirement)
	requirements.PUT("/:id/status", reviewers, thesisH.ReviewRequirement)
	requirements.GET("/:id/file-url", thesisH.RequirementFileURL)

	// Classification agendas
	agendas := protected.Group("/agendas")
	agendas.GET("", agendaH.List)
	agendas.GET("/tree", agendaH.Get)
	agendas.GET("/options", agendaH.Options)
	agendas.PUT("", adminOnly, agendaH.Upsert)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationH.List)
	notifications.GET("/badges", notificationH.Badges)
	notifications.GET("/stream", notificationH.Stream)
	notifications.POST("/:id/read", notificationH.MarkRead)
	notifications.POST("/read-all", notificationH.MarkAllRead)

	return r
}
