package api

import (
	"time" // Cache TTL

	"ejn_hub/internal/middleware" // Auth middlewares
	"ejn_hub/internal/realtime"   // Change feed
	"ejn_hub/internal/rewards"    // Points economy
	"ejn_hub/internal/store"      // Data layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps are the services the handlers share
type Deps struct {
	Store     *store.Store
	Redis     *redis.Client    // Optional; nil disables caching
	Broker    *realtime.Broker // Optional; nil disables GET /realtime
	Workflow  *rewards.Workflow
	Coins     *rewards.CoinAward
	JWTSecret string
	CacheTTL  time.Duration
	Location  *time.Location // Zone for deadlines and business hours
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	st, rdb := d.Store, d.Redis

	// Auth routes
	r.POST("/user", RegisterHandler(st))          // Registration endpoint
	r.GET("/user", LoginHandler(st, d.JWTSecret)) // Login endpoint

	// Hub routes (protected by JWT)
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.LoadUserMiddleware(st))
	auth.GET("/me", GetProfileHandler(st))
	auth.PATCH("/me", UpdateProfileHandler(st, rdb))
	auth.POST("/me/availability", ToggleAvailabilityHandler(st, rdb))
	auth.GET("/bootstrap", BootstrapHandler(st))

	auth.GET("/rewards", ListRewardsHandler(st, rdb, d.CacheTTL))
	auth.POST("/rewards/:id/redeem", RedeemHandler(d.Workflow, rdb))
	auth.GET("/redemptions", MyRedemptionsHandler(st))

	auth.GET("/tasks", ListMyTasksHandler(st, d.Location))
	auth.POST("/tasks/:id/submissions", SubmitTaskHandler(st))

	auth.GET("/feed", FeedHandler(st))
	auth.POST("/feed", CreatePostHandler(st, d.Coins, rdb))
	auth.POST("/feed/:id/like", LikePostHandler(st, d.Coins, rdb))
	auth.POST("/feed/:id/comments", CommentHandler(st, d.Coins, rdb))
	auth.DELETE("/feed/:id", DeletePostHandler(st))
	auth.GET("/ranking", RankingHandler(st, rdb, d.CacheTTL))

	auth.GET("/chat/managers", ListManagersHandler(st, d.Location))
	auth.GET("/chat/:peerID", ConversationHandler(st))
	auth.POST("/chat/:peerID", SendMessageHandler(st))

	auth.GET("/notifications", ListNotificationsHandler(st))
	auth.POST("/notifications/:id/read", MarkReadHandler(st))
	auth.POST("/notifications/read-all", MarkAllReadHandler(st))

	auth.POST("/feedback", SubmitFeedbackHandler(st, rdb))
	if d.Broker != nil {
		auth.GET("/realtime", RealtimeHandler(d.Broker))
	}

	// Admin routes (protected, admin only)
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware())
	admin.GET("/dashboard", DashboardHandler(st, rdb, d.CacheTTL))
	admin.GET("/users", ListUsersHandler(st))
	admin.PATCH("/users/:id", UpdateAccessHandler(st, rdb))
	admin.GET("/feedback", ListFeedbackHandler(st))
	admin.PATCH("/feedback/:id", UpdateFeedbackHandler(st, rdb))
	admin.POST("/tasks", CreateTaskHandler(st))
	admin.PATCH("/tasks/:id", UpdateTaskHandler(st))
	admin.DELETE("/tasks/:id", DeleteTaskHandler(st))
	admin.POST("/rewards", CreateRewardHandler(st, rdb))
	admin.PATCH("/rewards/:id", UpdateRewardHandler(st, rdb))
	admin.DELETE("/rewards/:id", DeleteRewardHandler(st, rdb))
	admin.GET("/redemptions", ListAllRedemptionsHandler(st))
	admin.PATCH("/redemptions/:id", UpdateRedemptionHandler(st, rdb))
	admin.GET("/submissions", ListSubmissionsHandler(st))
	admin.POST("/submissions/:id/approve", ReviewSubmissionHandler(st, d.Coins, rdb, true))
	admin.POST("/submissions/:id/reject", ReviewSubmissionHandler(st, d.Coins, rdb, false))
	admin.POST("/notifications", SendNotificationHandler(st))
}
