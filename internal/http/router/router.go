package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/config"
	"github.com/dungeonlive/dungeon-backend/internal/http/handlers"
	"github.com/dungeonlive/dungeon-backend/internal/http/middleware"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// Handlers все хэндлеры приложения для сборки маршрутов.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Performer  *handlers.PerformerHandler
	Purchase   *handlers.PurchaseHandler
	Wallet     *handlers.WalletHandler
	Withdrawal *handlers.WithdrawalHandler
	Admin      *handlers.AdminHandler
	Message    *handlers.MessageHandler
	Order      *handlers.OrderHandler
	Feed       *handlers.FeedHandler
	Media      *handlers.MediaHandler
	AI         *handlers.AIHandler
	WS         *handlers.WSHandler
	Health     *handlers.HealthHandler
	Seed       *handlers.SeedHandler
}

// SetupRouter собирает gin.Engine со всеми маршрутами платформы.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media-files", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	if h.Seed != nil && cfg.Env == "development" {
		api.POST("/seed", h.Seed.Seed)
		api.GET("/seed", h.Seed.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Публичные маршруты
	api.GET("/performers", h.Performer.List)
	api.GET("/performers/:id", h.Performer.Get)
	api.GET("/wallet/packages", h.Wallet.Packages)
	api.GET("/ws/rooms/:id", h.WS.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", h.Auth.Me)

		protected.PUT("/performers/:id", h.Performer.Update)

		protected.POST("/performers/:id/subscribe", h.Purchase.Subscribe)
		protected.POST("/performers/:id/unlock", h.Purchase.UnlockStream)
		protected.POST("/performers/:id/content/:contentId/unlock", h.Purchase.UnlockContent)
		protected.POST("/performers/:id/tip", h.Purchase.Tip)
		protected.POST("/performers/:id/merch/:merchId/buy", h.Purchase.BuyMerch)
		protected.POST("/performers/:id/room-action", h.Purchase.RoomAction)
		protected.POST("/performers/:id/games/:gameId/play", h.Purchase.PlayGame)
		protected.POST("/performers/:id/toy/:controlId", h.Purchase.TriggerToy)

		protected.GET("/wallet/balance", h.Wallet.Balance)
		protected.POST("/wallet/topup", h.Wallet.TopUp)

		protected.GET("/feed", h.Feed.List)
		protected.POST("/feed/:id/like", h.Feed.Like)
		protected.POST("/feed/:id/unlock", h.Feed.Unlock)

		protected.GET("/messages/threads", h.Message.Threads)
		protected.GET("/messages/:otherId", h.Message.History)
		protected.POST("/messages/:otherId", h.Message.Send)
		protected.POST("/messages/:otherId/unlock/:messageId", h.Message.Unlock)

		protected.POST("/orders", h.Order.Create)
		protected.GET("/orders/my", h.Order.ListMy)

		protected.GET("/notifications", h.Admin.Notifications)

		protected.POST("/media", h.Media.Upload)
		protected.DELETE("/media/*path", h.Media.Delete)

		// AI endpoints
		protected.POST("/ai/performers/:id/reply", h.AI.PersonaReply)
		protected.POST("/ai/translate", h.AI.Translate)
	}

	// Маршруты моделей
	model := api.Group("/")
	model.Use(middleware.AuthMiddleware(tokenManager), middleware.ModelOnly())
	{
		model.POST("/feed", h.Feed.Create)
		model.POST("/campaigns", h.Message.CreateCampaign)
		model.GET("/campaigns/my", h.Message.MyCampaigns)

		model.POST("/orders/:id/accept", h.Order.Accept)
		model.POST("/orders/:id/complete", h.Order.Complete)
		model.POST("/orders/:id/reject", h.Order.Reject)

		model.POST("/withdrawals", h.Withdrawal.Create)
		model.GET("/withdrawals", h.Withdrawal.ListMy)

		model.POST("/ai/copilot", h.AI.CoPilot)
		model.POST("/ai/tags", h.AI.ContentTags)
		model.POST("/ai/watermark", h.AI.WatermarkID)
	}

	// Маршруты администратора
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.POST("/grants/tokens", h.Admin.GrantTokens)
		admin.POST("/grants/subscription", h.Admin.GrantSubscription)
		admin.GET("/models/pending", h.Admin.PendingModels)
		admin.POST("/models/:id/approve", h.Admin.ApproveModel)
		admin.GET("/fans", h.Admin.ListFans)
		admin.POST("/violations", h.Admin.LogViolation)
		admin.GET("/violations", h.Admin.ListViolations)

		admin.GET("/withdrawals", h.Withdrawal.ListAll)
		admin.POST("/withdrawals/:id/approve", h.Withdrawal.Approve)
		admin.POST("/withdrawals/:id/reject", h.Withdrawal.Reject)
	}

	return r
}
