package router

import (
	"time"

	"github.com/Demba-Soumare/birthdate/config"
	"github.com/Demba-Soumare/birthdate/internal/handler"
	"github.com/Demba-Soumare/birthdate/internal/middleware"
	"github.com/Demba-Soumare/birthdate/internal/repository"
	"github.com/Demba-Soumare/birthdate/internal/service"
	"github.com/Demba-Soumare/birthdate/internal/ws"
	"github.com/Demba-Soumare/birthdate/pkg/cloudinary"
	"github.com/Demba-Soumare/birthdate/pkg/payment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider payment.Provider, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))
	// All browser-facing endpoints are restricted to the configured
	// frontend origin; the webhook is server-to-server and unaffected.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	fundraiserRepo := repository.NewFundraiserRepository(db)

	fundraiserHub := ws.NewFundraiserHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	eventHandler := handler.NewEventHandler(eventRepo, fundraiserRepo)
	uploadHandler := handler.NewUploadHandler(cloud)
	connectHandler := handler.NewConnectHandler(userRepo, provider, cfg.Frontend.BaseURL)
	statusHandler := handler.NewAccountStatusHandler(provider)
	checkoutHandler := handler.NewCheckoutHandler(eventRepo, userRepo, provider, cfg.Frontend.BaseURL)
	webhookHandler := handler.NewStripeWebhookHandler(fundraiserRepo, fundraiserHub, cfg.Stripe.WebhookSecret)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		events := api.Group("/events")
		events.Use(authMw)
		{
			events.POST("", eventHandler.Create)
			events.GET("", eventHandler.List)
			events.GET("/:id", eventHandler.Get)
			events.PATCH("/:id", eventHandler.Update)
			events.DELETE("/:id", eventHandler.Delete)
			events.POST("/:id/fundraiser", eventHandler.CreateFundraiser)
		}
		api.GET("/fundraisers/:eventId", authMw, eventHandler.GetFundraiser)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/payment-status", connectHandler.MyPaymentStatus)
			me.POST("/upload/event-image", uploadHandler.UploadEventImage)
		}

		stripeGroup := api.Group("/stripe")
		{
			stripeGroup.POST("/account", authMw, connectHandler.CreateAccount)
			stripeGroup.POST("/account/status", statusHandler.Status)
		}
		api.POST("/checkout/session", authMw, checkoutHandler.CreateSession)
		api.POST("/webhooks/stripe", webhookHandler.Handle)
	}

	r.GET("/ws/fundraiser", ws.UpgradeFundraiserWS(&cfg.JWT, fundraiserHub))

	return r
}
