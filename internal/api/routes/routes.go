package routes

import (
	"net/http"
	"time"

	"maskoff-server/internal/api/handlers"
	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/config"
	"maskoff-server/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Friend       *handlers.FriendHandler
	Post         *handlers.PostHandler
	Job          *handlers.JobHandler
	Chat         *handlers.ChatHandler
	Introduction *handlers.IntroductionHandler
	WebSocket    *handlers.WebSocketHandler
}

// New builds the gin engine with all middleware and routes mounted.
func New(cfg *config.Config, tokens *token.Engine, redisClient *redis.Client, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.App.ClientURL))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Notification socket; authenticates in-band after the upgrade.
	h.WebSocket.RegisterRoutes(router)

	api := router.Group("/api")

	// Login and the token flows get a tighter limit than the rest.
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware(redisClient, 20, time.Minute))
	h.Auth.RegisterRoutes(public)

	private := api.Group("")
	private.Use(middleware.AuthMiddleware(tokens))
	private.Use(middleware.RateLimitMiddleware(redisClient, 300, time.Minute))
	h.User.RegisterRoutes(private)
	h.Friend.RegisterRoutes(private)
	h.Post.RegisterRoutes(private)
	h.Job.RegisterRoutes(private)
	h.Chat.RegisterRoutes(private)
	h.Introduction.RegisterRoutes(private)

	return router
}
