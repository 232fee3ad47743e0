package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/api/handlers"
	"mafia_web/internal/metric"
	"mafia_web/internal/middleware"
	"mafia_web/internal/service"
	"mafia_web/internal/utils"
)

// HealthChecker 回報後端依賴是否可用
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterOptions 路由層的設定
type RouterOptions struct {
	CORSOrigins []string
	Health      HealthChecker
	Logger      *zap.Logger
}

// NewRouter 建立 gin.Engine 並掛上所有中間件與路由
func NewRouter(services *service.Services, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.RequestLogger(log))
	r.Use(metric.PrometheusMiddleware())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Use(middleware.AuthMiddleware(services.User, middleware.DefaultPublicPaths, log))

	SetupRoutes(r, services, opts.Health, log)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// SetupRoutes 註冊所有路由；驗證由全域的 AuthMiddleware 處理
func SetupRoutes(r *gin.Engine, services *service.Services, health HealthChecker, log *zap.Logger) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User, log)
	roomHandler := handlers.NewRoomHandler(services.Room, log)
	roolSetHandler := handlers.NewRoolSetHandler(services.RoolSet, log)
	lobbyHandler := handlers.NewLobbyHandler(services.Lobby, services.Room, log)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	// 公開路由
	{
		r.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "mafia game backend"})
		})

		// 基本的健康檢查
		r.GET("/health", func(c *gin.Context) {
			if health != nil {
				if err := health.Ping(c.Request.Context()); err != nil {
					log.Warn("health check failed", zap.Error(err))
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		r.GET("/metrics", metric.Handler())

		// 用戶認證相關
		r.POST("/users", authHandler.Register)
		r.POST("/token", authHandler.Token)
	}

	// 需要驗證的路由
	users := r.Group("/users")
	{
		users.GET("/me", authHandler.Me)
		users.POST("/profile", authHandler.CreateProfile)
		users.GET("/profile", authHandler.GetProfile)
	}

	roolSets := r.Group("/rool-sets")
	{
		roolSets.GET("", roolSetHandler.List)
		roolSets.GET("/:id", roolSetHandler.Get)
	}

	rooms := r.Group("/rooms")
	{
		rooms.GET("", roomHandler.ListRooms)
		rooms.POST("", roomHandler.CreateRoom)
		rooms.POST("/:join_code", roomHandler.JoinRoom)
		rooms.GET("/:join_code", roomHandler.GetRoom)
		rooms.GET("/:join_code/ws", lobbyHandler.HandleWebSocket)
	}
}
