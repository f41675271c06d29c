package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/middleware"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	UserService  UserService
	MusicService MusicService
	ImageService ImageService

	// 以下可选
	SignInLimiter SignInLimiter
	RateLimiter   *middleware.IPRateLimiter
	Metrics       *middleware.Metrics
	Logger        logger.Logger

	MaxFileSize    int64
	MaxRequestSize int64
}

// NewRouter 组装中间件与路由
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.CORS(),
		middleware.SecurityHeaders(),
	)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Not found")
	})

	r.GET("/readiness", Readiness)

	api := r.Group("")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Limit())
	}

	userHandler := NewUserHandler(cfg.UserService, cfg.SignInLimiter, log)
	api.POST("/sign-up", userHandler.SignUp)
	api.POST("/sign-in", userHandler.SignIn)
	api.GET("/info/:id", userHandler.GetInfo)

	uploads := api.Group("", middleware.BodyLimit(cfg.MaxRequestSize))
	uploadHandler := NewUploadHandler(cfg.ImageService, cfg.MaxFileSize)
	musicHandler := NewMusicHandler(cfg.MusicService, cfg.MaxFileSize)
	uploads.POST("/upload", uploadHandler.Upload)
	uploads.POST("/music", musicHandler.RegisterMusic)

	api.GET("/:id/music", musicHandler.ListMusic)

	return r
}
