package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/daehwan2da/sopt-aos-server/internal/handler"
	"github.com/daehwan2da/sopt-aos-server/internal/limiter"
	"github.com/daehwan2da/sopt-aos-server/internal/middleware"
	"github.com/daehwan2da/sopt-aos-server/internal/repository"
	"github.com/daehwan2da/sopt-aos-server/internal/service"
	"github.com/daehwan2da/sopt-aos-server/internal/storage"
	"github.com/daehwan2da/sopt-aos-server/pkg/config"
	"github.com/daehwan2da/sopt-aos-server/pkg/crypto"
	"github.com/daehwan2da/sopt-aos-server/pkg/logger"
)

const metricsNamespace = "sopt"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	initConfig := flag.String("init-config", "", "write an example config file to this path and exit")
	flag.Parse()

	if *initConfig != "" {
		if err := config.CreateExampleConfig(*initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "write example config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := initLogger(cfg.Log)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logger.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.NewFileLoader(path).Load()
}

func initLogger(cfg config.LogConfig) logger.Logger {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		level = logger.InfoLevel
	}
	return logger.New(&logger.Config{
		Level:  level,
		Format: logger.Format(cfg.Format),
		Output: os.Stdout,
		Caller: true,
	}).WithFields(logger.String("service", "sopt-aos-server"))
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, music, closeStore, err := initStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	uploader, err := storage.NewS3Uploader(cfg.ObjectStorage, log)
	if err != nil {
		return err
	}

	signInLimiter, closeLimiter, err := initSignInLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	hasher := crypto.NewPasswordHasherFromConfig(cfg.Password)

	routerCfg := handler.RouterConfig{
		UserService:    service.NewUserService(users, hasher, log),
		MusicService:   service.NewMusicService(music, uploader, log),
		ImageService:   service.NewImageService(uploader),
		Metrics:        middleware.NewMetrics(metricsNamespace),
		Logger:         log,
		MaxFileSize:    cfg.Upload.MaxFileSize,
		MaxRequestSize: cfg.Upload.MaxRequestSize,
	}
	if signInLimiter != nil {
		routerCfg.SignInLimiter = signInLimiter
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}

	gin.SetMode(cfg.Server.Mode)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      handler.NewRouter(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			logger.String("addr", server.Addr),
			logger.String("storage", cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down", logger.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// initStore 根据 storage.driver 选择内存或 PostgreSQL 存储
func initStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.UserRepository, repository.MusicRepository, func(), error) {
	if cfg.Storage.Driver != config.DriverPostgres {
		store := repository.NewMemoryStore()
		log.Warn("using in-memory storage; data is lost on restart")
		return store.Users(), store.Music(), func() {}, nil
	}

	dbCfg := repository.NewDBConfig(cfg.Postgres)

	if cfg.Postgres.AutoMigrate {
		if err := migrate(dbCfg, log); err != nil {
			return nil, nil, nil, err
		}
	}

	pool, err := repository.NewPool(ctx, dbCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("Database connected",
		logger.String("host", cfg.Postgres.Host),
		logger.String("database", cfg.Postgres.Database),
	)

	return repository.NewUserRepository(pool), repository.NewMusicRepository(pool), pool.Close, nil
}

func migrate(dbCfg *repository.DBConfig, log logger.Logger) error {
	migrator, err := repository.NewMigrator(dbCfg)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.EnsureSchema(); err != nil {
		return err
	}

	version, _, err := migrator.Version()
	if err != nil {
		return err
	}
	log.Info("Database schema ready", logger.Int64("version", int64(version)))
	return nil
}

// initSignInLimiter 未启用时返回 nil 限流器
func initSignInLimiter(ctx context.Context, cfg *config.Config, log logger.Logger) (*limiter.SignInLimiter, func(), error) {
	if !cfg.SignInLimit.Enabled {
		return nil, func() {}, nil
	}

	client, err := limiter.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Sign-in limiter enabled",
		logger.Int64("attempts", cfg.SignInLimit.Attempts),
		logger.Duration("window", cfg.SignInLimit.Window),
	)

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis client", logger.Error(err))
		}
	}
	return limiter.NewSignInLimiter(client, cfg.SignInLimit.Attempts, cfg.SignInLimit.Window), closeFn, nil
}
