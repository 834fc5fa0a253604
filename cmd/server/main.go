package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coligo-portal/config"
	"coligo-portal/internal/api/handler"
	"coligo-portal/internal/api/middleware"
	"coligo-portal/internal/api/router"
	"coligo-portal/internal/repository"
	"coligo-portal/internal/service"
	"coligo-portal/pkg/database"
	"coligo-portal/pkg/jwt"
	applogger "coligo-portal/pkg/logger"
	"coligo-portal/pkg/metrics"
	"coligo-portal/pkg/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "portal-server",
		Short:         "Coligo 学习门户 API 服务",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config.yaml）")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动 HTTP 服务",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(configPath)
			},
		},
		&cobra.Command{
			Use:       "migrate [up|down]",
			Short:     "执行数据库迁移（up 全部应用，down 回滚一步）",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{database.MigrateUp, database.MigrateDown},
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(configPath, args[0])
			},
		},
	)

	return root
}

// bootstrap 加载配置并初始化日志
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

// connectDB 连接数据库，失败时直接退出进程
func connectDB(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, &cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	return db
}

func migrate(configPath, direction string) error {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db := connectDB(cfg, logger)
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, direction, logger)
}

func serve(configPath string) error {
	// 1. 配置与日志
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 连接数据库（有限次重试）
	db := connectDB(cfg, logger)
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}

	// 3. 连接 Redis（可选：未配置或连接失败时登录不限流）
	var limiter middleware.RateLimiter
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，登录限流将不可用", zap.Error(err))
			rdb = nil
		} else {
			limiter = rdb
		}
	}

	// 4. 指标与 JWT
	m := metrics.New(prometheus.DefaultRegisterer)
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, logger)
	h := handler.NewHandler(cfg, svc, m)

	// 6. 路由
	engine := router.Setup(cfg, h, router.Deps{
		JWT:      jwtMgr,
		Users:    svc.Auth,
		Limiter:  limiter,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Ping:     sqlDB.PingContext,
		Logger:   logger,
	})

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
	return nil
}
