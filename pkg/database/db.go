package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"coligo-portal/config"
)

// Opener 打开数据库连接，测试中可替换
type Opener func(dsn string, gormCfg *gorm.Config) (*gorm.DB, error)

// PostgresOpener 默认的 PostgreSQL 连接方式
func PostgresOpener(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// NewDB 初始化 PostgreSQL 数据库连接
// 启动阶段按 connect_attempts 次数重试，每次间隔 connect_delay，全部失败后返回错误由调用方退出进程
func NewDB(ctx context.Context, cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	return connect(ctx, cfg, logLevel, logger, PostgresOpener)
}

func connect(ctx context.Context, cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger, open Opener) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         NewGormLogger(logger, logLevel),
		TranslateError: true,
	}

	logger.Info("连接数据库", zap.String("dsn", cfg.MaskedDSN()))

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		logger.Info("数据库连接尝试", zap.Int("attempt", i), zap.Int("max", attempts))

		db, err := open(cfg.DSN, gormCfg)
		if err == nil {
			if err := configurePool(db, cfg); err != nil {
				return nil, err
			}
			logger.Info("数据库连接成功")
			return db, nil
		}

		lastErr = err
		logger.Warn("数据库连接失败", zap.Int("attempt", i), zap.Error(err))
		if i == attempts {
			break
		}

		logger.Info("稍后重试", zap.Duration("delay", cfg.ConnectDelay), zap.Int("remaining", attempts-i))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectDelay):
		}
	}

	return nil, fmt.Errorf("数据库连接失败（已尝试 %d 次）: %w", attempts, lastErr)
}

func configurePool(db *gorm.DB, cfg *config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}
	return nil
}
