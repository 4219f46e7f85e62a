package main

import (
	"context"
	"log"
	"os"

	"itam-go/internal/config"
	"itam-go/internal/metrics"
	"itam-go/internal/models"
	"itam-go/internal/repository"
	"itam-go/internal/router"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	// 加载配置, 环境变量 ITAM_* 覆盖文件中的值
	cfg, err := config.LoadConfig("./config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := newLogger(cfg.Log)

	// 初始化数据库
	if err := models.InitDB(cfg, logger); err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}
	db := models.GetDB()
	defer models.Close(db)

	// 初始化工具
	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化管理员账户
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewDepartmentRepository(db),
		jwtManager,
		cfg,
	)
	if err := authService.InitAdmin(context.Background()); err != nil {
		logger.Warnf("初始化管理员失败: %v", err)
	}

	// 设置路由
	r := router.SetupRouter(cfg, jwtManager, logger, db, metrics.New())

	// 启动服务器
	addr := cfg.Server.GetAddress()
	logger.WithField("driver", cfg.Database.Driver).Infof("服务器启动在 %s", addr)

	if !cfg.Server.ProductionMode {
		logger.Infof("开发模式: 管理员账号 %s", cfg.Admin.Username)
	}
	if cfg.Metrics.Enabled {
		logger.Infof("指标地址: %s", cfg.Metrics.Path)
	}

	if err := r.Run(addr); err != nil {
		logger.Fatalf("启动服务器失败: %v", err)
	}
}

// newLogger 按配置创建日志记录器
func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
