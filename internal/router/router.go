package router

import (
	"net/http"

	"itam-go/internal/config"
	"itam-go/internal/handler"
	"itam-go/internal/metrics"
	"itam-go/internal/middleware"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// resourceHandler 标准 CRUD 处理器
type resourceHandler interface {
	List(c *gin.Context)
	Retrieve(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Destroy(c *gin.Context)
}

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	m *metrics.Metrics,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "IT Asset Management API",
			"version": "1.0.0",
		})
	})

	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	softwareRepo := repository.NewSoftwareRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// 初始化Service
	gate := policy.DefaultGate()
	audit := service.NewAuditLogger(logger, auditRepo, m)

	authService := service.NewAuthService(userRepo, deptRepo, jwtManager, cfg)
	departmentService := service.NewDepartmentService(gate, deptRepo, audit)
	userService := service.NewUserService(gate, userRepo, deptRepo, audit)
	deviceService := service.NewDeviceService(gate, deviceRepo, userRepo, audit)
	interventionService := service.NewInterventionService(gate, interventionRepo, deviceRepo, userRepo, audit)
	supplierService := service.NewSupplierService(gate, supplierRepo, audit)
	softwareService := service.NewSoftwareService(gate, softwareRepo, supplierRepo, audit)
	auditService := service.NewAuditService(gate, auditRepo)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	softwareHandler := handler.NewSoftwareHandler(softwareService)
	auditHandler := handler.NewAuditHandler(auditService)

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 认证路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(jwtManager, authService))
		{
			authorized.GET("/me", authHandler.GetMe)

			registerResource(authorized, "/departments", handler.NewDepartmentHandler(departmentService))
			registerResource(authorized, "/users", userHandler)
			registerResource(authorized, "/devices", deviceHandler)
			registerResource(authorized, "/interventions", handler.NewInterventionHandler(interventionService))
			registerResource(authorized, "/suppliers", handler.NewSupplierHandler(supplierService))
			registerResource(authorized, "/software", softwareHandler)

			// 自定义动作
			authorized.POST("/users/:id/activate", userHandler.Activate)
			authorized.POST("/devices/:id/assign", deviceHandler.Assign)
			authorized.POST("/software/:id/install", softwareHandler.Install)
			authorized.POST("/software/:id/uninstall", softwareHandler.Uninstall)

			// 审计日志, 仅管理员
			authorized.GET("/audit",
				middleware.RequirePermission(gate, policy.ActionList, policy.ResourceAudit),
				auditHandler.List,
			)
		}
	}

	return r
}

// registerResource 注册标准 CRUD 路由, PUT 与 PATCH 都按部分更新处理
func registerResource(group *gin.RouterGroup, path string, h resourceHandler) {
	group.GET(path, h.List)
	group.POST(path, h.Create)
	group.GET(path+"/:id", h.Retrieve)
	group.PUT(path+"/:id", h.Update)
	group.PATCH(path+"/:id", h.Update)
	group.DELETE(path+"/:id", h.Destroy)
}
