package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"itam-go/internal/config"
	"itam-go/internal/metrics"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	metrics  *metrics.Metrics
	audit    *AuditLogger
	auditLog *repository.AuditRepository

	departments   *DepartmentService
	users         *UserService
	devices       *DeviceService
	interventions *InterventionService
	suppliers     *SupplierService
	software      *SoftwareService
	auditQuery    *AuditService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := models.OpenDB(config.DatabaseConfig{Driver: config.DriverSQLite, Path: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = models.Close(db) })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gate := policy.DefaultGate()
	m := metrics.New()

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	softwareRepo := repository.NewSoftwareRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	audit := NewAuditLogger(logger, auditRepo, m)

	return &testEnv{
		db:            db,
		metrics:       m,
		audit:         audit,
		auditLog:      auditRepo,
		departments:   NewDepartmentService(gate, deptRepo, audit),
		users:         NewUserService(gate, userRepo, deptRepo, audit),
		devices:       NewDeviceService(gate, deviceRepo, userRepo, audit),
		interventions: NewInterventionService(gate, interventionRepo, deviceRepo, userRepo, audit),
		suppliers:     NewSupplierService(gate, supplierRepo, audit),
		software:      NewSoftwareService(gate, softwareRepo, supplierRepo, audit),
		auditQuery:    NewAuditService(gate, auditRepo),
	}
}

// createActor 直接写库创建一个已激活、已验证的用户
func (e *testEnv) createActor(t *testing.T, username string, staff bool) *policy.Actor {
	t.Helper()
	u := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  "x",
		Gender:        models.GenderNone,
		IsActive:      true,
		IsStaff:       staff,
		EmailVerified: true,
	}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create actor: %v", err)
	}
	return policy.ActorFromUser(u)
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()
