package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"itam-go/internal/config"
	"itam-go/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

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

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", IsActive: true, EmailVerified: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedDevice(t *testing.T, db *gorm.DB, owner uint, assigned *uint) *models.Device {
	t.Helper()
	d := &models.Device{UserID: owner, Brand: "Dell", Name: "Latitude", SerialNumber: "SN-" + uuid.NewString()[:8], PurchaseDate: date(2024, 1, 10), AssignedToID: assigned}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed device: %v", err)
	}
	return d
}

func seedSoftware(t *testing.T, db *gorm.DB, max int) (*models.Supplier, *models.Software) {
	t.Helper()
	sup := &models.Supplier{Name: "Acme", Telephone: fmt.Sprintf("%d", time.Now().UnixNano())}
	if err := db.Create(sup).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	sw := &models.Software{Name: "Office", Version: "2024", SupplierID: sup.ID, LicenseKey: "KEY", ExpireDate: date(2030, 1, 1), MaxInstallations: max}
	if err := db.Create(sw).Error; err != nil {
		t.Fatalf("seed software: %v", err)
	}
	return sup, sw
}

func TestDeviceIDGenerated(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner")
	a := seedDevice(t, db, owner.ID, nil)
	b := seedDevice(t, db, owner.ID, nil)

	if _, err := uuid.Parse(a.DeviceID); err != nil {
		t.Fatalf("expected uuid device id, got %q", a.DeviceID)
	}
	if a.DeviceID == b.DeviceID {
		t.Fatal("expected distinct device ids")
	}
	if a.Status != models.DeviceActive {
		t.Fatalf("expected default status ACTIVE, got %s", a.Status)
	}
}

func TestDuplicateDeviceIDIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeviceRepository(db)
	owner := seedUser(t, db, "owner")
	d := seedDevice(t, db, owner.ID, nil)

	dup := &models.Device{DeviceID: d.DeviceID, UserID: owner.ID, Brand: "HP", Name: "x", SerialNumber: "y", PurchaseDate: date(2024, 1, 1)}
	if err := repo.Create(context.Background(), dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestDepartmentDeleteNullifiesUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDepartmentRepository(db)

	dept := &models.Department{Name: "IT"}
	if err := repo.Create(ctx, dept); err != nil {
		t.Fatalf("create: %v", err)
	}
	u := seedUser(t, db, "alice")
	if err := db.Model(u).Update("department_id", dept.ID).Error; err != nil {
		t.Fatalf("link: %v", err)
	}

	if err := repo.Delete(ctx, dept.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, u.ID).Error; err != nil {
		t.Fatalf("user should survive department deletion: %v", err)
	}
	if reloaded.DepartmentID != nil {
		t.Fatalf("expected department to be cleared, got %v", *reloaded.DepartmentID)
	}

	if err := repo.Delete(ctx, dept.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUserDeleteCascadesAndNullifies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")

	owned := seedDevice(t, db, owner.ID, nil)
	assigned := seedDevice(t, db, other.ID, &owner.ID)

	ownedWork := &models.MaintenanceIntervention{DeviceID: owned.DeviceID, Description: "fan", DateIntervention: date(2024, 2, 1), TechnicianID: &other.ID}
	otherWork := &models.MaintenanceIntervention{DeviceID: assigned.DeviceID, Description: "disk", DateIntervention: date(2024, 2, 2), TechnicianID: &owner.ID}
	if err := db.Create(ownedWork).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(otherWork).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, sw := seedSoftware(t, db, 5)
	if err := db.Create(&models.Installation{SoftwareID: sw.ID, DeviceID: owned.DeviceID}).Error; err != nil {
		t.Fatalf("seed install: %v", err)
	}

	if err := users.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&models.Device{}).Where("device_id = ?", owned.DeviceID).Count(&count)
	if count != 0 {
		t.Fatal("owned device should be deleted")
	}
	db.Model(&models.MaintenanceIntervention{}).Where("id = ?", ownedWork.ID).Count(&count)
	if count != 0 {
		t.Fatal("intervention on owned device should be deleted")
	}
	db.Model(&models.Installation{}).Where("device_id = ?", owned.DeviceID).Count(&count)
	if count != 0 {
		t.Fatal("installations on owned device should be deleted")
	}

	var d models.Device
	if err := db.First(&d, "device_id = ?", assigned.DeviceID).Error; err != nil {
		t.Fatalf("assigned device should survive: %v", err)
	}
	if d.AssignedToID != nil {
		t.Fatal("assigned_to should be cleared")
	}

	var it models.MaintenanceIntervention
	if err := db.First(&it, otherWork.ID).Error; err != nil {
		t.Fatalf("intervention should survive: %v", err)
	}
	if it.TechnicianID != nil {
		t.Fatal("technician should be cleared")
	}
}

func TestSupplierDeleteCascadesSoftware(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	dev := seedDevice(t, db, owner.ID, nil)
	sup, sw := seedSoftware(t, db, 2)
	if err := db.Create(&models.Installation{SoftwareID: sw.ID, DeviceID: dev.DeviceID}).Error; err != nil {
		t.Fatalf("seed install: %v", err)
	}

	if err := NewSupplierRepository(db).Delete(ctx, sup.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&models.Software{}).Where("supplier_id = ?", sup.ID).Count(&count)
	if count != 0 {
		t.Fatal("software should be deleted with supplier")
	}
	db.Model(&models.Installation{}).Where("software_id = ?", sw.ID).Count(&count)
	if count != 0 {
		t.Fatal("installations should be deleted with supplier")
	}
	db.Model(&models.Device{}).Where("device_id = ?", dev.DeviceID).Count(&count)
	if count != 1 {
		t.Fatal("device must not be touched")
	}
}

func TestDeviceDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	dev := seedDevice(t, db, owner.ID, nil)
	_, sw := seedSoftware(t, db, 2)
	db.Create(&models.Installation{SoftwareID: sw.ID, DeviceID: dev.DeviceID})
	db.Create(&models.MaintenanceIntervention{DeviceID: dev.DeviceID, Description: "x", DateIntervention: date(2024, 3, 3)})

	repo := NewDeviceRepository(db)
	if err := repo.Delete(ctx, dev.DeviceID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&models.MaintenanceIntervention{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected interventions removed, got %d", count)
	}
	db.Model(&models.Installation{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected installations removed, got %d", count)
	}
	if err := repo.Delete(ctx, dev.DeviceID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInstallRespectsCapacity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSoftwareRepository(db)
	owner := seedUser(t, db, "owner")
	_, sw := seedSoftware(t, db, 2)
	d1 := seedDevice(t, db, owner.ID, nil)
	d2 := seedDevice(t, db, owner.ID, nil)
	d3 := seedDevice(t, db, owner.ID, nil)

	for _, d := range []*models.Device{d1, d2} {
		if _, err := repo.Install(ctx, sw.ID, d.DeviceID); err != nil {
			t.Fatalf("install: %v", err)
		}
	}

	if _, err := repo.Install(ctx, sw.ID, d3.DeviceID); !errors.Is(err, ErrInstallLimitReached) {
		t.Fatalf("expected ErrInstallLimitReached, got %v", err)
	}

	// 重复安装不占名额, 即使已满
	already, err := repo.Install(ctx, sw.ID, d1.DeviceID)
	if err != nil || !already {
		t.Fatalf("expected idempotent reinstall, got already=%v err=%v", already, err)
	}

	got, err := repo.Get(ctx, sw.ID, SoftwareFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.InstalledOn) != 2 {
		t.Fatalf("expected 2 installations, got %v", got.InstalledOn)
	}
}

func TestInstallMissingTargets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSoftwareRepository(db)
	owner := seedUser(t, db, "owner")
	_, sw := seedSoftware(t, db, 1)
	d := seedDevice(t, db, owner.ID, nil)

	if _, err := repo.Install(ctx, sw.ID, uuid.NewString()); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if _, err := repo.Install(ctx, sw.ID+100, d.DeviceID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestConcurrentInstallNeverExceedsCap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSoftwareRepository(db)
	owner := seedUser(t, db, "owner")
	_, sw := seedSoftware(t, db, 3)

	const workers = 12
	devices := make([]*models.Device, workers)
	for i := range devices {
		devices[i] = seedDevice(t, db, owner.ID, nil)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(d *models.Device) {
			defer wg.Done()
			_, err := repo.Install(ctx, sw.ID, d.DeviceID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInstallLimitReached):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(devices[i])
	}
	wg.Wait()

	if succeeded != 3 || rejected != workers-3 {
		t.Fatalf("expected 3 successes and %d rejections, got %d/%d", workers-3, succeeded, rejected)
	}
	count, err := repo.CountInstallations(ctx, sw.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 installations, got %d", count)
	}
}

func TestUninstall(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSoftwareRepository(db)
	owner := seedUser(t, db, "owner")
	_, sw := seedSoftware(t, db, 1)
	d := seedDevice(t, db, owner.ID, nil)

	if _, err := repo.Install(ctx, sw.ID, d.DeviceID); err != nil {
		t.Fatalf("install: %v", err)
	}
	removed, err := repo.Uninstall(ctx, sw.ID, d.DeviceID)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = repo.Uninstall(ctx, sw.ID, d.DeviceID)
	if err != nil || removed {
		t.Fatalf("expected no-op, got removed=%v err=%v", removed, err)
	}
}

func TestScopedLists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	aliceDev := seedDevice(t, db, bob.ID, &alice.ID)
	bobDev := seedDevice(t, db, bob.ID, &bob.ID)
	_ = seedDevice(t, db, bob.ID, nil)

	devices := NewDeviceRepository(db)
	all, err := devices.List(ctx, DeviceFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 devices, got %d (%v)", len(all), err)
	}
	mine, err := devices.List(ctx, DeviceFilter{AssignedToID: &alice.ID})
	if err != nil || len(mine) != 1 || mine[0].DeviceID != aliceDev.DeviceID {
		t.Fatalf("expected only alice's device, got %+v (%v)", mine, err)
	}
	if _, err := devices.Get(ctx, bobDev.DeviceID, DeviceFilter{AssignedToID: &alice.ID}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected bob's device hidden from alice, got %v", err)
	}

	_, visible := seedSoftware(t, db, 5)
	_, hidden := seedSoftware(t, db, 5)
	softwares := NewSoftwareRepository(db)
	if _, err := softwares.Install(ctx, visible.ID, aliceDev.DeviceID); err != nil {
		t.Fatalf("install: %v", err)
	}
	if _, err := softwares.Install(ctx, hidden.ID, bobDev.DeviceID); err != nil {
		t.Fatalf("install: %v", err)
	}
	list, err := softwares.List(ctx, SoftwareFilter{AssignedToID: &alice.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != visible.ID {
		t.Fatalf("expected only visible software, got %+v", list)
	}

	usersList, err := NewUserRepository(db).List(ctx, UserFilter{ID: &alice.ID})
	if err != nil || len(usersList) != 1 || usersList[0].ID != alice.ID {
		t.Fatalf("expected only alice, got %+v (%v)", usersList, err)
	}
}

func TestDuplicateTelephoneIsConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	phone := "3331234567"

	first := &models.User{Username: "a", PasswordHash: "x", Telephone: &phone}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &models.User{Username: "b", PasswordHash: "x", Telephone: &phone}
	if err := repo.Create(ctx, second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	// 未设置电话的用户可以有多个
	for _, name := range []string{"c", "d"} {
		if err := repo.Create(ctx, &models.User{Username: name, PasswordHash: "x"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
}
