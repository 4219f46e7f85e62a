package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itam-go/internal/apperr"
	"itam-go/internal/config"
	"itam-go/internal/metrics"
	"itam-go/internal/models"
	"itam-go/internal/repository"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type envelope struct {
	Code    int             `json:"code"`
	Kind    apperr.Kind     `json:"kind"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		},
		JWT:     config.JWTConfig{SecretKey: "test-secret", Algorithm: "HS256", ExpireMinutes: 60},
		Admin:   config.AdminConfig{Username: "admin", Password: "admin-password", Email: "admin@itam.local"},
		CORS:    config.CORSConfig{Origins: []string{"http://localhost:3000"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	db, err := models.OpenDB(cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = models.Close(db) })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())
	auth := service.NewAuthService(repository.NewUserRepository(db), repository.NewDepartmentRepository(db), jwtManager, cfg)
	if err := auth.InitAdmin(context.Background()); err != nil {
		t.Fatalf("init admin: %v", err)
	}

	return &testServer{t: t, engine: SetupRouter(cfg, jwtManager, logger, db, metrics.New())}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				s.t.Fatalf("marshal: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

// must 请求必须成功并解析 data
func (s *testServer) must(method, path, token string, body, out interface{}) envelope {
	s.t.Helper()
	code, env := s.do(method, path, token, body)
	if code != http.StatusOK {
		s.t.Fatalf("%s %s: status = %d, body = %+v", method, path, code, env)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	s.must(http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password}, &resp)
	if resp.AccessToken == "" {
		s.t.Fatalf("empty token for %s", username)
	}
	return resp.AccessToken
}

// verifiedUser 注册普通用户并由管理员完成邮箱验证
func (s *testServer) verifiedUser(adminToken, username string) (uint, string) {
	s.t.Helper()
	var user struct {
		ID uint `json:"id"`
	}
	s.must(http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "password123",
		"email":    username + "@example.com",
	}, &user)
	s.must(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), adminToken, map[string]bool{"email_verified": true}, nil)
	return user.ID, s.login(username, "password123")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/devices", "", nil)
	if code != http.StatusUnauthorized || env.Kind != apperr.KindUnauthorized {
		t.Fatalf("no token: status = %d, kind = %q", code, env.Kind)
	}

	code, _ = s.do(http.MethodGet, "/api/devices", "not-a-token", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", code)
	}

	code, env = s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "wrong"})
	if code != http.StatusUnauthorized || env.Message != "Invalid username or password." {
		t.Fatalf("wrong password: status = %d, message = %q", code, env.Message)
	}

	adminToken := s.login("admin", "admin-password")
	var me struct {
		Username string `json:"username"`
		IsStaff  bool   `json:"is_staff"`
	}
	s.must(http.MethodGet, "/api/me", adminToken, nil, &me)
	if me.Username != "admin" || !me.IsStaff {
		t.Fatalf("me = %+v", me)
	}
}

func TestUnverifiedUserIsRejected(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", "admin-password")

	var user struct {
		ID            uint `json:"id"`
		EmailVerified bool `json:"email_verified"`
	}
	s.must(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice",
		"password": "password123",
		"email":    "alice@example.com",
	}, &user)
	if user.EmailVerified {
		t.Fatal("registered user should start unverified")
	}

	token := s.login("alice", "password123")
	s.must(http.MethodGet, "/api/me", token, nil, nil)

	if code, _ := s.do(http.MethodGet, "/api/devices", token, nil); code != http.StatusUnauthorized {
		t.Fatalf("unverified list: status = %d, want 401", code)
	}

	s.must(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), adminToken, map[string]bool{"email_verified": true}, nil)
	s.must(http.MethodGet, "/api/devices", token, nil, nil)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", "admin-password")

	code, env := s.do(http.MethodPost, "/api/departments", adminToken, "{not json")
	if code != http.StatusBadRequest || env.Kind != apperr.KindValidation {
		t.Fatalf("malformed: status = %d, kind = %q", code, env.Kind)
	}

	code, env = s.do(http.MethodPost, "/api/departments", adminToken, map[string]string{})
	if code != http.StatusBadRequest || env.Message != "name is required." {
		t.Fatalf("missing name: status = %d, message = %q", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/suppliers", adminToken, map[string]string{"name": "Acme", "telephone": "12-34"})
	if code != http.StatusBadRequest || env.Kind != apperr.KindValidation {
		t.Fatalf("bad telephone: status = %d, kind = %q", code, env.Kind)
	}

	code, _ = s.do(http.MethodGet, "/api/departments/abc", adminToken, nil)
	if code != http.StatusNotFound {
		t.Fatalf("bad id: status = %d, want 404", code)
	}
}

func TestAssetWorkflow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", "admin-password")
	aliceID, aliceToken := s.verifiedUser(adminToken, "alice")
	_, bobToken := s.verifiedUser(adminToken, "bob")

	today := time.Now().Format("2006-01-02")

	var device struct {
		DeviceID   string `json:"device_id"`
		Status     string `json:"status"`
		AssignedTo *uint  `json:"assigned_to"`
	}
	s.must(http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"user":          aliceID,
		"brand":         "Dell",
		"name":          "Latitude",
		"serial_number": "SN-1",
		"purchase_date": today,
	}, &device)
	if device.DeviceID == "" || device.Status != "ACTIVE" {
		t.Fatalf("device = %+v", device)
	}

	// 非管理员不能分配设备
	code, env := s.do(http.MethodPost, "/api/devices/"+device.DeviceID+"/assign", aliceToken, map[string]uint{"user_id": aliceID})
	if code != http.StatusForbidden || env.Kind != apperr.KindForbidden {
		t.Fatalf("assign by user: status = %d, kind = %q", code, env.Kind)
	}

	code, env = s.do(http.MethodPost, "/api/devices/"+device.DeviceID+"/assign", adminToken, nil)
	if code != http.StatusBadRequest || env.Message != "User ID is required." {
		t.Fatalf("assign without user: status = %d, message = %q", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/devices/"+device.DeviceID+"/assign", adminToken, map[string]uint{"user_id": 9999})
	if code != http.StatusNotFound || env.Message != "User does not exist." {
		t.Fatalf("assign unknown user: status = %d, message = %q", code, env.Message)
	}

	// user_id 也接受数字字符串
	env = s.must(http.MethodPost, "/api/devices/"+device.DeviceID+"/assign", adminToken, map[string]string{"user_id": fmt.Sprint(aliceID)}, nil)
	if env.Message != "Device assigned successfully." {
		t.Fatalf("assign message = %q", env.Message)
	}

	// 分配后 alice 能看到设备, bob 看不到
	var aliceDevices []map[string]interface{}
	s.must(http.MethodGet, "/api/devices", aliceToken, nil, &aliceDevices)
	if len(aliceDevices) != 1 {
		t.Fatalf("alice sees %d devices, want 1", len(aliceDevices))
	}
	if code, _ := s.do(http.MethodGet, "/api/devices/"+device.DeviceID, bobToken, nil); code != http.StatusNotFound {
		t.Fatalf("bob retrieve: status = %d, want 404", code)
	}

	var supplier struct {
		ID uint `json:"id"`
	}
	s.must(http.MethodPost, "/api/suppliers", adminToken, map[string]string{"name": "Acme", "telephone": "5550100"}, &supplier)

	var software struct {
		ID uint `json:"id"`
	}
	s.must(http.MethodPost, "/api/software", adminToken, map[string]interface{}{
		"name":              "Office",
		"version":           "2024",
		"supplier":          supplier.ID,
		"license_key":       "KEY-1",
		"expire_date":       today,
		"max_installations": 1,
	}, &software)

	installPath := fmt.Sprintf("/api/software/%d/install", software.ID)

	code, _ = s.do(http.MethodPost, installPath, aliceToken, map[string]string{"device_id": device.DeviceID})
	if code != http.StatusForbidden {
		t.Fatalf("install by user: status = %d, want 403", code)
	}

	env = s.must(http.MethodPost, installPath, adminToken, map[string]string{"device_id": device.DeviceID}, nil)
	if env.Message != "Software installed on device successfully." {
		t.Fatalf("install message = %q", env.Message)
	}

	var second struct {
		DeviceID string `json:"device_id"`
	}
	s.must(http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"user":          aliceID,
		"brand":         "HP",
		"name":          "EliteBook",
		"serial_number": "SN-2",
		"purchase_date": today,
	}, &second)

	code, env = s.do(http.MethodPost, installPath, adminToken, map[string]string{"device_id": second.DeviceID})
	if code != http.StatusBadRequest || env.Kind != apperr.KindCapacityExceeded || env.Message != "Maximum number of installations reached." {
		t.Fatalf("over cap: status = %d, kind = %q, message = %q", code, env.Kind, env.Message)
	}

	code, env = s.do(http.MethodPost, installPath, adminToken, map[string]string{"device_id": "missing"})
	if code != http.StatusNotFound || env.Message != "Device does not exist." {
		t.Fatalf("unknown device: status = %d, message = %q", code, env.Message)
	}

	var installed struct {
		InstalledOn []string `json:"installed_on"`
	}
	s.must(http.MethodGet, fmt.Sprintf("/api/software/%d", software.ID), aliceToken, nil, &installed)
	if len(installed.InstalledOn) != 1 || installed.InstalledOn[0] != device.DeviceID {
		t.Fatalf("installed_on = %v", installed.InstalledOn)
	}

	s.must(http.MethodPost, fmt.Sprintf("/api/software/%d/uninstall", software.ID), adminToken, map[string]string{"device_id": device.DeviceID}, nil)
	s.must(http.MethodPost, installPath, adminToken, map[string]string{"device_id": second.DeviceID}, nil)

	// assigned_to 为 null 时取消分配
	var cleared struct {
		AssignedTo *uint `json:"assigned_to"`
	}
	s.must(http.MethodPatch, "/api/devices/"+device.DeviceID, adminToken, `{"assigned_to": null}`, &cleared)
	if cleared.AssignedTo != nil {
		t.Fatalf("assigned_to = %d, want null", *cleared.AssignedTo)
	}
	s.must(http.MethodGet, "/api/devices", aliceToken, nil, &aliceDevices)
	if len(aliceDevices) != 0 {
		t.Fatalf("alice sees %d devices after unassign, want 0", len(aliceDevices))
	}
}

func TestUserActivation(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", "admin-password")
	aliceID, aliceToken := s.verifiedUser(adminToken, "alice")

	s.must(http.MethodDelete, fmt.Sprintf("/api/users/%d", aliceID), adminToken, nil, nil)

	if code, _ := s.do(http.MethodGet, "/api/devices", aliceToken, nil); code != http.StatusUnauthorized {
		t.Fatalf("deactivated user: status = %d, want 401", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "password123"}); code != http.StatusUnauthorized {
		t.Fatalf("deactivated login: status = %d, want 401", code)
	}

	env := s.must(http.MethodPost, fmt.Sprintf("/api/users/%d/activate", aliceID), adminToken, nil, nil)
	if env.Message != "User activated successfully." {
		t.Fatalf("activate message = %q", env.Message)
	}
	s.must(http.MethodGet, "/api/devices", aliceToken, nil, nil)
}

func TestAuditAndMetrics(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", "admin-password")
	_, aliceToken := s.verifiedUser(adminToken, "alice")

	s.must(http.MethodPost, "/api/departments", adminToken, map[string]string{"name": "IT"}, nil)

	var logs []struct {
		Action     string `json:"action"`
		EntityType string `json:"entity_type"`
	}
	s.must(http.MethodGet, "/api/audit?limit=10", adminToken, nil, &logs)
	found := false
	for _, l := range logs {
		if l.Action == "create" && l.EntityType == "department" {
			found = true
		}
	}
	if !found {
		t.Fatalf("department create not audited: %+v", logs)
	}

	if code, _ := s.do(http.MethodGet, "/api/audit", aliceToken, nil); code != http.StatusForbidden {
		t.Fatalf("audit by user: status = %d, want 403", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"itam_http_requests_total", `route="/api/departments"`, "itam_actions_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
