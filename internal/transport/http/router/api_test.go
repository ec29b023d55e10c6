package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"court-admin/internal/core/auth"
	"court-admin/internal/core/database"
	"court-admin/internal/repo"
	"court-admin/internal/service"
	"court-admin/pkg/utils"
)

// 测试里降低 bcrypt 成本
func init() { utils.BcryptCost = bcrypt.MinCost }

type apiClient struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:api_" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	l := zaptest.NewLogger(t)
	j := auth.NewTokens("test-secret", "test", time.Hour)
	svc := service.New(repo.NewRepositories(db), j, nil, time.Minute, l)
	_, err = service.Bootstrap(context.Background(), svc.Users, service.SeedAdmin{
		Username: "admin", Password: "admin123", Name: "Administrator",
	}, l)
	require.NoError(t, err)

	return &apiClient{t: t, r: NewAPIEngine(l, svc, Options{Mode: gin.TestMode})}
}

func (a *apiClient) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req)
}

func (a *apiClient) send(req *http.Request) (int, map[string]any) {
	a.t.Helper()
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	out := map[string]any{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (a *apiClient) login() {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(a.t, http.StatusOK, code, body)
	a.token = body["token"].(string)
}

func idOf(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	require.True(t, ok, body)
	return obj["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)

	code, body := a.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, body = a.do(http.MethodGet, "/api/courts/all", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", body["message"])

	code, _ = a.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = a.do(http.MethodPost, "/api/auth/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	a.login()
	code, body = a.do(http.MethodGet, "/api/auth/verify", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["user"].(map[string]any)["username"])

	code, body = a.do(http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestCourtAndStaffLifecycle(t *testing.T) {
	a := newAPI(t)
	a.login()

	code, body := a.do(http.MethodPost, "/api/courts/circuit", gin.H{"name": "Circuit A"})
	require.Equal(t, http.StatusCreated, code, body)
	circuitID := idOf(t, body, "court")

	code, _ = a.do(http.MethodPost, "/api/courts/magisterial", gin.H{"name": "Mag"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(http.MethodPost, "/api/courts/magisterial", gin.H{"name": "Mag", "circuitCourtId": circuitID})
	require.Equal(t, http.StatusCreated, code, body)
	magID := idOf(t, body, "court")

	code, body = a.do(http.MethodPost, "/api/staff/add", gin.H{
		"name": "Jane", "position": "Clerk", "courtId": magID,
		"education": "LLB", "area": "North", "hireDate": "2020-01-15",
	})
	require.Equal(t, http.StatusCreated, code, body)
	staffID := idOf(t, body, "staff")

	code, body = a.do(http.MethodGet, "/api/courts/circuit/"+circuitID+"/magisterial", nil)
	require.Equal(t, http.StatusOK, code)
	courts := body["courts"].([]any)
	require.Len(t, courts, 1)
	assert.EqualValues(t, 1, courts[0].(map[string]any)["staffCount"])

	code, body = a.do(http.MethodGet, "/api/staff/active?courtId=undefined&search=jan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["staff"].([]any), 1)

	code, body = a.do(http.MethodPut, "/api/staff/"+staffID+"/status", gin.H{"status": "on_leave", "leaveStartDate": "2024-02-01"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "on_leave", body["staff"].(map[string]any)["employmentStatus"])

	// 统计接口无需登录
	token := a.token
	a.token = ""
	code, body = a.do(http.MethodGet, "/api/staff/statistics", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["statistics"].(map[string]any)["on_leave"])
	a.token = token

	code, _ = a.do(http.MethodGet, "/api/staff/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodDelete, "/api/courts/department/"+circuitID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = a.do(http.MethodDelete, "/api/courts/circuit/"+circuitID, nil)
	require.Equal(t, http.StatusOK, code, body)
	removed := body["removed"].(map[string]any)
	assert.EqualValues(t, 1, removed["childCourts"])
	assert.EqualValues(t, 1, removed["staffRemoved"])

	code, _ = a.do(http.MethodGet, "/api/staff/"+staffID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = a.do(http.MethodGet, "/api/staff/recycle-bin/all", nil)
	require.Equal(t, http.StatusOK, code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, "court", entry["entityType"])
	assert.Equal(t, "admin", entry["deletedBy"].(map[string]any)["username"])
	entryID := entry["id"].(string)

	code, body = a.do(http.MethodPost, "/api/staff/recycle-bin/restore/"+entryID, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Restored successfully", body["message"])

	code, body = a.do(http.MethodGet, "/api/courts/"+circuitID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Circuit A", body["court"].(map[string]any)["name"])

	code, _ = a.do(http.MethodPost, "/api/staff/recycle-bin/restore/"+entryID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodDelete, "/api/staff/recycle-bin/permanent/bad", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLogoEndpoints(t *testing.T) {
	a := newAPI(t)

	code, body := a.do(http.MethodGet, "/api/settings/logo", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "logo")
	assert.Nil(t, body["logo"])

	a.login()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="logo"; filename="logo.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/settings/logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, body = a.send(req)
	require.Equal(t, http.StatusOK, code, body)
	logo := body["logo"].(string)
	assert.True(t, strings.HasPrefix(logo, "data:image/png;base64,"))

	code, body = a.do(http.MethodPost, "/api/settings/logo", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No logo file provided", body["message"])

	a.token = ""
	code, body = a.do(http.MethodGet, "/api/settings/logo", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, logo, body["logo"])
}

func TestProfile(t *testing.T) {
	a := newAPI(t)
	a.login()

	code, body := a.do(http.MethodGet, "/api/settings/profile", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["user"].(map[string]any)["username"])

	code, body = a.do(http.MethodPut, "/api/settings/profile", gin.H{"name": "Root Admin"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Profile updated successfully", body["message"])
	assert.Equal(t, "Root Admin", body["user"].(map[string]any)["name"])

	code, body = a.do(http.MethodGet, "/api/settings/profile", nil)
	require.Equal(t, http.StatusOK, code)
	u := body["user"].(map[string]any)
	assert.Equal(t, "Root Admin", u["name"])
	assert.NotContains(t, u, "passwordHash")
}
