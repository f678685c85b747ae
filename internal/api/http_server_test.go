package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warden/internal/auth"
	"warden/internal/authz"
	"warden/internal/config"
	"warden/internal/entity/dto"
	"warden/internal/model"
	"warden/internal/model/sql"
	"warden/internal/xe"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const adminPassword = "admin-pass-123"

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := model.OpenGormDB(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&config.Config{DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	require.NoError(t, err)
	require.NoError(t, model.MigrateSchema(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := sql.NewGormRepository(db)
	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "warden-test",
		JWTExpirationMinutes: 60,
		SuperAdminName:       "admin",
		SuperAdminPassword:   adminPassword,
	}
	_, err = model.SeedSuperAdmin(context.Background(), repo, cfg)
	require.NoError(t, err)

	h, err := NewHTTPHandler(cfg, repo, auth.NewLocalSessionStore(100, time.Hour), nil)
	require.NoError(t, err)

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, userName, password string) dto.AuthResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", dto.AuthLoginRequest{UserName: userName, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func createAccount(t *testing.T, r http.Handler, token, userName string) dto.AccountSummary {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/accounts", token, dto.AccountCreateRequest{UserName: userName, Password: "secret-123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var summary dto.AccountSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	return summary
}

func TestLoginAndMe(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", dto.AuthLoginRequest{UserName: "admin", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ErrCodeInvalidCredentials, decodeError(t, w).Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session := login(t, r, "admin", adminPassword)
	assert.Equal(t, uint(1), session.Account.ID)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Account.UserName)
	assert.Equal(t, []string{authz.SuperAdminRoleCode}, me.Roles)
	assert.Len(t, me.Permissions, len(authz.BuiltinPermissions()))
	assert.Contains(t, me.Permissions, authz.CodeAddRole)
}

func TestLogoutRevokesSession(t *testing.T) {
	r := newTestServer(t)
	session := login(t, r, "admin", adminPassword)

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout", session.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ErrCodeSessionExpired, decodeError(t, w).Code)
}

func TestRoutesFollowAssignedRoles(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", adminPassword)
	bob := createAccount(t, r, admin.Token, "bob")
	bobSession := login(t, r, "bob", "secret-123")

	w := doJSON(t, r, http.MethodGet, "/api/roles", bobSession.Token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, ErrCodeForbidden, apiErr.Code)
	assert.Equal(t, xe.KeyNoViewPermission, apiErr.Message)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/accounts/%d", bob.ID), bobSession.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/roles", bobSession.Token, []dto.RoleCreateRequest{{Name: "运维", Code: "OPS"}})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, xe.KeyNoCreatePermission, decodeError(t, w).Message)

	w = doJSON(t, r, http.MethodPut, "/api/links/account-roles", admin.Token, []dto.AccountRolePair{{AccountID: bob.ID, RoleID: 1}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var count dto.CountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)

	// 角色变更无需重新登录即生效
	w = doJSON(t, r, http.MethodGet, "/api/roles", bobSession.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var roles dto.RoleListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	require.Len(t, roles.Roles, 1)
	assert.Equal(t, authz.SuperAdminRoleCode, roles.Roles[0].Code)
	require.NotNil(t, roles.Meta)
	assert.Equal(t, int64(1), roles.Meta.Total)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/accounts/%d/roles", bob.ID), bobSession.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleLifecycleOverHTTP(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", adminPassword)

	w := doJSON(t, r, http.MethodPost, "/api/roles", admin.Token, []dto.RoleCreateRequest{{Name: "运维", Code: "OPS"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.RoleListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Roles, 1)
	roleID := created.Roles[0].ID

	w = doJSON(t, r, http.MethodPost, "/api/roles", admin.Token, []dto.RoleCreateRequest{{Name: "重复", Code: "OPS"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, xe.KeyDuplicateData, decodeError(t, w).Message)

	w = doJSON(t, r, http.MethodPut, "/api/links/role-permissions", admin.Token, []dto.RolePermissionPair{
		{RoleID: roleID, PermissionID: 1},
		{RoleID: roleID, PermissionID: 2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/roles/%d/permissions", roleID), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ids dto.PermissionIDsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.ElementsMatch(t, []uint{1, 2}, ids.PermissionIDs)

	w = doJSON(t, r, http.MethodDelete, "/api/roles", admin.Token, dto.IDsRequest{IDs: []uint{roleID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/roles/%d/permissions", roleID), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Empty(t, ids.PermissionIDs)
}

func TestLockedAccountIsRejected(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", adminPassword)
	bob := createAccount(t, r, admin.Token, "bob")
	bobSession := login(t, r, "bob", "secret-123")

	locked := 0
	w := doJSON(t, r, http.MethodPatch, "/api/accounts", admin.Token, []dto.AccountUpdateRequest{{ID: bob.ID, Status: &locked}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", bobSession.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, ErrCodeAccountDisabled, decodeError(t, w).Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", dto.AuthLoginRequest{UserName: "bob", Password: "secret-123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, ErrCodeAccountDisabled, decodeError(t, w).Code)
}

func TestInvalidRequests(t *testing.T) {
	r := newTestServer(t)
	admin := login(t, r, "admin", adminPassword)

	w := doJSON(t, r, http.MethodGet, "/api/accounts/abc", admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/accounts/99/user", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/accounts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
