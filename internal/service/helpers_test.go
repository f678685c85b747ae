package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"warden/internal/config"
	"warden/internal/entity"
	"warden/internal/model"
	"warden/internal/model/sql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

var testNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

const testAdminPassword = "admin-pass-123"

// newTestCore 创建独立的内存 SQLite 库，完成迁移并初始化超级管理员。
func newTestCore(t *testing.T) (*Core, *sql.GormRepository) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	cfg := &config.Config{DBMaxOpenConns: 1, DBMaxIdleConns: 1}

	db, err := model.OpenGormDB(sqlite.Open(dsn), cfg)
	require.NoError(t, err)
	require.NoError(t, model.MigrateSchema(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := sql.NewGormRepository(db)
	_, err = model.SeedSuperAdmin(context.Background(), repo, config.Config{
		SuperAdminName:     "admin",
		SuperAdminPassword: testAdminPassword,
	})
	require.NoError(t, err)

	core := NewCore(repo, nil)
	core.SetClock(func() time.Time { return testNow })
	return core, repo
}

func testStamp() entity.Stamp {
	return entity.NewStamp(entity.SuperAdminAccountID, testNow)
}

func createTestAccount(t *testing.T, repo *sql.GormRepository, id uint, name string) {
	t.Helper()
	err := repo.CreateAccount(context.Background(), &entity.Account{
		ID:           id,
		UserName:     name,
		PasswordHash: "unused",
		Status:       entity.AccountStatusEnabled,
		Audit:        testStamp().Audit(),
	})
	require.NoError(t, err)
}

func createTestRole(t *testing.T, repo *sql.GormRepository, id uint, code string) {
	t.Helper()
	_, err := repo.CreateRoles(context.Background(), []entity.Role{{
		ID:     id,
		Name:   code,
		Code:   code,
		Status: entity.StatusNormal,
		Audit:  testStamp().Audit(),
	}})
	require.NoError(t, err)
}

func createTestPermission(t *testing.T, repo *sql.GormRepository, id uint, code string) {
	t.Helper()
	_, err := repo.CreatePermissions(context.Background(), []entity.Permission{{
		ID:     id,
		Name:   code,
		Code:   code,
		Status: entity.StatusNormal,
		Audit:  testStamp().Audit(),
	}})
	require.NoError(t, err)
}

func linkTestRolePermissions(t *testing.T, repo *sql.GormRepository, roleID uint, permissionIDs ...uint) {
	t.Helper()
	links := make([]entity.RolePermissionLink, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		links = append(links, entity.RolePermissionLink{RoleID: roleID, PermissionID: id, Audit: testStamp().Audit()})
	}
	_, err := repo.CreateRolePermissionLinks(context.Background(), links)
	require.NoError(t, err)
}

func linkTestAccountRoles(t *testing.T, repo *sql.GormRepository, accountID uint, roleIDs ...uint) {
	t.Helper()
	links := make([]entity.AccountRoleLink, 0, len(roleIDs))
	for _, id := range roleIDs {
		links = append(links, entity.AccountRoleLink{AccountID: accountID, RoleID: id, Audit: testStamp().Audit()})
	}
	_, err := repo.CreateAccountRoleLinks(context.Background(), links)
	require.NoError(t, err)
}

// superAdminRoleID 返回初始化生成的超级管理员角色 ID。
func superAdminRoleID(t *testing.T, repo *sql.GormRepository) uint {
	t.Helper()
	roles, err := repo.FindAccountRoleLinksByAccountIDs(context.Background(), []uint{entity.SuperAdminAccountID})
	require.NoError(t, err)
	require.NotEmpty(t, roles)
	return roles[0].RoleID
}

// newOperator 创建一个持有超级管理员角色的普通账户，作为测试中的操作人。
func newOperator(t *testing.T, repo *sql.GormRepository, id uint) uint {
	t.Helper()
	createTestAccount(t, repo, id, fmt.Sprintf("operator-%d", id))
	linkTestAccountRoles(t, repo, id, superAdminRoleID(t, repo))
	return id
}

func accountRoleSnapshot(t *testing.T, repo *sql.GormRepository) []entity.AccountRoleLink {
	t.Helper()
	var links []entity.AccountRoleLink
	require.NoError(t, repo.DB().Order("id ASC").Find(&links).Error)
	return links
}

func rolePermissionSnapshot(t *testing.T, repo *sql.GormRepository) []entity.RolePermissionLink {
	t.Helper()
	var links []entity.RolePermissionLink
	require.NoError(t, repo.DB().Order("id ASC").Find(&links).Error)
	return links
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
