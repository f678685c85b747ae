package service

import (
	"context"
	"errors"
	"testing"

	"warden/internal/authz"
	"warden/internal/entity/dto"
	"warden/internal/model/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// allowAll 对任何账户返回给定的权限码，用于绕开存储做门禁判断。
type allowAll struct {
	codes []string
}

func (a allowAll) ResolveRoleCodes(context.Context, uint) ([]string, error) {
	return []string{authz.SuperAdminRoleCode}, nil
}

func (a allowAll) ResolvePermissionCodes(context.Context, uint) ([]string, error) {
	return a.codes, nil
}

func newMockCore(t *testing.T) (*Core, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	core := NewCore(sql.NewGormRepository(db, sql.WithRowLocking(true)), nil)
	core.Gate = authz.NewGate(allowAll{codes: []string{
		authz.CodeAddAccountRole, authz.CodeDeleteAccountRole,
		authz.CodeAddRolePermission, authz.CodeDeleteRolePermission,
	}}, nil)
	return core, mock
}

func TestAssignRolesLocksAccountsAndRollsBackOnDeleteFailure(t *testing.T) {
	core, mock := newMockCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `account` WHERE id IN .* FOR UPDATE").
		WithArgs(2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(3))
	mock.ExpectExec("DELETE FROM `account_role_link`").
		WillReturnError(errors.New("lock wait timeout exceeded"))
	mock.ExpectRollback()

	_, err := NewAssignmentCoordinator(core).AssignRolesToAccounts(context.Background(), 50, []dto.AccountRolePair{
		{AccountID: 2, RoleID: 10},
		{AccountID: 3, RoleID: 20},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock wait timeout")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignPermissionsLocksRolesAndRollsBackOnInsertFailure(t *testing.T) {
	core, mock := newMockCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `role` WHERE id IN .* FOR UPDATE").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec("DELETE FROM `role_permission_link`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `role_permission_link`").
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	_, err := NewAssignmentCoordinator(core).AssignPermissionsToRoles(context.Background(), 50, []dto.RolePermissionPair{
		{RoleID: 10, PermissionID: 100},
		{RoleID: 10, PermissionID: 101},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
