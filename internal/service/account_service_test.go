package service

import (
	"context"
	"errors"
	"testing"

	"warden/internal/entity"
	"warden/internal/entity/dto"
	"warden/internal/xe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAccount(t *testing.T) {
	ctx := context.Background()
	core, _ := newTestCore(t)
	svc := NewAccountService(core)

	account, err := svc.AddAccount(ctx, entity.SuperAdminAccountID, dto.AccountCreateRequest{
		UserName: "  alice ",
		Password: "secret-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", account.UserName)
	assert.Equal(t, entity.AccountStatusEnabled, account.Status)
	assert.NotEqual(t, "secret-123", account.PasswordHash)
	assert.Equal(t, entity.SuperAdminAccountID, account.CreateID)
	assert.Equal(t, testNow, account.CreateTime)

	tests := []struct {
		name string
		req  dto.AccountCreateRequest
		kind error
		key  string
	}{
		{"登录名重复", dto.AccountCreateRequest{UserName: "alice", Password: "secret-123"}, xe.ErrConflict, xe.KeyUserNameExists},
		{"登录名为空", dto.AccountCreateRequest{UserName: "  ", Password: "secret-123"}, xe.ErrValidation, xe.KeyUserNameBlank},
		{"密码为空", dto.AccountCreateRequest{UserName: "bob", Password: ""}, xe.ErrValidation, xe.KeyPasswordBlank},
		{"不能直接创建注销账户", dto.AccountCreateRequest{UserName: "bob", Password: "secret-123", Status: intPtr(entity.AccountStatusDeregistered)}, xe.ErrValidation, xe.KeyDataIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAccount(ctx, entity.SuperAdminAccountID, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.key, xe.KeyOf(err))
		})
	}
}

func TestAddAccountRequiresPermission(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	createTestAccount(t, repo, 2, "nobody")

	_, err := NewAccountService(core).AddAccount(ctx, 2, dto.AccountCreateRequest{UserName: "bob", Password: "secret-123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, xe.ErrPermissionDenied))
	assert.Equal(t, xe.KeyNoCreatePermission, xe.KeyOf(err))

	exists, err := repo.ExistsAccountUserName(ctx, "bob", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeregisterAccountsSkipsSuperAdmin(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewAccountService(core)
	createTestAccount(t, repo, 2, "alice")
	createTestAccount(t, repo, 3, "bob")

	n, err := svc.DeregisterAccounts(ctx, entity.SuperAdminAccountID, []uint{1, 2, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	admin, err := svc.GetAccount(ctx, entity.SuperAdminAccountID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountStatusEnabled, admin.Status)

	alice, err := svc.GetAccount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountStatusDeregistered, alice.Status)

	_, err = svc.DeregisterAccounts(ctx, entity.SuperAdminAccountID, []uint{entity.SuperAdminAccountID})
	assert.True(t, errors.Is(err, xe.ErrValidation))
	assert.Equal(t, xe.KeyNoDataNeedDelete, xe.KeyOf(err))

	_, err = svc.DeregisterAccounts(ctx, entity.SuperAdminAccountID, nil)
	assert.True(t, errors.Is(err, xe.ErrValidation))
}

func TestUpdateAccounts(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewAccountService(core)
	createTestAccount(t, repo, 2, "alice")
	createTestAccount(t, repo, 3, "bob")

	n, err := svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{
		{ID: 2, UserName: strPtr("alice2"), Status: intPtr(entity.AccountStatusLocked)},
		{ID: 2, UserName: strPtr("ignored")},
		{ID: entity.SuperAdminAccountID, Status: intPtr(entity.AccountStatusDisabled)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	alice, err := svc.GetAccount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "alice2", alice.UserName)
	assert.Equal(t, entity.AccountStatusLocked, alice.Status)

	admin, err := svc.GetAccount(ctx, entity.SuperAdminAccountID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountStatusEnabled, admin.Status)

	t.Run("部分不存在时整批拒绝", func(t *testing.T) {
		_, err := svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{
			{ID: 3, Status: intPtr(entity.AccountStatusLocked)},
			{ID: 9999, Status: intPtr(entity.AccountStatusLocked)},
		})
		assert.True(t, errors.Is(err, xe.ErrValidation))
		assert.Equal(t, xe.KeyNoDataNeedUpdate, xe.KeyOf(err))

		bob, err := svc.GetAccount(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountStatusEnabled, bob.Status)
	})
	t.Run("登录名与他人冲突", func(t *testing.T) {
		_, err := svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{{ID: 3, UserName: strPtr("alice2")}})
		assert.True(t, errors.Is(err, xe.ErrConflict))
	})
	t.Run("全部不存在", func(t *testing.T) {
		_, err := svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{{ID: 99, Status: intPtr(entity.AccountStatusLocked)}})
		assert.True(t, errors.Is(err, xe.ErrNotFound))
	})
	t.Run("注销后不能恢复", func(t *testing.T) {
		_, err := svc.DeregisterAccounts(ctx, entity.SuperAdminAccountID, []uint{3})
		require.NoError(t, err)
		_, err = svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{{ID: 3, Status: intPtr(entity.AccountStatusEnabled)}})
		assert.True(t, errors.Is(err, xe.ErrValidation))
		assert.Equal(t, xe.KeyStatusInvalid, xe.KeyOf(err))
	})
	t.Run("没有可修改字段", func(t *testing.T) {
		_, err := svc.UpdateAccounts(ctx, entity.SuperAdminAccountID, []dto.AccountUpdateRequest{{ID: 2}})
		assert.True(t, errors.Is(err, xe.ErrValidation))
	})
}

func TestQueryAccounts(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	createTestAccount(t, repo, 2, "alice")
	createTestAccount(t, repo, 3, "alina")
	createTestAccount(t, repo, 4, "bob")

	accounts, meta, err := NewAccountService(core).QueryAccounts(ctx, entity.SuperAdminAccountID, &entity.AccountQuery{UserName: "ali"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)
	require.Len(t, accounts, 2)
	assert.Equal(t, uint(3), accounts[0].ID)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewAccountService(core)

	account, err := svc.Authenticate(ctx, "admin", testAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, entity.SuperAdminAccountID, account.ID)

	_, err = svc.Authenticate(ctx, "admin", "wrong-password")
	assert.True(t, errors.Is(err, xe.ErrUnauthenticated))
	assert.Equal(t, xe.KeyInvalidCredentials, xe.KeyOf(err))

	_, err = svc.Authenticate(ctx, "ghost", "whatever")
	assert.Equal(t, xe.KeyInvalidCredentials, xe.KeyOf(err))

	t.Run("旧 MD5 密码登录后升级", func(t *testing.T) {
		err := repo.CreateAccount(ctx, &entity.Account{
			ID:           5,
			UserName:     "legacy",
			PasswordHash: "e10adc3949ba59abbe56e057f20f883e",
			Status:       entity.AccountStatusEnabled,
			Audit:        testStamp().Audit(),
		})
		require.NoError(t, err)

		account, err := svc.Authenticate(ctx, "legacy", "123456")
		require.NoError(t, err)
		stored, err := repo.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "e10adc3949ba59abbe56e057f20f883e", stored.PasswordHash)

		_, err = svc.Authenticate(ctx, "legacy", "123456")
		require.NoError(t, err)
	})

	t.Run("锁定账户不能登录", func(t *testing.T) {
		_, err := svc.AddAccount(ctx, entity.SuperAdminAccountID, dto.AccountCreateRequest{
			UserName: "locked",
			Password: "secret-123",
			Status:   intPtr(entity.AccountStatusLocked),
		})
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, "locked", "secret-123")
		assert.Equal(t, xe.KeyAccountDisabled, xe.KeyOf(err))
	})
}
