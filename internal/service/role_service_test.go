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

func TestAddRoles(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewRoleService(core)

	roles, err := svc.AddRoles(ctx, entity.SuperAdminAccountID, []dto.RoleCreateRequest{
		{Name: "管理员", Code: "ADMIN"},
		{Name: "审计员", Code: "AUDITOR"},
	})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.NotZero(t, roles[0].ID)
	assert.Equal(t, entity.StatusNormal, roles[1].Status)

	before, err := repo.ListActiveRoles(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		reqs []dto.RoleCreateRequest
		kind error
		key  string
	}{
		{"空批次", nil, xe.ErrValidation, xe.KeyNoDataNeedCreate},
		{"编码已存在时整批拒绝", []dto.RoleCreateRequest{{Name: "运营", Code: "OPS"}, {Name: "管理员2", Code: "ADMIN"}}, xe.ErrConflict, xe.KeyDuplicateData},
		{"批次内编码重复", []dto.RoleCreateRequest{{Name: "a", Code: "DUP"}, {Name: "b", Code: "DUP"}}, xe.ErrConflict, xe.KeyDuplicateData},
		{"缺少编码", []dto.RoleCreateRequest{{Name: "a", Code: " "}}, xe.ErrValidation, xe.KeyDataIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddRoles(ctx, entity.SuperAdminAccountID, tt.reqs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.key, xe.KeyOf(err))

			after, err := repo.ListActiveRoles(ctx)
			require.NoError(t, err)
			assert.Len(t, after, len(before))
		})
	}
}

func TestDeleteRolesCascadesLinks(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	createTestAccount(t, repo, 2, "alice")
	createTestRole(t, repo, 10, "ADMIN")
	createTestPermission(t, repo, 100, "user:read")
	linkTestRolePermissions(t, repo, 10, 100)
	linkTestAccountRoles(t, repo, 2, 10)

	n, err := NewRoleService(core).DeleteRoles(ctx, entity.SuperAdminAccountID, []uint{10, 10, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	roles, err := repo.FindRolesByIDs(ctx, []uint{10}, false)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, entity.StatusDeleted, roles[0].Status)

	links, err := repo.FindAccountRoleLinksByRoleIDs(ctx, []uint{10})
	require.NoError(t, err)
	assert.Empty(t, links)
	permissionLinks, err := repo.FindRolePermissionLinksByRoleIDs(ctx, []uint{10})
	require.NoError(t, err)
	assert.Empty(t, permissionLinks)

	codes, err := core.Resolver.ResolvePermissionCodes(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, codes)

	// 删除后编码可以被新角色复用
	_, err = NewRoleService(core).AddRoles(ctx, entity.SuperAdminAccountID, []dto.RoleCreateRequest{{Name: "管理员", Code: "ADMIN"}})
	require.NoError(t, err)
}

func TestUpdateRoles(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewRoleService(core)
	createTestRole(t, repo, 10, "ADMIN")
	createTestRole(t, repo, 20, "AUDITOR")

	n, err := svc.UpdateRoles(ctx, entity.SuperAdminAccountID, []dto.RoleUpdateRequest{
		{ID: 10, Name: strPtr("系统管理员"), Code: strPtr("ADMIN")},
		{ID: 10, Name: strPtr("ignored"), Code: strPtr("ADMIN")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	roles, err := repo.FindRolesByIDs(ctx, []uint{10}, true)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "系统管理员", roles[0].Name)

	t.Run("部分不存在时整批回滚", func(t *testing.T) {
		_, err := svc.UpdateRoles(ctx, entity.SuperAdminAccountID, []dto.RoleUpdateRequest{
			{ID: 20, Name: strPtr("renamed")},
			{ID: 9999, Name: strPtr("ghost")},
		})
		assert.True(t, errors.Is(err, xe.ErrConsistency))
		assert.Equal(t, xe.KeyUpdateDataFail, xe.KeyOf(err))

		roles, err := repo.FindRolesByIDs(ctx, []uint{20}, false)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, "AUDITOR", roles[0].Name)
	})

	tests := []struct {
		name string
		reqs []dto.RoleUpdateRequest
		kind error
		key  string
	}{
		{"编码与其他角色冲突", []dto.RoleUpdateRequest{{ID: 20, Code: strPtr("ADMIN")}}, xe.ErrConflict, xe.KeyDuplicateData},
		{"全部不存在", []dto.RoleUpdateRequest{{ID: 99, Name: strPtr("x")}}, xe.ErrNotFound, xe.KeyDataNotFound},
		{"非法状态", []dto.RoleUpdateRequest{{ID: 20, Status: intPtr(3)}}, xe.ErrValidation, xe.KeyDataIncomplete},
		{"空批次", nil, xe.ErrValidation, xe.KeyNoDataNeedUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateRoles(ctx, entity.SuperAdminAccountID, tt.reqs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.key, xe.KeyOf(err))
		})
	}

	t.Run("删除的角色不能恢复", func(t *testing.T) {
		_, err := svc.UpdateRoles(ctx, entity.SuperAdminAccountID, []dto.RoleUpdateRequest{{ID: 20, Status: intPtr(entity.StatusDeleted)}})
		require.NoError(t, err)
		_, err = svc.UpdateRoles(ctx, entity.SuperAdminAccountID, []dto.RoleUpdateRequest{{ID: 20, Status: intPtr(entity.StatusNormal)}})
		assert.True(t, errors.Is(err, xe.ErrValidation))
		assert.Equal(t, xe.KeyStatusInvalid, xe.KeyOf(err))
	})
}

func TestRoleQueries(t *testing.T) {
	ctx := context.Background()
	core, repo := newTestCore(t)
	svc := NewRoleService(core)
	createTestAccount(t, repo, 2, "alice")
	createTestRole(t, repo, 10, "ADMIN")
	createTestRole(t, repo, 20, "AUDITOR")
	createTestPermission(t, repo, 100, "user:read")
	createTestPermission(t, repo, 101, "user:write")
	linkTestRolePermissions(t, repo, 10, 101, 100)
	linkTestAccountRoles(t, repo, 2, 20, 10)

	roles, meta, err := svc.QueryRoles(ctx, entity.SuperAdminAccountID, &entity.RoleQuery{Code: "AUDIT"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	require.Len(t, roles, 1)
	assert.Equal(t, "AUDITOR", roles[0].Code)

	// 模糊匹配也会命中初始化的 SUPER_ADMIN
	roles, meta, err = svc.QueryRoles(ctx, entity.SuperAdminAccountID, &entity.RoleQuery{Code: "AD"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.Total)
	require.Len(t, roles, 2)
	assert.Equal(t, "ADMIN", roles[0].Code)

	_, _, err = svc.QueryRoles(ctx, 2, nil)
	assert.Equal(t, xe.KeyNoViewPermission, xe.KeyOf(err))

	ids, err := svc.PermissionIDsOfRole(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{101, 100}, ids)

	owned, err := svc.RolesOfAccount(ctx, 2)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "AUDITOR", owned[0].Code)

	active, err := svc.ListActiveRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}
