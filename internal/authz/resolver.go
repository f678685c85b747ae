package authz

import (
	"context"
	"fmt"
	"time"

	"warden/internal/entity"
	"warden/internal/metrics"
)

// PermissionSource 提供账户的角色码和权限码，供访问控制中间件注入使用。
type PermissionSource interface {
	ResolveRoleCodes(ctx context.Context, accountID uint) ([]string, error)
	ResolvePermissionCodes(ctx context.Context, accountID uint) ([]string, error)
}

// Store 是解析所需的只读存储能力。
type Store interface {
	FindAccountRoleLinksByAccountIDs(ctx context.Context, accountIDs []uint) ([]entity.AccountRoleLink, error)
	FindRolesByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Role, error)
	FindRolePermissionLinksByRoleIDs(ctx context.Context, roleIDs []uint) ([]entity.RolePermissionLink, error)
	FindPermissionsByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Permission, error)
}

// Resolver 通过 账户 -> 角色 -> 权限 两跳关联计算账户持有的角色与权限。
// 每次调用都读取存储，不做缓存。
type Resolver struct {
	store   Store
	metrics *metrics.Metrics
}

var _ PermissionSource = (*Resolver)(nil)

// NewResolver 创建解析器，m 可以为 nil。
func NewResolver(store Store, m *metrics.Metrics) *Resolver {
	return &Resolver{store: store, metrics: m}
}

// ResolveRoles 返回账户绑定的有效角色，按关联顺序，同 code 只保留第一个。
func (r *Resolver) ResolveRoles(ctx context.Context, accountID uint) ([]entity.Role, error) {
	defer r.metrics.ObserveResolve("roles", time.Now())
	return r.resolveRoles(ctx, accountID)
}

func (r *Resolver) resolveRoles(ctx context.Context, accountID uint) ([]entity.Role, error) {
	result := make([]entity.Role, 0)
	if accountID == 0 {
		return result, nil
	}

	links, err := r.store.FindAccountRoleLinksByAccountIDs(ctx, []uint{accountID})
	if err != nil {
		return nil, fmt.Errorf("load account role links: %w", err)
	}
	roleIDs := make([]uint, 0, len(links))
	for _, link := range links {
		roleIDs = append(roleIDs, link.RoleID)
	}
	roleIDs = distinctIDs(roleIDs)
	if len(roleIDs) == 0 {
		return result, nil
	}

	roles, err := r.store.FindRolesByIDs(ctx, roleIDs, true)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	byID := make(map[uint]entity.Role, len(roles))
	for _, role := range roles {
		if role.IsActive() {
			byID[role.ID] = role
		}
	}

	seen := make(map[string]struct{}, len(byID))
	for _, id := range roleIDs {
		role, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[role.Code]; dup {
			continue
		}
		seen[role.Code] = struct{}{}
		result = append(result, role)
	}
	return result, nil
}

// ResolveRoleCodes 返回账户的角色码，从不返回 nil。
func (r *Resolver) ResolveRoleCodes(ctx context.Context, accountID uint) ([]string, error) {
	roles, err := r.ResolveRoles(ctx, accountID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		codes = append(codes, role.Code)
	}
	return codes, nil
}

// ResolvePermissions 返回账户经由有效角色获得的有效权限，同 code 只保留第一个。
func (r *Resolver) ResolvePermissions(ctx context.Context, accountID uint) ([]entity.Permission, error) {
	defer r.metrics.ObserveResolve("permissions", time.Now())

	result := make([]entity.Permission, 0)
	roles, err := r.resolveRoles(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return result, nil
	}
	roleIDs := make([]uint, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID)
	}

	links, err := r.store.FindRolePermissionLinksByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("load role permission links: %w", err)
	}
	permissionIDs := make([]uint, 0, len(links))
	for _, link := range links {
		permissionIDs = append(permissionIDs, link.PermissionID)
	}
	permissionIDs = distinctIDs(permissionIDs)
	if len(permissionIDs) == 0 {
		return result, nil
	}

	permissions, err := r.store.FindPermissionsByIDs(ctx, permissionIDs, true)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	byID := make(map[uint]entity.Permission, len(permissions))
	for _, permission := range permissions {
		if permission.IsActive() {
			byID[permission.ID] = permission
		}
	}

	seen := make(map[string]struct{}, len(byID))
	for _, id := range permissionIDs {
		permission, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[permission.Code]; dup {
			continue
		}
		seen[permission.Code] = struct{}{}
		result = append(result, permission)
	}
	return result, nil
}

// ResolvePermissionCodes 返回账户的权限码，从不返回 nil。
func (r *Resolver) ResolvePermissionCodes(ctx context.Context, accountID uint) ([]string, error) {
	permissions, err := r.ResolvePermissions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		codes = append(codes, permission.Code)
	}
	return codes, nil
}

// HasPermission 判断账户是否持有 code。
func (r *Resolver) HasPermission(ctx context.Context, accountID uint, code string) (bool, error) {
	codes, err := r.ResolvePermissionCodes(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

// distinctIDs 去重并保持首次出现的顺序，忽略 0。
func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
