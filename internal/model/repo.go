package model

import (
	"context"

	"warden/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// Transaction 在同一事务中执行 fn，fn 内使用传入的 ctx 访问仓库即可复用事务。
	// 已处于事务中时直接复用外层事务。
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// 账户
	CreateAccount(ctx context.Context, account *entity.Account) error
	GetAccountByID(ctx context.Context, id uint) (*entity.Account, error)
	GetAccountByUserName(ctx context.Context, userName string) (*entity.Account, error)
	FindAccountsByIDs(ctx context.Context, ids []uint) ([]entity.Account, error)
	ExistsAccountUserName(ctx context.Context, userName string, excludeID uint) (bool, error)
	UpdateAccount(ctx context.Context, id uint, updates entity.AccountUpdates, stamp entity.Stamp) error
	UpdateAccountStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error)
	ListAccounts(ctx context.Context, params *entity.AccountQuery) ([]entity.Account, *entity.Meta, error)
	CountAccounts(ctx context.Context) (int64, error)
	LockAccounts(ctx context.Context, ids []uint) error

	// 角色
	CreateRoles(ctx context.Context, roles []entity.Role) (int64, error)
	FindRolesByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Role, error)
	FindActiveRolesByCodes(ctx context.Context, codes []string) ([]entity.Role, error)
	UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates, stamp entity.Stamp) error
	UpdateRoleStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error)
	ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.Role, *entity.Meta, error)
	ListActiveRoles(ctx context.Context) ([]entity.Role, error)
	LockRoles(ctx context.Context, ids []uint) error

	// 权限
	CreatePermissions(ctx context.Context, permissions []entity.Permission) (int64, error)
	FindPermissionsByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Permission, error)
	FindActivePermissionsByCodes(ctx context.Context, codes []string) ([]entity.Permission, error)
	UpdatePermission(ctx context.Context, id uint, updates entity.PermissionUpdates, stamp entity.Stamp) error
	UpdatePermissionStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error)
	ListPermissions(ctx context.Context, params *entity.PermissionQuery) ([]entity.Permission, *entity.Meta, error)

	// 账户-角色关联
	FindAccountRoleLinksByAccountIDs(ctx context.Context, accountIDs []uint) ([]entity.AccountRoleLink, error)
	FindAccountRoleLinksByRoleIDs(ctx context.Context, roleIDs []uint) ([]entity.AccountRoleLink, error)
	FindAccountRoleLinks(ctx context.Context, accountIDs, roleIDs []uint) ([]entity.AccountRoleLink, error)
	CreateAccountRoleLinks(ctx context.Context, links []entity.AccountRoleLink) (int64, error)
	DeleteAccountRoleLinksByAccountIDs(ctx context.Context, accountIDs []uint) (int64, error)
	DeleteAccountRoleLinksByRoleIDs(ctx context.Context, roleIDs []uint) (int64, error)

	// 角色-权限关联
	FindRolePermissionLinksByRoleIDs(ctx context.Context, roleIDs []uint) ([]entity.RolePermissionLink, error)
	FindRolePermissionLinks(ctx context.Context, roleIDs, permissionIDs []uint) ([]entity.RolePermissionLink, error)
	CreateRolePermissionLinks(ctx context.Context, links []entity.RolePermissionLink) (int64, error)
	DeleteRolePermissionLinksByRoleIDs(ctx context.Context, roleIDs []uint) (int64, error)
	DeleteRolePermissionLinksByPermissionIDs(ctx context.Context, permissionIDs []uint) (int64, error)

	// 账户-用户绑定
	FindAccountUserLinks(ctx context.Context, accountIDs, userIDs []uint) ([]entity.AccountUserLink, error)
	CreateAccountUserLinks(ctx context.Context, links []entity.AccountUserLink) (int64, error)
	GetAccountUserLinkByAccountID(ctx context.Context, accountID uint) (*entity.AccountUserLink, error)
	GetAccountUserLinkByUserID(ctx context.Context, userID uint) (*entity.AccountUserLink, error)
	DeleteAccountUserLinksByAccountIDs(ctx context.Context, accountIDs []uint) (int64, error)
}
