package authz

import "strings"

// 权限码
const (
	CodeAddAccount    = "add:login:account"
	CodeDeleteAccount = "delete:login:account"
	CodeUpdateAccount = "update:login:account"
	CodeQueryAccount  = "query:login:account"

	CodeAddUserInfo    = "add:user:info"
	CodeDeleteUserInfo = "delete:user:info"
	CodeUpdateUserInfo = "update:user:info"
	CodeQueryUserInfo  = "query:user:info"

	CodeAddRole    = "add:role:info"
	CodeDeleteRole = "delete:role:info"
	CodeUpdateRole = "update:role:info"
	CodeQueryRole  = "query:role:info"

	CodeAddPermission    = "add:permissions:info"
	CodeDeletePermission = "delete:permissions:info"
	CodeUpdatePermission = "update:permissions:info"
	CodeQueryPermission  = "query:permissions:info"

	CodeAddAccountUser    = "add:account:user:connection"
	CodeDeleteAccountUser = "delete:account:user:connection"

	CodeAddAccountRole    = "add:account:role:connection"
	CodeDeleteAccountRole = "delete:account:role:connection"

	CodeAddRolePermission    = "add:role:permission:connection"
	CodeDeleteRolePermission = "delete:role:permission:connection"
)

// SuperAdminRoleCode 初始化时绑定全部内置权限的角色。
const SuperAdminRoleCode = "SUPER_ADMIN"

// PermissionType 内置权限类型。
const (
	PermissionTypeAPI = 1
)

// BuiltinPermission 内置权限定义。
type BuiltinPermission struct {
	Code string
	Name string
}

// BuiltinPermissions 返回全部内置权限，按声明顺序。
func BuiltinPermissions() []BuiltinPermission {
	return []BuiltinPermission{
		{CodeAddAccount, "新增账户权限"},
		{CodeDeleteAccount, "删除账户权限"},
		{CodeUpdateAccount, "修改账户权限"},
		{CodeQueryAccount, "查询账户权限"},
		{CodeAddUserInfo, "新增用户权限"},
		{CodeDeleteUserInfo, "删除用户权限"},
		{CodeUpdateUserInfo, "修改用户权限"},
		{CodeQueryUserInfo, "查询用户权限"},
		{CodeAddRole, "新增用户角色权限"},
		{CodeDeleteRole, "删除用户角色权限"},
		{CodeUpdateRole, "修改用户角色权限"},
		{CodeQueryRole, "查询用户角色权限"},
		{CodeAddPermission, "新增权限信息权限"},
		{CodeDeletePermission, "删除权限信息权限"},
		{CodeUpdatePermission, "修改权限信息权限"},
		{CodeQueryPermission, "查询权限信息权限"},
		{CodeAddAccountUser, "新增账户用户关联关系权限"},
		{CodeDeleteAccountUser, "删除账户用户关联关系权限"},
		{CodeAddAccountRole, "新增账户角色关联关系权限"},
		{CodeDeleteAccountRole, "删除账户角色关联关系权限"},
		{CodeAddRolePermission, "新增角色权限关联关系权限"},
		{CodeDeleteRolePermission, "删除角色权限关联关系权限"},
	}
}

// action 返回权限码的动作前缀（add/delete/update/query）。
func action(code string) string {
	if i := strings.IndexByte(code, ':'); i > 0 {
		return code[:i]
	}
	return ""
}
