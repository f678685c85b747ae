package entity

// AccountRoleLink 账户与角色的关联关系。
type AccountRoleLink struct {
	ID        uint `gorm:"primarykey" json:"id"`
	AccountID uint `gorm:"column:account_id;not null;uniqueIndex:uk_account_role" json:"account_id"`
	RoleID    uint `gorm:"column:role_id;not null;uniqueIndex:uk_account_role;index" json:"role_id"`
	Audit     `gorm:"embedded"`
}

// TableName 指定表名。
func (AccountRoleLink) TableName() string {
	return "account_role_link"
}

// RolePermissionLink 角色与权限的关联关系。
type RolePermissionLink struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RoleID       uint `gorm:"column:role_id;not null;uniqueIndex:uk_role_permission" json:"role_id"`
	PermissionID uint `gorm:"column:permission_id;not null;uniqueIndex:uk_role_permission;index" json:"permission_id"`
	Audit        `gorm:"embedded"`
}

// TableName 指定表名。
func (RolePermissionLink) TableName() string {
	return "role_permission_link"
}

// AccountUserLink 账户与用户资料的绑定关系。
// 一个账户或一个用户最多出现在一行中，由业务层保证。
type AccountUserLink struct {
	ID        uint `gorm:"primarykey" json:"id"`
	AccountID uint `gorm:"column:account_id;not null;index" json:"account_id"`
	UserID    uint `gorm:"column:user_id;not null;index" json:"user_id"`
	Audit     `gorm:"embedded"`
}

// TableName 指定表名。
func (AccountUserLink) TableName() string {
	return "account_user_link"
}
