package entity

// AccountUpdates 账户更新字段
type AccountUpdates struct {
	UserName     *string
	PasswordHash *string
	Status       *int
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u AccountUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.UserName != nil {
		updates["user_name"] = *u.UserName
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u AccountUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// RoleUpdates 角色更新字段
type RoleUpdates struct {
	Name   *string
	Code   *string
	Status *int
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u RoleUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Code != nil {
		updates["code"] = *u.Code
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u RoleUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// PermissionUpdates 权限更新字段
type PermissionUpdates struct {
	Name        *string
	Code        *string
	Description *string
	Type        *int
	Remark      *string
	Status      *int
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u PermissionUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Code != nil {
		updates["code"] = *u.Code
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Type != nil {
		updates["type"] = *u.Type
	}
	if u.Remark != nil {
		updates["remark"] = *u.Remark
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u PermissionUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
