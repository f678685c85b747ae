package entity

// AccountQuery 账户分页查询条件。
type AccountQuery struct {
	BaseParams
	ID       uint   `json:"id" form:"id" query:"id"`
	UserName string `json:"user_name" form:"user_name" query:"user_name"`
	Status   *int   `json:"status" form:"status" query:"status"`
}

// RoleQuery 角色分页查询条件。
type RoleQuery struct {
	BaseParams
	ID     uint   `json:"id" form:"id" query:"id"`
	Name   string `json:"name" form:"name" query:"name"`
	Code   string `json:"code" form:"code" query:"code"`
	Status *int   `json:"status" form:"status" query:"status"`
}

// PermissionQuery 权限分页查询条件。
type PermissionQuery struct {
	BaseParams
	ID          uint   `json:"id" form:"id" query:"id"`
	Name        string `json:"name" form:"name" query:"name"`
	Code        string `json:"code" form:"code" query:"code"`
	Description string `json:"description" form:"description" query:"description"`
	Remark      string `json:"remark" form:"remark" query:"remark"`
	Type        *int   `json:"type" form:"type" query:"type"`
	Status      *int   `json:"status" form:"status" query:"status"`
}
