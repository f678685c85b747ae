package entity

// 角色/权限状态
const (
	StatusNormal  = 1
	StatusDeleted = -1
)

// Role 表示角色。Code 在未删除的角色中唯一。
type Role struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Code   string `gorm:"column:code;type:varchar(64);not null;index" json:"code"`
	Status int    `gorm:"column:status;not null;index" json:"status"`
	Audit  `gorm:"embedded"`
}

// TableName 指定表名。
func (Role) TableName() string {
	return "role"
}

// IsActive 判断角色是否有效。
func (r *Role) IsActive() bool {
	return r != nil && r.Status == StatusNormal
}

// Permission 表示权限。Code 在未删除的权限中唯一。
type Permission struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Code        string `gorm:"column:code;type:varchar(128);not null;index" json:"code"`
	Description string `gorm:"column:description;type:varchar(255)" json:"description"`
	Type        int    `gorm:"column:type;not null" json:"type"`
	Remark      string `gorm:"column:remark;type:varchar(255)" json:"remark"`
	Status      int    `gorm:"column:status;not null;index" json:"status"`
	Audit       `gorm:"embedded"`
}

// TableName 指定表名。
func (Permission) TableName() string {
	return "permission"
}

// IsActive 判断权限是否有效。
func (p *Permission) IsActive() bool {
	return p != nil && p.Status == StatusNormal
}

// CanTransitStatus 角色/权限状态只能从正常变为删除。
func CanTransitStatus(from, to int) bool {
	if to != StatusNormal && to != StatusDeleted {
		return false
	}
	if from == StatusDeleted {
		return to == StatusDeleted
	}
	return true
}
