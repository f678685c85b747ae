package entity

// 账户状态
const (
	AccountStatusDeregistered = -2
	AccountStatusDisabled     = -1
	AccountStatusLocked       = 0
	AccountStatusEnabled      = 1
)

// SuperAdminAccountID 是不可变的超级管理员账户 ID。
const SuperAdminAccountID uint = 1

// Account 表示登录账户。
type Account struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	UserName     string `gorm:"column:user_name;type:varchar(64);uniqueIndex;not null" json:"user_name"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Status       int    `gorm:"column:status;not null;index" json:"status"`
	Audit        `gorm:"embedded"`
}

// TableName 指定表名。
func (Account) TableName() string {
	return "account"
}

// IsEnabled 判断账户是否处于启用状态。
func (a *Account) IsEnabled() bool {
	return a != nil && a.Status == AccountStatusEnabled
}

// ValidAccountStatus 判断状态值是否合法。
func ValidAccountStatus(status int) bool {
	switch status {
	case AccountStatusDeregistered, AccountStatusDisabled, AccountStatusLocked, AccountStatusEnabled:
		return true
	default:
		return false
	}
}

// CanTransitAccountStatus 判断账户状态是否可以从 from 变为 to。
// 注销状态为终态。
func CanTransitAccountStatus(from, to int) bool {
	if !ValidAccountStatus(to) {
		return false
	}
	if from == AccountStatusDeregistered {
		return to == AccountStatusDeregistered
	}
	return true
}
