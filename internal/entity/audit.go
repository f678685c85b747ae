package entity

import "time"

// Audit 记录创建人/修改人及对应时间，所有写操作都必须填充。
type Audit struct {
	CreateID   uint      `gorm:"column:create_id;not null" json:"create_id"`
	CreateTime time.Time `gorm:"column:create_time;not null" json:"create_time"`
	UpdateID   uint      `gorm:"column:update_id;not null" json:"update_id"`
	UpdateTime time.Time `gorm:"column:update_time;not null" json:"update_time"`
}

// Stamp 表示一次写操作的操作人和时间。
type Stamp struct {
	By uint
	At time.Time
}

// NewStamp 创建操作戳。
func NewStamp(actor uint, at time.Time) Stamp {
	return Stamp{By: actor, At: at}
}

// Audit 生成新建行使用的审计字段。
func (s Stamp) Audit() Audit {
	return Audit{
		CreateID:   s.By,
		CreateTime: s.At,
		UpdateID:   s.By,
		UpdateTime: s.At,
	}
}

// Columns 返回更新语句需要写入的审计列。
func (s Stamp) Columns() map[string]interface{} {
	return map[string]interface{}{
		"update_id":   s.By,
		"update_time": s.At,
	}
}
