package entity

// Re-export common types from the common package.

import (
	"warden/internal/entity/common"
)

type Meta = common.Meta
type BaseParams = common.BaseParams

const (
	DefaultPageSize = common.DefaultPageSize
	MaxPageSize     = common.MaxPageSize
)
