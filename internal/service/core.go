package service

import (
	"time"

	"warden/internal/authz"
	"warden/internal/metrics"
	"warden/internal/model"
)

// Core 汇总权限核心依赖，供各业务服务共享。
type Core struct {
	Repo      model.Repository
	Resolver  *authz.Resolver
	Gate      *authz.Gate
	Validator *Validator
	Metrics   *metrics.Metrics

	now func() time.Time
}

// NewCore 组装解析器、门禁和校验器，m 可以为 nil。
func NewCore(repo model.Repository, m *metrics.Metrics) *Core {
	resolver := authz.NewResolver(repo, m)
	return &Core{
		Repo:      repo,
		Resolver:  resolver,
		Gate:      authz.NewGate(resolver, m),
		Validator: NewValidator(repo),
		Metrics:   m,
		now:       time.Now,
	}
}

// SetClock 替换时间来源，测试中用于固定审计时间。
func (c *Core) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *Core) Now() time.Time {
	return c.now()
}
