package authz

import (
	"context"
	"fmt"

	"warden/internal/metrics"
	"warden/internal/xe"

	"github.com/sirupsen/logrus"
)

// Gate 在执行受保护操作前校验调用者是否持有所需权限码。
type Gate struct {
	source  PermissionSource
	metrics *metrics.Metrics
}

// NewGate 创建访问门禁，m 可以为 nil。
func NewGate(source PermissionSource, m *metrics.Metrics) *Gate {
	return &Gate{source: source, metrics: m}
}

// Require 校验单个权限码。
func (g *Gate) Require(ctx context.Context, actor uint, code string) error {
	return g.RequireAll(ctx, actor, code)
}

// RequireAll 要求调用者同时持有所有 codes，缺少任意一个即拒绝。
func (g *Gate) RequireAll(ctx context.Context, actor uint, codes ...string) error {
	if g == nil || g.source == nil {
		return fmt.Errorf("access gate not initialised")
	}
	held, err := g.source.ResolvePermissionCodes(ctx, actor)
	if err != nil {
		for _, code := range codes {
			g.metrics.ObserveAccessCheck(code, metrics.ResultError)
		}
		return fmt.Errorf("resolve permissions of account %d: %w", actor, err)
	}

	set := make(map[string]struct{}, len(held))
	for _, code := range held {
		set[code] = struct{}{}
	}
	for _, code := range codes {
		if _, ok := set[code]; !ok {
			g.metrics.ObserveAccessCheck(code, metrics.ResultDenied)
			logrus.WithFields(logrus.Fields{
				"account_id": actor,
				"code":       code,
			}).Info("permission denied")
			return xe.PermissionDenied(DeniedKey(code), code)
		}
		g.metrics.ObserveAccessCheck(code, metrics.ResultAllowed)
	}
	return nil
}

// DeniedKey 按权限码的动作前缀选择拒绝消息键。
func DeniedKey(code string) string {
	switch action(code) {
	case "add":
		return xe.KeyNoCreatePermission
	case "delete":
		return xe.KeyNoDeletePermission
	case "update":
		return xe.KeyNoUpdatePermission
	default:
		return xe.KeyNoViewPermission
	}
}
