package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"warden/internal/auth"
	"warden/internal/authz"
	"warden/internal/config"
	"warden/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedResult 记录一次初始化实际写入的数据量。
type SeedResult struct {
	Permissions            int64
	RoleCreated            bool
	AccountCreated         bool
	GeneratedPassword      string
	RolePermissionLinks    int64
	AccountRoleLinkCreated bool
}

// SeedSuperAdmin 确保内置权限、超级管理员角色和 id 为 1 的超级管理员账户存在，
// 并补齐它们之间缺失的关联。可以重复执行。
func SeedSuperAdmin(ctx context.Context, repo Repository, cfg config.Config) (*SeedResult, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	result := &SeedResult{}
	stamp := entity.NewStamp(entity.SuperAdminAccountID, time.Now())

	err := repo.Transaction(ctx, func(ctx context.Context) error {
		permissionIDs, err := seedPermissions(ctx, repo, stamp, result)
		if err != nil {
			return err
		}
		roleID, err := seedSuperAdminRole(ctx, repo, stamp, result)
		if err != nil {
			return err
		}
		if err := seedSuperAdminAccount(ctx, repo, cfg, stamp, result); err != nil {
			return err
		}
		return seedLinks(ctx, repo, roleID, permissionIDs, stamp, result)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"permissions":           result.Permissions,
		"role_created":          result.RoleCreated,
		"account_created":       result.AccountCreated,
		"role_permission_links": result.RolePermissionLinks,
		"account_role_link":     result.AccountRoleLinkCreated,
	}).Info("super admin seeded")
	return result, nil
}

func seedPermissions(ctx context.Context, repo Repository, stamp entity.Stamp, result *SeedResult) ([]uint, error) {
	builtins := authz.BuiltinPermissions()
	codes := make([]string, 0, len(builtins))
	for _, p := range builtins {
		codes = append(codes, p.Code)
	}
	existing, err := repo.FindActivePermissionsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]uint, len(existing))
	for _, p := range existing {
		byCode[p.Code] = p.ID
	}

	missing := make([]entity.Permission, 0)
	for _, p := range builtins {
		if _, ok := byCode[p.Code]; ok {
			continue
		}
		missing = append(missing, entity.Permission{
			Name:   p.Name,
			Code:   p.Code,
			Type:   authz.PermissionTypeAPI,
			Status: entity.StatusNormal,
			Audit:  stamp.Audit(),
		})
	}
	if len(missing) > 0 {
		n, err := repo.CreatePermissions(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("seed permissions: %w", err)
		}
		result.Permissions = n
		for _, p := range missing {
			byCode[p.Code] = p.ID
		}
	}

	ids := make([]uint, 0, len(builtins))
	for _, p := range builtins {
		ids = append(ids, byCode[p.Code])
	}
	return ids, nil
}

func seedSuperAdminRole(ctx context.Context, repo Repository, stamp entity.Stamp, result *SeedResult) (uint, error) {
	roles, err := repo.FindActiveRolesByCodes(ctx, []string{authz.SuperAdminRoleCode})
	if err != nil {
		return 0, err
	}
	if len(roles) > 0 {
		return roles[0].ID, nil
	}
	role := []entity.Role{{
		Name:   "超级管理员",
		Code:   authz.SuperAdminRoleCode,
		Status: entity.StatusNormal,
		Audit:  stamp.Audit(),
	}}
	if _, err := repo.CreateRoles(ctx, role); err != nil {
		return 0, fmt.Errorf("seed super admin role: %w", err)
	}
	result.RoleCreated = true
	return role[0].ID, nil
}

func seedSuperAdminAccount(ctx context.Context, repo Repository, cfg config.Config, stamp entity.Stamp, result *SeedResult) error {
	_, err := repo.GetAccountByID(ctx, entity.SuperAdminAccountID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// 超级管理员必须是第一条账户记录，才能拿到 id 1
	count, err := repo.CountAccounts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("account %d is missing but the account table is not empty", entity.SuperAdminAccountID)
	}

	name := strings.TrimSpace(cfg.SuperAdminName)
	if name == "" {
		name = "admin"
	}
	password := cfg.SuperAdminPassword
	if strings.TrimSpace(password) == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")
		result.GeneratedPassword = password
		logrus.WithField("user_name", name).Warn("SUPER_ADMIN_PASSWORD is empty, generated a random password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	account := &entity.Account{
		UserName:     name,
		PasswordHash: hash,
		Status:       entity.AccountStatusEnabled,
		Audit:        stamp.Audit(),
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		return fmt.Errorf("seed super admin account: %w", err)
	}
	if account.ID != entity.SuperAdminAccountID {
		return fmt.Errorf("super admin account got id %d", account.ID)
	}
	result.AccountCreated = true
	return nil
}

func seedLinks(ctx context.Context, repo Repository, roleID uint, permissionIDs []uint, stamp entity.Stamp, result *SeedResult) error {
	accountLinks, err := repo.FindAccountRoleLinks(ctx, []uint{entity.SuperAdminAccountID}, []uint{roleID})
	if err != nil {
		return err
	}
	if len(accountLinks) == 0 {
		link := []entity.AccountRoleLink{{AccountID: entity.SuperAdminAccountID, RoleID: roleID, Audit: stamp.Audit()}}
		if _, err := repo.CreateAccountRoleLinks(ctx, link); err != nil {
			return fmt.Errorf("seed super admin role link: %w", err)
		}
		result.AccountRoleLinkCreated = true
	}

	linked, err := repo.FindRolePermissionLinksByRoleIDs(ctx, []uint{roleID})
	if err != nil {
		return err
	}
	have := make(map[uint]struct{}, len(linked))
	for _, link := range linked {
		have[link.PermissionID] = struct{}{}
	}
	missing := make([]entity.RolePermissionLink, 0)
	for _, id := range permissionIDs {
		if _, ok := have[id]; ok {
			continue
		}
		missing = append(missing, entity.RolePermissionLink{RoleID: roleID, PermissionID: id, Audit: stamp.Audit()})
	}
	if len(missing) == 0 {
		return nil
	}
	n, err := repo.CreateRolePermissionLinks(ctx, missing)
	if err != nil {
		return fmt.Errorf("seed super admin permission links: %w", err)
	}
	result.RolePermissionLinks = n
	return nil
}
