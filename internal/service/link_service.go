package service

import (
	"context"
	"errors"
	"fmt"

	"warden/internal/authz"
	"warden/internal/entity"
	"warden/internal/entity/dto"
	"warden/internal/xe"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LinkService 关联表的追加与按外键删除。
type LinkService struct {
	core *Core
}

// NewLinkService 创建关联服务
func NewLinkService(core *Core) *LinkService {
	return &LinkService{core: core}
}

// AddAccountRoleLinks 追加账户-角色关联，已存在的关联会使整批失败。
func (s *LinkService) AddAccountRoleLinks(ctx context.Context, actor uint, pairs []dto.AccountRolePair) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddAccountRole); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedCreate, "empty account role batch")
	}
	batch := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		batch = append(batch, pair{Left: p.AccountID, Right: p.RoleID})
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	links := make([]entity.AccountRoleLink, 0, len(batch))
	for _, p := range batch {
		links = append(links, entity.AccountRoleLink{AccountID: p.Left, RoleID: p.Right, Audit: stamp.Audit()})
	}

	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckNewAccountRoleLinks(ctx, batch); err != nil {
			return err
		}
		inserted, err := s.core.Repo.CreateAccountRoleLinks(ctx, links)
		if err != nil {
			return err
		}
		if inserted != int64(len(links)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d account role links", inserted, len(links))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(links)), nil
}

// AddRolePermissionLinks 追加角色-权限关联。
func (s *LinkService) AddRolePermissionLinks(ctx context.Context, actor uint, pairs []dto.RolePermissionPair) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddRolePermission); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedCreate, "empty role permission batch")
	}
	batch := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		batch = append(batch, pair{Left: p.RoleID, Right: p.PermissionID})
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	links := make([]entity.RolePermissionLink, 0, len(batch))
	for _, p := range batch {
		links = append(links, entity.RolePermissionLink{RoleID: p.Left, PermissionID: p.Right, Audit: stamp.Audit()})
	}

	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckNewRolePermissionLinks(ctx, batch); err != nil {
			return err
		}
		inserted, err := s.core.Repo.CreateRolePermissionLinks(ctx, links)
		if err != nil {
			return err
		}
		if inserted != int64(len(links)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d role permission links", inserted, len(links))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(links)), nil
}

// AddAccountUserLinks 绑定账户与用户资料，任一方已绑定则整批失败。
func (s *LinkService) AddAccountUserLinks(ctx context.Context, actor uint, pairs []dto.AccountUserPair) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddAccountUser); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedCreate, "empty account user batch")
	}
	batch := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		batch = append(batch, pair{Left: p.AccountID, Right: p.UserID})
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	links := make([]entity.AccountUserLink, 0, len(batch))
	for _, p := range batch {
		links = append(links, entity.AccountUserLink{AccountID: p.Left, UserID: p.Right, Audit: stamp.Audit()})
	}

	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckNewAccountUserLinks(ctx, batch); err != nil {
			return err
		}
		inserted, err := s.core.Repo.CreateAccountUserLinks(ctx, links)
		if err != nil {
			return err
		}
		if inserted != int64(len(links)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d account user links", inserted, len(links))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(links)), nil
}

// DeleteLinksByAccountIDs 删除账户的全部角色关联。
func (s *LinkService) DeleteLinksByAccountIDs(ctx context.Context, actor uint, accountIDs []uint) (int64, error) {
	return s.deleteLinks(ctx, actor, authz.CodeDeleteAccountRole, "account_role_link.account_id", accountIDs, s.core.Repo.DeleteAccountRoleLinksByAccountIDs)
}

// DeleteLinksByRoleIDs 删除角色的账户关联和权限关联。
func (s *LinkService) DeleteLinksByRoleIDs(ctx context.Context, actor uint, roleIDs []uint) (int64, error) {
	if err := s.core.Gate.RequireAll(ctx, actor, authz.CodeDeleteAccountRole, authz.CodeDeleteRolePermission); err != nil {
		return 0, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedDelete, roleIDs); err != nil {
		return 0, err
	}
	ids := distinctIDs(roleIDs)
	var total int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		n, err := s.core.Repo.DeleteAccountRoleLinksByRoleIDs(ctx, ids)
		if err != nil {
			return err
		}
		m, err := s.core.Repo.DeleteRolePermissionLinksByRoleIDs(ctx, ids)
		if err != nil {
			return err
		}
		total = n + m
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "roles": ids, "removed": total}).Info("role links deleted")
	return total, nil
}

// DeleteLinksByPermissionIDs 删除引用这些权限的角色-权限关联。
func (s *LinkService) DeleteLinksByPermissionIDs(ctx context.Context, actor uint, permissionIDs []uint) (int64, error) {
	return s.deleteLinks(ctx, actor, authz.CodeDeleteRolePermission, "role_permission_link.permission_id", permissionIDs, s.core.Repo.DeleteRolePermissionLinksByPermissionIDs)
}

// DeleteAccountUserLinks 解除账户与用户资料的绑定。
func (s *LinkService) DeleteAccountUserLinks(ctx context.Context, actor uint, accountIDs []uint) (int64, error) {
	return s.deleteLinks(ctx, actor, authz.CodeDeleteAccountUser, "account_user_link.account_id", accountIDs, s.core.Repo.DeleteAccountUserLinksByAccountIDs)
}

func (s *LinkService) deleteLinks(ctx context.Context, actor uint, code, target string, ids []uint,
	del func(ctx context.Context, ids []uint) (int64, error)) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, code); err != nil {
		return 0, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedDelete, ids); err != nil {
		return 0, err
	}
	n, err := del(ctx, distinctIDs(ids))
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", target, err)
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "target": target, "ids": ids, "removed": n}).Info("links deleted")
	return n, nil
}

// UserOfAccount 返回账户绑定的用户资料 ID。
func (s *LinkService) UserOfAccount(ctx context.Context, accountID uint) (*entity.AccountUserLink, error) {
	if accountID == 0 {
		return nil, xe.Validation(xe.KeyNoDataNeedQuery, "account id is empty")
	}
	link, err := s.core.Repo.GetAccountUserLinkByAccountID(ctx, accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.NotFound("account %d has no bound user", accountID)
	}
	return link, err
}

// AccountOfUser 返回用户资料绑定的账户 ID。
func (s *LinkService) AccountOfUser(ctx context.Context, userID uint) (*entity.AccountUserLink, error) {
	if userID == 0 {
		return nil, xe.Validation(xe.KeyNoDataNeedQuery, "user id is empty")
	}
	link, err := s.core.Repo.GetAccountUserLinkByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.NotFound("user %d has no bound account", userID)
	}
	return link, err
}
