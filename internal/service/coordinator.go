package service

import (
	"context"

	"warden/internal/authz"
	"warden/internal/entity"
	"warden/internal/entity/dto"
	"warden/internal/metrics"
	"warden/internal/xe"

	"github.com/sirupsen/logrus"
)

// AssignmentCoordinator 以“先删后插”的方式整体替换账户-角色、角色-权限关联。
type AssignmentCoordinator struct {
	core *Core
}

// NewAssignmentCoordinator 创建分配协调器
func NewAssignmentCoordinator(core *Core) *AssignmentCoordinator {
	return &AssignmentCoordinator{core: core}
}

// AssignRolesToAccounts 用 pairs 替换批次中出现的账户的全部角色，未出现的账户不受影响。
// 调用者需要同时拥有账户角色关联的新增和删除权限。
func (a *AssignmentCoordinator) AssignRolesToAccounts(ctx context.Context, actor uint, pairs []dto.AccountRolePair) (int64, error) {
	count, err := a.assignRolesToAccounts(ctx, actor, pairs)
	a.core.Metrics.ObserveAssignment(metrics.RelationAccountRole, assignmentResult(err), int(count))
	return count, err
}

func (a *AssignmentCoordinator) assignRolesToAccounts(ctx context.Context, actor uint, pairs []dto.AccountRolePair) (int64, error) {
	if err := a.core.Gate.RequireAll(ctx, actor, authz.CodeAddAccountRole, authz.CodeDeleteAccountRole); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedCreate, "empty account role batch")
	}

	batch := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		batch = append(batch, pair{Left: p.AccountID, Right: p.RoleID})
	}
	if err := checkBatchPairs("account_role_link", batch); err != nil {
		return 0, err
	}
	accountIDs, _ := splitPairs(batch)

	stamp := entity.NewStamp(actor, a.core.Now())
	links := make([]entity.AccountRoleLink, 0, len(batch))
	for _, p := range batch {
		links = append(links, entity.AccountRoleLink{AccountID: p.Left, RoleID: p.Right, Audit: stamp.Audit()})
	}

	var removed int64
	err := a.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := a.core.Repo.LockAccounts(ctx, accountIDs); err != nil {
			return err
		}
		n, err := a.core.Repo.DeleteAccountRoleLinksByAccountIDs(ctx, accountIDs)
		if err != nil {
			return err
		}
		removed = n
		inserted, err := a.core.Repo.CreateAccountRoleLinks(ctx, links)
		if err != nil {
			return err
		}
		if inserted != int64(len(links)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d account role links", inserted, len(links))
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor":    actor,
			"accounts": accountIDs,
			"links":    len(links),
		}).Error("failed to assign roles to accounts")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":    actor,
		"accounts": accountIDs,
		"removed":  removed,
		"inserted": len(links),
	}).Info("roles assigned to accounts")
	return int64(len(links)), nil
}

// AssignPermissionsToRoles 用 pairs 替换批次中出现的角色的全部权限。
// 调用者需要同时拥有角色权限关联的新增和删除权限。
func (a *AssignmentCoordinator) AssignPermissionsToRoles(ctx context.Context, actor uint, pairs []dto.RolePermissionPair) (int64, error) {
	count, err := a.assignPermissionsToRoles(ctx, actor, pairs)
	a.core.Metrics.ObserveAssignment(metrics.RelationRolePermission, assignmentResult(err), int(count))
	return count, err
}

func (a *AssignmentCoordinator) assignPermissionsToRoles(ctx context.Context, actor uint, pairs []dto.RolePermissionPair) (int64, error) {
	if err := a.core.Gate.RequireAll(ctx, actor, authz.CodeAddRolePermission, authz.CodeDeleteRolePermission); err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedCreate, "empty role permission batch")
	}

	batch := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		batch = append(batch, pair{Left: p.RoleID, Right: p.PermissionID})
	}
	if err := checkBatchPairs("role_permission_link", batch); err != nil {
		return 0, err
	}
	roleIDs, _ := splitPairs(batch)

	stamp := entity.NewStamp(actor, a.core.Now())
	links := make([]entity.RolePermissionLink, 0, len(batch))
	for _, p := range batch {
		links = append(links, entity.RolePermissionLink{RoleID: p.Left, PermissionID: p.Right, Audit: stamp.Audit()})
	}

	var removed int64
	err := a.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := a.core.Repo.LockRoles(ctx, roleIDs); err != nil {
			return err
		}
		n, err := a.core.Repo.DeleteRolePermissionLinksByRoleIDs(ctx, roleIDs)
		if err != nil {
			return err
		}
		removed = n
		inserted, err := a.core.Repo.CreateRolePermissionLinks(ctx, links)
		if err != nil {
			return err
		}
		if inserted != int64(len(links)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d role permission links", inserted, len(links))
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor": actor,
			"roles": roleIDs,
			"links": len(links),
		}).Error("failed to assign permissions to roles")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"actor":    actor,
		"roles":    roleIDs,
		"removed":  removed,
		"inserted": len(links),
	}).Info("permissions assigned to roles")
	return int64(len(links)), nil
}

func assignmentResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case xe.KindOf(err) == xe.KindPermissionDenied:
		return metrics.ResultDenied
	default:
		return metrics.ResultError
	}
}
