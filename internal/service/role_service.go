package service

import (
	"context"
	"fmt"
	"strings"

	"warden/internal/authz"
	"warden/internal/entity"
	"warden/internal/entity/dto"
	"warden/internal/xe"

	"github.com/sirupsen/logrus"
)

// RoleService 角色管理
type RoleService struct {
	core *Core
}

// NewRoleService 创建角色服务
func NewRoleService(core *Core) *RoleService {
	return &RoleService{core: core}
}

// AddRoles 批量新增角色。任一编码已被有效角色占用时整批拒绝。
func (s *RoleService) AddRoles(ctx context.Context, actor uint, reqs []dto.RoleCreateRequest) ([]entity.Role, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddRole); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, xe.Validation(xe.KeyNoDataNeedCreate, "empty role batch")
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	roles := make([]entity.Role, 0, len(reqs))
	claims := make([]codeClaim, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		req.Name = strings.TrimSpace(req.Name)
		req.Code = strings.TrimSpace(req.Code)
		if err := s.core.Validator.Struct(xe.KeyDataIncomplete, req); err != nil {
			return nil, err
		}
		roles = append(roles, entity.Role{
			Name:   req.Name,
			Code:   req.Code,
			Status: entity.StatusNormal,
			Audit:  stamp.Audit(),
		})
		claims = append(claims, codeClaim{Code: req.Code})
	}

	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckRoleCodes(ctx, claims); err != nil {
			return err
		}
		inserted, err := s.core.Repo.CreateRoles(ctx, roles)
		if err != nil {
			return err
		}
		if inserted != int64(len(roles)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d roles", inserted, len(roles))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "count": len(roles)}).Info("roles created")
	return roles, nil
}

// DeleteRoles 逻辑删除角色，并在同一事务中清理其账户关联和权限关联。
func (s *RoleService) DeleteRoles(ctx context.Context, actor uint, ids []uint) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeDeleteRole); err != nil {
		return 0, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedDelete, ids); err != nil {
		return 0, err
	}
	targets := distinctIDs(ids)
	stamp := entity.NewStamp(actor, s.core.Now())

	var deleted, unlinked int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		n, err := s.core.Repo.UpdateRoleStatusByIDs(ctx, targets, entity.StatusDeleted, stamp)
		if err != nil {
			return err
		}
		deleted = n
		a, err := s.core.Repo.DeleteAccountRoleLinksByRoleIDs(ctx, targets)
		if err != nil {
			return err
		}
		p, err := s.core.Repo.DeleteRolePermissionLinksByRoleIDs(ctx, targets)
		if err != nil {
			return err
		}
		unlinked = a + p
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete roles: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"actor":     actor,
		"requested": len(targets),
		"deleted":   deleted,
		"unlinked":  unlinked,
	}).Info("roles deleted")
	return deleted, nil
}

// UpdateRoles 批量修改角色。编码不能与其他有效角色冲突，已删除的角色不能恢复。
// 同一 id 只取第一条；一个都不存在时返回 NotFound，部分不存在时整批回滚。
func (s *RoleService) UpdateRoles(ctx context.Context, actor uint, reqs []dto.RoleUpdateRequest) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeUpdateRole); err != nil {
		return 0, err
	}
	if len(reqs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedUpdate, "empty role batch")
	}
	ids := make([]uint, 0, len(reqs))
	for i := range reqs {
		if err := s.core.Validator.Struct(xe.KeyDataIncomplete, reqs[i]); err != nil {
			return 0, err
		}
		if reqs[i].Name == nil && reqs[i].Code == nil && reqs[i].Status == nil {
			return 0, xe.Validation(xe.KeyDataIncomplete, "role %d has nothing to update", reqs[i].ID)
		}
		ids = append(ids, reqs[i].ID)
	}
	ids = distinctIDs(ids)
	reqs = firstByID(reqs, func(r dto.RoleUpdateRequest) uint { return r.ID })

	stamp := entity.NewStamp(actor, s.core.Now())
	var updated int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.core.Repo.FindRolesByIDs(ctx, ids, false)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return xe.NotFound("roles %v", ids)
		}
		if len(existing) != len(ids) {
			return xe.Consistency(xe.KeyUpdateDataFail, "found %d of %d roles", len(existing), len(ids))
		}
		byID := make(map[uint]entity.Role, len(existing))
		for _, role := range existing {
			byID[role.ID] = role
		}

		claims := make([]codeClaim, 0, len(reqs))
		for _, req := range reqs {
			current := byID[req.ID]
			if req.Status != nil && !entity.CanTransitStatus(current.Status, *req.Status) {
				return xe.Validation(xe.KeyStatusInvalid, "role %d: %d -> %d", current.ID, current.Status, *req.Status)
			}
			code := current.Code
			if req.Code != nil {
				code = strings.TrimSpace(*req.Code)
			}
			status := current.Status
			if req.Status != nil {
				status = *req.Status
			}
			if req.Code != nil && activeStatus(&status) {
				claims = append(claims, codeClaim{ID: current.ID, Code: code})
			}
		}
		if err := s.core.Validator.CheckRoleCodes(ctx, claims); err != nil {
			return err
		}

		for _, req := range reqs {
			var updates entity.RoleUpdates
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				updates.Name = &name
			}
			if req.Code != nil {
				code := strings.TrimSpace(*req.Code)
				updates.Code = &code
			}
			updates.Status = req.Status
			if err := s.core.Repo.UpdateRole(ctx, req.ID, updates, stamp); err != nil {
				return err
			}
			if req.Status != nil && *req.Status == entity.StatusDeleted {
				if _, err := s.core.Repo.DeleteAccountRoleLinksByRoleIDs(ctx, []uint{req.ID}); err != nil {
					return err
				}
				if _, err := s.core.Repo.DeleteRolePermissionLinksByRoleIDs(ctx, []uint{req.ID}); err != nil {
					return err
				}
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "requested": len(reqs), "updated": updated}).Info("roles updated")
	return updated, nil
}

// QueryRoles 分页查询角色。
func (s *RoleService) QueryRoles(ctx context.Context, actor uint, params *entity.RoleQuery) ([]entity.Role, *entity.Meta, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeQueryRole); err != nil {
		return nil, nil, err
	}
	return s.core.Repo.ListRoles(ctx, params)
}

// ListActiveRoles 返回全部有效角色。
func (s *RoleService) ListActiveRoles(ctx context.Context) ([]entity.Role, error) {
	return s.core.Repo.ListActiveRoles(ctx)
}

// RolesOfAccount 返回账户当前生效的角色。
func (s *RoleService) RolesOfAccount(ctx context.Context, accountID uint) ([]entity.Role, error) {
	return s.core.Resolver.ResolveRoles(ctx, accountID)
}

// PermissionIDsOfRole 返回角色关联的权限 ID，按关联创建顺序。
func (s *RoleService) PermissionIDsOfRole(ctx context.Context, roleID uint) ([]uint, error) {
	if roleID == 0 {
		return nil, xe.Validation(xe.KeyNoDataNeedQuery, "role id is empty")
	}
	links, err := s.core.Repo.FindRolePermissionLinksByRoleIDs(ctx, []uint{roleID})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.PermissionID)
	}
	return distinctIDs(ids), nil
}
