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

// PermissionService 权限管理
type PermissionService struct {
	core *Core
}

// NewPermissionService 创建权限服务
func NewPermissionService(core *Core) *PermissionService {
	return &PermissionService{core: core}
}

// AddPermissions 批量新增权限。任一编码已被有效权限占用时整批拒绝。
func (s *PermissionService) AddPermissions(ctx context.Context, actor uint, reqs []dto.PermissionCreateRequest) ([]entity.Permission, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddPermission); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, xe.Validation(xe.KeyNoDataNeedCreate, "empty permission batch")
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	permissions := make([]entity.Permission, 0, len(reqs))
	claims := make([]codeClaim, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		req.Name = strings.TrimSpace(req.Name)
		req.Code = strings.TrimSpace(req.Code)
		if err := s.core.Validator.Struct(xe.KeyDataIncomplete, req); err != nil {
			return nil, err
		}
		permissions = append(permissions, entity.Permission{
			Name:        req.Name,
			Code:        req.Code,
			Description: req.Description,
			Type:        req.Type,
			Remark:      req.Remark,
			Status:      entity.StatusNormal,
			Audit:       stamp.Audit(),
		})
		claims = append(claims, codeClaim{Code: req.Code})
	}

	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckPermissionCodes(ctx, claims); err != nil {
			return err
		}
		inserted, err := s.core.Repo.CreatePermissions(ctx, permissions)
		if err != nil {
			return err
		}
		if inserted != int64(len(permissions)) {
			return xe.Consistency(xe.KeyCreateDataFail, "inserted %d of %d permissions", inserted, len(permissions))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "count": len(permissions)}).Info("permissions created")
	return permissions, nil
}

// DeletePermissions 逻辑删除权限，并在同一事务中删除引用它们的角色-权限关联。
func (s *PermissionService) DeletePermissions(ctx context.Context, actor uint, ids []uint) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeDeletePermission); err != nil {
		return 0, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedDelete, ids); err != nil {
		return 0, err
	}
	targets := distinctIDs(ids)
	stamp := entity.NewStamp(actor, s.core.Now())

	var deleted, unlinked int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		n, err := s.core.Repo.UpdatePermissionStatusByIDs(ctx, targets, entity.StatusDeleted, stamp)
		if err != nil {
			return err
		}
		deleted = n
		unlinked, err = s.core.Repo.DeleteRolePermissionLinksByPermissionIDs(ctx, targets)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete permissions: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"actor":     actor,
		"requested": len(targets),
		"deleted":   deleted,
		"unlinked":  unlinked,
	}).Info("permissions deleted")
	return deleted, nil
}

// UpdatePermissions 批量修改权限，规则同角色修改。
func (s *PermissionService) UpdatePermissions(ctx context.Context, actor uint, reqs []dto.PermissionUpdateRequest) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeUpdatePermission); err != nil {
		return 0, err
	}
	if len(reqs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedUpdate, "empty permission batch")
	}
	ids := make([]uint, 0, len(reqs))
	for i := range reqs {
		req := reqs[i]
		if err := s.core.Validator.Struct(xe.KeyDataIncomplete, req); err != nil {
			return 0, err
		}
		if req.Name == nil && req.Code == nil && req.Description == nil && req.Type == nil && req.Remark == nil && req.Status == nil {
			return 0, xe.Validation(xe.KeyDataIncomplete, "permission %d has nothing to update", req.ID)
		}
		ids = append(ids, req.ID)
	}
	ids = distinctIDs(ids)
	reqs = firstByID(reqs, func(r dto.PermissionUpdateRequest) uint { return r.ID })

	stamp := entity.NewStamp(actor, s.core.Now())
	var updated int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.core.Repo.FindPermissionsByIDs(ctx, ids, false)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return xe.NotFound("permissions %v", ids)
		}
		if len(existing) != len(ids) {
			return xe.Consistency(xe.KeyUpdateDataFail, "found %d of %d permissions", len(existing), len(ids))
		}
		byID := make(map[uint]entity.Permission, len(existing))
		for _, permission := range existing {
			byID[permission.ID] = permission
		}

		claims := make([]codeClaim, 0, len(reqs))
		for _, req := range reqs {
			current := byID[req.ID]
			if req.Status != nil && !entity.CanTransitStatus(current.Status, *req.Status) {
				return xe.Validation(xe.KeyStatusInvalid, "permission %d: %d -> %d", current.ID, current.Status, *req.Status)
			}
			status := current.Status
			if req.Status != nil {
				status = *req.Status
			}
			if req.Code != nil && activeStatus(&status) {
				claims = append(claims, codeClaim{ID: current.ID, Code: strings.TrimSpace(*req.Code)})
			}
		}
		if err := s.core.Validator.CheckPermissionCodes(ctx, claims); err != nil {
			return err
		}

		for _, req := range reqs {
			updates := entity.PermissionUpdates{
				Description: req.Description,
				Type:        req.Type,
				Remark:      req.Remark,
				Status:      req.Status,
			}
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				updates.Name = &name
			}
			if req.Code != nil {
				code := strings.TrimSpace(*req.Code)
				updates.Code = &code
			}
			if err := s.core.Repo.UpdatePermission(ctx, req.ID, updates, stamp); err != nil {
				return err
			}
			if req.Status != nil && *req.Status == entity.StatusDeleted {
				if _, err := s.core.Repo.DeleteRolePermissionLinksByPermissionIDs(ctx, []uint{req.ID}); err != nil {
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
	logrus.WithFields(logrus.Fields{"actor": actor, "requested": len(reqs), "updated": updated}).Info("permissions updated")
	return updated, nil
}

// QueryPermissions 分页查询权限。
func (s *PermissionService) QueryPermissions(ctx context.Context, actor uint, params *entity.PermissionQuery) ([]entity.Permission, *entity.Meta, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeQueryPermission); err != nil {
		return nil, nil, err
	}
	return s.core.Repo.ListPermissions(ctx, params)
}

// PermissionsOfAccount 返回指定账户生效的权限，需要权限查询权限。
func (s *PermissionService) PermissionsOfAccount(ctx context.Context, actor, accountID uint) ([]entity.Permission, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeQueryPermission); err != nil {
		return nil, err
	}
	return s.core.Resolver.ResolvePermissions(ctx, accountID)
}

// PermissionsOfRoles 返回角色关联的有效权限。
func (s *PermissionService) PermissionsOfRoles(ctx context.Context, actor uint, roleIDs []uint) ([]entity.Permission, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeQueryPermission); err != nil {
		return nil, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedQuery, roleIDs); err != nil {
		return nil, err
	}
	links, err := s.core.Repo.FindRolePermissionLinksByRoleIDs(ctx, distinctIDs(roleIDs))
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.PermissionID)
	}
	return s.core.Repo.FindPermissionsByIDs(ctx, distinctIDs(ids), true)
}
