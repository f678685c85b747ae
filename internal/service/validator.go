package service

import (
	"context"
	"fmt"
	"strings"

	"warden/internal/entity"
	"warden/internal/model"
	"warden/internal/xe"

	"github.com/go-playground/validator/v10"
)

// Validator 在写入前校验请求完整性、编码唯一性和关联关系不可重复绑定。
type Validator struct {
	repo     model.Repository
	validate *validator.Validate
}

// NewValidator 创建校验器。结构体校验复用 gin 的 binding 标签。
func NewValidator(repo model.Repository) *Validator {
	v := validator.New()
	v.SetTagName("binding")
	return &Validator{repo: repo, validate: v}
}

// Struct 校验单个请求结构体，失败时返回带 key 的 ValidationError。
func (v *Validator) Struct(key string, s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return &xe.Error{Kind: xe.KindValidation, Key: key, Detail: err.Error(), Err: err}
	}
	return nil
}

// pair 表示一条待写入的关联 (left, right)。
type pair struct {
	Left  uint
	Right uint
}

// checkBatchPairs 拒绝包含 0 值的关联和批次内重复的关联。
func checkBatchPairs(relation string, pairs []pair) error {
	seen := make(map[pair]struct{}, len(pairs))
	for i, p := range pairs {
		if p.Left == 0 || p.Right == 0 {
			return xe.Validation(xe.KeyDataIncomplete, "%s[%d] has empty id", relation, i)
		}
		if _, ok := seen[p]; ok {
			return xe.Conflict(xe.KeyDuplicateData, "%s (%d,%d) repeated in batch", relation, p.Left, p.Right)
		}
		seen[p] = struct{}{}
	}
	return nil
}

func splitPairs(pairs []pair) (lefts, rights []uint) {
	lefts = make([]uint, 0, len(pairs))
	rights = make([]uint, 0, len(pairs))
	for _, p := range pairs {
		lefts = append(lefts, p.Left)
		rights = append(rights, p.Right)
	}
	return distinctIDs(lefts), distinctIDs(rights)
}

// CheckNewAccountRoleLinks 追加账户-角色关联前的校验。
func (v *Validator) CheckNewAccountRoleLinks(ctx context.Context, pairs []pair) error {
	if err := checkBatchPairs("account_role_link", pairs); err != nil {
		return err
	}
	accountIDs, roleIDs := splitPairs(pairs)
	existing, err := v.repo.FindAccountRoleLinks(ctx, accountIDs, roleIDs)
	if err != nil {
		return fmt.Errorf("check account role links: %w", err)
	}
	wanted := make(map[pair]struct{}, len(pairs))
	for _, p := range pairs {
		wanted[p] = struct{}{}
	}
	for _, link := range existing {
		if _, ok := wanted[pair{link.AccountID, link.RoleID}]; ok {
			return xe.Conflict(xe.KeyDuplicateData, "account %d already has role %d", link.AccountID, link.RoleID)
		}
	}
	return nil
}

// CheckNewRolePermissionLinks 追加角色-权限关联前的校验。
func (v *Validator) CheckNewRolePermissionLinks(ctx context.Context, pairs []pair) error {
	if err := checkBatchPairs("role_permission_link", pairs); err != nil {
		return err
	}
	roleIDs, permissionIDs := splitPairs(pairs)
	existing, err := v.repo.FindRolePermissionLinks(ctx, roleIDs, permissionIDs)
	if err != nil {
		return fmt.Errorf("check role permission links: %w", err)
	}
	wanted := make(map[pair]struct{}, len(pairs))
	for _, p := range pairs {
		wanted[p] = struct{}{}
	}
	for _, link := range existing {
		if _, ok := wanted[pair{link.RoleID, link.PermissionID}]; ok {
			return xe.Conflict(xe.KeyDuplicateData, "role %d already has permission %d", link.RoleID, link.PermissionID)
		}
	}
	return nil
}

// CheckNewAccountUserLinks 账户和用户各自只能绑定一次，批次内也不能重复出现。
func (v *Validator) CheckNewAccountUserLinks(ctx context.Context, pairs []pair) error {
	accounts := make(map[uint]struct{}, len(pairs))
	users := make(map[uint]struct{}, len(pairs))
	for i, p := range pairs {
		if p.Left == 0 || p.Right == 0 {
			return xe.Validation(xe.KeyDataIncomplete, "account_user_link[%d] has empty id", i)
		}
		if _, ok := accounts[p.Left]; ok {
			return xe.Conflict(xe.KeyDuplicateData, "account %d repeated in batch", p.Left)
		}
		if _, ok := users[p.Right]; ok {
			return xe.Conflict(xe.KeyDuplicateData, "user %d repeated in batch", p.Right)
		}
		accounts[p.Left] = struct{}{}
		users[p.Right] = struct{}{}
	}

	accountIDs, userIDs := splitPairs(pairs)
	existing, err := v.repo.FindAccountUserLinks(ctx, accountIDs, userIDs)
	if err != nil {
		return fmt.Errorf("check account user links: %w", err)
	}
	if len(existing) > 0 {
		link := existing[0]
		return xe.Conflict(xe.KeyDuplicateData, "account %d or user %d already bound", link.AccountID, link.UserID)
	}
	return nil
}

// codeClaim 表示某行（新增时 ID 为 0）要占用的编码。
type codeClaim struct {
	ID   uint
	Code string
}

// checkCodeClaims 检查编码在批次内和有效数据中是否冲突，同一行沿用自身编码不算冲突。
func checkCodeClaims(kind string, claims []codeClaim, active map[string][]uint) error {
	seen := make(map[string]uint, len(claims))
	for _, c := range claims {
		if prev, ok := seen[c.Code]; ok && (c.ID == 0 || prev != c.ID) {
			return xe.Conflict(xe.KeyDuplicateData, "%s code %q repeated in batch", kind, c.Code)
		}
		seen[c.Code] = c.ID
		for _, id := range active[c.Code] {
			if id != c.ID {
				return xe.Conflict(xe.KeyDuplicateData, "%s code %q already used by %d", kind, c.Code, id)
			}
		}
	}
	return nil
}

func claimedCodes(claims []codeClaim) []string {
	codes := make([]string, 0, len(claims))
	for _, c := range claims {
		codes = append(codes, c.Code)
	}
	return codes
}

// CheckRoleCodes 校验角色编码在有效角色中唯一。
func (v *Validator) CheckRoleCodes(ctx context.Context, claims []codeClaim) error {
	if len(claims) == 0 {
		return nil
	}
	roles, err := v.repo.FindActiveRolesByCodes(ctx, claimedCodes(claims))
	if err != nil {
		return fmt.Errorf("check role codes: %w", err)
	}
	active := make(map[string][]uint, len(roles))
	for _, role := range roles {
		active[role.Code] = append(active[role.Code], role.ID)
	}
	return checkCodeClaims("role", claims, active)
}

// CheckPermissionCodes 校验权限编码在有效权限中唯一。
func (v *Validator) CheckPermissionCodes(ctx context.Context, claims []codeClaim) error {
	if len(claims) == 0 {
		return nil
	}
	permissions, err := v.repo.FindActivePermissionsByCodes(ctx, claimedCodes(claims))
	if err != nil {
		return fmt.Errorf("check permission codes: %w", err)
	}
	active := make(map[string][]uint, len(permissions))
	for _, permission := range permissions {
		active[permission.Code] = append(active[permission.Code], permission.ID)
	}
	return checkCodeClaims("permission", claims, active)
}

// CheckUserName 校验登录名非空且未被其他账户使用。
func (v *Validator) CheckUserName(ctx context.Context, userName string, excludeID uint) error {
	if strings.TrimSpace(userName) == "" {
		return xe.Validation(xe.KeyUserNameBlank, "user name is blank")
	}
	exists, err := v.repo.ExistsAccountUserName(ctx, userName, excludeID)
	if err != nil {
		return fmt.Errorf("check user name: %w", err)
	}
	if exists {
		return xe.Conflict(xe.KeyUserNameExists, "user name %q", userName)
	}
	return nil
}

// CheckIDs 拒绝空批次和 0 值 id。
func CheckIDs(key string, ids []uint) error {
	if len(ids) == 0 {
		return xe.Validation(key, "empty batch")
	}
	for i, id := range ids {
		if id == 0 {
			return xe.Validation(xe.KeyDataIncomplete, "ids[%d] is empty", i)
		}
	}
	return nil
}

// distinctIDs 去重并保持首次出现顺序。
func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// firstByID 按 id 去重，同一 id 只保留第一次出现的请求。
func firstByID[T any](reqs []T, id func(T) uint) []T {
	seen := make(map[uint]struct{}, len(reqs))
	out := make([]T, 0, len(reqs))
	for _, req := range reqs {
		if _, ok := seen[id(req)]; ok {
			continue
		}
		seen[id(req)] = struct{}{}
		out = append(out, req)
	}
	return out
}

func activeStatus(status *int) bool {
	return status == nil || *status == entity.StatusNormal
}
