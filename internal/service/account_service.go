package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"warden/internal/auth"
	"warden/internal/authz"
	"warden/internal/entity"
	"warden/internal/entity/dto"
	"warden/internal/xe"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountService 登录账户管理
type AccountService struct {
	core *Core
}

// NewAccountService 创建账户服务
func NewAccountService(core *Core) *AccountService {
	return &AccountService{core: core}
}

// AddAccount 新增登录账户，默认启用。
func (s *AccountService) AddAccount(ctx context.Context, actor uint, req dto.AccountCreateRequest) (*entity.Account, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeAddAccount); err != nil {
		return nil, err
	}
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, xe.Validation(xe.KeyUserNameBlank, "user name is blank")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, xe.Validation(xe.KeyPasswordBlank, "password is blank")
	}
	req.UserName = userName
	if err := s.core.Validator.Struct(xe.KeyDataIncomplete, req); err != nil {
		return nil, err
	}

	status := entity.AccountStatusEnabled
	if req.Status != nil {
		status = *req.Status
	}
	if !entity.ValidAccountStatus(status) || status == entity.AccountStatusDeregistered {
		return nil, xe.Validation(xe.KeyStatusInvalid, "status %d", status)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &entity.Account{
		UserName:     userName,
		PasswordHash: hash,
		Status:       status,
		Audit:        entity.NewStamp(actor, s.core.Now()).Audit(),
	}
	err = s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.core.Validator.CheckUserName(ctx, userName, 0); err != nil {
			return err
		}
		return s.core.Repo.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"actor": actor, "account_id": account.ID, "user_name": userName}).Info("account created")
	return account, nil
}

// DeregisterAccounts 批量注销账户。超级管理员始终被排除，其余 id 照常处理。
func (s *AccountService) DeregisterAccounts(ctx context.Context, actor uint, ids []uint) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeDeleteAccount); err != nil {
		return 0, err
	}
	if err := CheckIDs(xe.KeyNoDataNeedDelete, ids); err != nil {
		return 0, err
	}
	targets := excludeSuperAdmin(distinctIDs(ids))
	if len(targets) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedDelete, "only the super admin was submitted")
	}

	n, err := s.core.Repo.UpdateAccountStatusByIDs(ctx, targets, entity.AccountStatusDeregistered, entity.NewStamp(actor, s.core.Now()))
	if err != nil {
		return 0, fmt.Errorf("deregister accounts: %w", err)
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "requested": len(ids), "deregistered": n}).Info("accounts deregistered")
	return n, nil
}

// UpdateAccounts 批量修改账户。超级管理员被过滤，同一 id 只取第一条；
// 一个都不存在时返回 NotFound，部分不存在时整批拒绝。注销是终态。
func (s *AccountService) UpdateAccounts(ctx context.Context, actor uint, reqs []dto.AccountUpdateRequest) (int64, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeUpdateAccount); err != nil {
		return 0, err
	}
	if len(reqs) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedUpdate, "empty account batch")
	}
	for i := range reqs {
		if err := s.core.Validator.Struct(xe.KeyDataIncomplete, reqs[i]); err != nil {
			return 0, err
		}
		if reqs[i].UserName == nil && reqs[i].Password == nil && reqs[i].Status == nil {
			return 0, xe.Validation(xe.KeyDataIncomplete, "account %d has nothing to update", reqs[i].ID)
		}
	}

	filtered := make([]dto.AccountUpdateRequest, 0, len(reqs))
	for _, req := range firstByID(reqs, func(r dto.AccountUpdateRequest) uint { return r.ID }) {
		if req.ID != entity.SuperAdminAccountID {
			filtered = append(filtered, req)
		}
	}
	if len(filtered) == 0 {
		return 0, xe.Validation(xe.KeyNoDataNeedUpdate, "only the super admin was submitted")
	}

	stamp := entity.NewStamp(actor, s.core.Now())
	var updated int64
	err := s.core.Repo.Transaction(ctx, func(ctx context.Context) error {
		ids := make([]uint, 0, len(filtered))
		for _, req := range filtered {
			ids = append(ids, req.ID)
		}
		existing, err := s.core.Repo.FindAccountsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return xe.NotFound("accounts %v", ids)
		}
		if len(existing) != len(ids) {
			return xe.Validation(xe.KeyNoDataNeedUpdate, "found %d of %d accounts", len(existing), len(ids))
		}
		byID := make(map[uint]entity.Account, len(existing))
		for _, account := range existing {
			byID[account.ID] = account
		}

		for _, req := range filtered {
			current := byID[req.ID]
			updates, err := s.accountUpdates(ctx, current, req)
			if err != nil {
				return err
			}
			if err := s.core.Repo.UpdateAccount(ctx, req.ID, updates, stamp); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"actor": actor, "requested": len(reqs), "updated": updated}).Info("accounts updated")
	return updated, nil
}

func (s *AccountService) accountUpdates(ctx context.Context, current entity.Account, req dto.AccountUpdateRequest) (entity.AccountUpdates, error) {
	var updates entity.AccountUpdates
	if req.UserName != nil {
		name := strings.TrimSpace(*req.UserName)
		if err := s.core.Validator.CheckUserName(ctx, name, current.ID); err != nil {
			return updates, err
		}
		updates.UserName = &name
	}
	if req.Password != nil {
		if strings.TrimSpace(*req.Password) == "" {
			return updates, xe.Validation(xe.KeyPasswordBlank, "password is blank")
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return updates, fmt.Errorf("hash password: %w", err)
		}
		updates.PasswordHash = &hash
	}
	if req.Status != nil {
		if !entity.CanTransitAccountStatus(current.Status, *req.Status) {
			return updates, xe.Validation(xe.KeyStatusInvalid, "account %d: %d -> %d", current.ID, current.Status, *req.Status)
		}
		status := *req.Status
		updates.Status = &status
	}
	return updates, nil
}

// QueryAccounts 分页查询账户。
func (s *AccountService) QueryAccounts(ctx context.Context, actor uint, params *entity.AccountQuery) ([]entity.Account, *entity.Meta, error) {
	if err := s.core.Gate.Require(ctx, actor, authz.CodeQueryAccount); err != nil {
		return nil, nil, err
	}
	return s.core.Repo.ListAccounts(ctx, params)
}

// GetAccount 按 ID 读取账户，不存在返回 NotFound。
func (s *AccountService) GetAccount(ctx context.Context, id uint) (*entity.Account, error) {
	account, err := s.core.Repo.GetAccountByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.NotFound("account %d", id)
	}
	return account, err
}

// Authenticate 校验登录名和密码，只有启用状态的账户可以登录。
// 旧的 MD5 摘要校验通过后会改写为 bcrypt。
func (s *AccountService) Authenticate(ctx context.Context, userName, password string) (*entity.Account, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, xe.Validation(xe.KeyUserNameBlank, "user name is blank")
	}
	if password == "" {
		return nil, xe.Validation(xe.KeyPasswordBlank, "password is blank")
	}

	account, err := s.core.Repo.GetAccountByUserName(ctx, userName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.Unauthenticated(xe.KeyInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, xe.Unauthenticated(xe.KeyInvalidCredentials)
		}
		return nil, err
	}
	if !account.IsEnabled() {
		return nil, xe.Unauthenticated(xe.KeyAccountDisabled)
	}

	if auth.IsLegacyHash(account.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			stamp := entity.NewStamp(account.ID, s.core.Now())
			if err := s.core.Repo.UpdateAccount(ctx, account.ID, entity.AccountUpdates{PasswordHash: &hash}, stamp); err != nil {
				logrus.WithError(err).WithField("account_id", account.ID).Warn("failed to upgrade legacy password hash")
			} else {
				account.PasswordHash = hash
			}
		}
	}
	return account, nil
}

func excludeSuperAdmin(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != entity.SuperAdminAccountID {
			out = append(out, id)
		}
	}
	return out
}
