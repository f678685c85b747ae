package xe

import (
	"errors"
	"fmt"
)

// Kind 错误分类，供接口层映射状态码。
type Kind string

const (
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindConsistency      Kind = "consistency"
	KindUnauthenticated  Kind = "unauthenticated"
)

// 消息键
const (
	KeyNoCreatePermission = "no.create.permission"
	KeyNoDeletePermission = "no.delete.permission"
	KeyNoUpdatePermission = "no.update.permission"
	KeyNoViewPermission   = "no.view.permission"

	KeyNoDataNeedCreate = "no.data.need.create"
	KeyNoDataNeedDelete = "no.data.need.delete"
	KeyNoDataNeedUpdate = "no.data.need.update"
	KeyNoDataNeedQuery  = "no.data.need.query"
	KeyDataIncomplete   = "data.incomplete"
	KeyStatusInvalid    = "status.invalid"

	KeyDuplicateData = "duplicate.data.found"
	KeyDataNotFound  = "data.not.found"

	KeyCreateDataFail = "create.data.fail"
	KeyUpdateDataFail = "update.data.fail"

	KeyUserNameBlank  = "user.username.not.blank"
	KeyPasswordBlank  = "user.password.not.blank"
	KeyUserNameExists = "user.username.exists"

	KeyInvalidCredentials = "user.login.invalid"
	KeyAccountDisabled    = "user.account.disabled"
)

// Error 带分类与消息键的领域错误。
type Error struct {
	Kind   Kind
	Key    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Key
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按分类匹配；target 带 Key 时同时比较 Key。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Key == "" || t.Key == e.Key
}

// 分类哨兵，用于 errors.Is。
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConsistency      = &Error{Kind: KindConsistency}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
)

func Validation(key string, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Key: key, Detail: fmt.Sprintf(format, args...)}
}

func Conflict(key string, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Key: key, Detail: fmt.Sprintf(format, args...)}
}

func PermissionDenied(key string, code string) *Error {
	return &Error{Kind: KindPermissionDenied, Key: key, Detail: code}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Key: KeyDataNotFound, Detail: fmt.Sprintf(format, args...)}
}

func Consistency(key string, format string, args ...any) *Error {
	return &Error{Kind: KindConsistency, Key: key, Detail: fmt.Sprintf(format, args...)}
}

func Unauthenticated(key string) *Error {
	return &Error{Kind: KindUnauthenticated, Key: key}
}

// KindOf 返回错误链上第一个领域错误的分类，没有则为空。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// KeyOf 返回错误链上第一个领域错误的消息键。
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
