package domain

import (
	"errors"
	"fmt"
)

// ErrKind groups errors by how the transport should answer them.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"      // 400
	KindUnauthorized   ErrKind = "unauthorized"    // 401
	KindNotFound       ErrKind = "not_found"       // 404
	KindConflict       ErrKind = "conflict"        // 409
	KindRateLimited    ErrKind = "rate_limited"    // 429
	KindNotImplemented ErrKind = "not_implemented" // 501
	KindInfrastructure ErrKind = "infrastructure"  // 503
	KindInternal       ErrKind = "internal"        // 500
)

// Stable machine codes. Clients match on these; do not rename.
const (
	CodeInvalidJSON        = "invalid_json"
	CodeMissingField       = "missing_field"
	CodeInvalidField       = "invalid_field"
	CodeInvalidRole        = "invalid_role"
	CodeUserNotFound       = "user_not_found"
	CodeRoleNotFound       = "role_not_found"
	CodeUnitNotFound       = "unit_not_found"
	CodeMealTypeNotFound   = "meal_type_not_found"
	CodePermissionNotFound = "permission_not_found"
	CodeEmailExists        = "email_already_exists"
	CodeRoleExists         = "role_already_exists"
	CodeRoleInUse          = "role_in_use"
	CodeCatalogEntryExists = "catalog_entry_exists"
	CodePermissionExists   = "permission_already_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenInvalid       = "token_invalid"
	CodeTokenExpired       = "token_expired"
	CodeRefreshInvalid     = "refresh_token_invalid"
	CodeTokenSignFailed    = "token_sign_failed"
	CodeSessionUnavailable = "session_store_unavailable"
	CodeRateLimited        = "rate_limited"
	CodeDBUnavailable      = "db_unavailable"
	CodeRabbitUnavailable  = "rabbit_unavailable"
	CodeDefaultRoleMissing = "default_role_missing"
	CodeInternal           = "internal_error"
	CodeNotImplemented     = "not_implemented"
)

// Error carries a client-safe Message and Meta next to the Cause that is
// only ever logged.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err wraps a domain error with the given code.
func Is(err error, code string) bool {
	de, ok := as(err)
	return ok && de.Code == code
}

func IsKind(err error, kind ErrKind) bool {
	de, ok := as(err)
	return ok && de.Kind == kind
}

func as(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

// validation

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, CodeInvalidJSON, "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, CodeMissingField, "missing required field"),
		map[string]string{"field": field})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, CodeInvalidField, "invalid field"),
		map[string]string{"field": field, "reason": reason})
}

// ErrInvalidRole: a user payload named a role the directory does not hold.
func ErrInvalidRole(role string) *Error {
	return WithMeta(New(KindValidation, CodeInvalidRole, "invalid role"),
		map[string]string{"role": role})
}

// not found

func ErrUserNotFound() *Error {
	return New(KindNotFound, CodeUserNotFound, "user not found")
}

func ErrRoleNotFound() *Error {
	return New(KindNotFound, CodeRoleNotFound, "role not found")
}

func ErrUnitNotFound() *Error {
	return New(KindNotFound, CodeUnitNotFound, "unit of measure not found")
}

func ErrMealTypeNotFound() *Error {
	return New(KindNotFound, CodeMealTypeNotFound, "meal type not found")
}

func ErrPermissionNotFound() *Error {
	return New(KindNotFound, CodePermissionNotFound, "permission not found")
}

// conflict

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, CodeEmailExists, "email already registered")
}

func ErrRoleAlreadyExists() *Error {
	return New(KindConflict, CodeRoleExists, "role name or friendly name already exists")
}

// ErrRoleInUse: users still hold the role.
func ErrRoleInUse() *Error {
	return New(KindConflict, CodeRoleInUse, "role is assigned to users")
}

func ErrCatalogEntryExists() *Error {
	return New(KindConflict, CodeCatalogEntryExists, "catalog entry already exists")
}

func ErrPermissionAlreadyExists() *Error {
	return New(KindConflict, CodePermissionExists, "permission name already exists")
}

// unauthorized

// ErrInvalidCredentials does not say which of email or password was wrong.
func ErrInvalidCredentials() *Error {
	return New(KindUnauthorized, CodeInvalidCredentials, "invalid email or password")
}

func ErrTokenInvalid() *Error {
	return New(KindUnauthorized, CodeTokenInvalid, "invalid access token")
}

func ErrTokenExpired() *Error {
	return New(KindUnauthorized, CodeTokenExpired, "access token expired")
}

// ErrRefreshTokenInvalid covers unknown, expired, rotated and revoked refresh tokens.
func ErrRefreshTokenInvalid() *Error {
	return New(KindUnauthorized, CodeRefreshInvalid, "invalid refresh token")
}

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, CodeRateLimited, "too many requests"),
		map[string]string{"scope": scope})
}

// infrastructure / internal

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeDBUnavailable, "database unavailable", cause)
}

func ErrRabbitUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeRabbitUnavailable, "message broker unavailable", cause)
}

// ErrDefaultRoleMissing: the default role was never seeded, or was deleted,
// so users without explicit roles cannot be created.
func ErrDefaultRoleMissing() *Error {
	return WithMeta(New(KindInternal, CodeDefaultRoleMissing, "default role is not configured"),
		map[string]string{"role": DefaultRoleName})
}

func ErrSessionUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeSessionUnavailable, "session store unavailable", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, CodeTokenSignFailed, "could not issue token", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, CodeInternal, "internal error", cause)
}

func ErrNotImplemented() *Error {
	return New(KindNotImplemented, CodeNotImplemented, "not implemented")
}
