package service

import (
	"errors"
	"net/http"
)

// Kind classifies an expected failure so the HTTP layer can pick a status.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthRequired
	KindForbidden
	KindInvalidInput
	KindConflict
	KindNotFound
	KindIOFailure
)

// Error is an expected outcome of a service call. Code is the stable string
// sent to clients; Err carries the underlying fault for IO failures and is
// only ever logged.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by code so a wrapped IO failure still compares equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Code == e.Code
}

func newError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// withCause returns sentinel carrying err as its cause.
func withCause(sentinel *Error, err error) error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Err: err}
}

var (
	ErrAuthRequired         = newError(KindAuthRequired, "auth_required")
	ErrInvalidCredentials   = newError(KindAuthRequired, "invalid_credentials")
	ErrAdminOnly            = newError(KindForbidden, "admin_only")
	ErrRegistrationDisabled = newError(KindForbidden, "registration_disabled")

	ErrUserFieldsRequired     = newError(KindInvalidInput, "nickname_email_and_password_required")
	ErrInvalidPath            = newError(KindInvalidInput, "invalid_path")
	ErrPathIsDirectory        = newError(KindInvalidInput, "path_is_directory")
	ErrNotADirectory          = newError(KindInvalidInput, "not_a_directory")
	ErrNameRequired           = newError(KindInvalidInput, "name_required")
	ErrNameAndContentRequired = newError(KindInvalidInput, "name_and_content_required")
	ErrInvalidContent         = newError(KindInvalidInput, "invalid_content")
	ErrTitleRequired          = newError(KindInvalidInput, "title_required")
	ErrInvalidID              = newError(KindInvalidInput, "invalid_id")
	ErrDirNotEmpty            = newError(KindInvalidInput, "dir_not_empty")
	ErrInvalidSetting         = newError(KindInvalidInput, "invalid_setting")

	ErrEmailExists = newError(KindConflict, "email_exists")

	ErrNotFound = newError(KindNotFound, "not_found")

	ErrWriteFailed  = newError(KindIOFailure, "write_failed")
	ErrMkdirFailed  = newError(KindIOFailure, "mkdir_failed")
	ErrDeleteFailed = newError(KindIOFailure, "delete_failed")
)

// CodeOf returns the client-facing code of err, "internal_error" for
// anything unclassified.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// KindOf returns the kind of err. Anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
