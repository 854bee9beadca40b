package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput        = "APICALL_BAD_INPUT"
	ErrorUnauthenticated = "APICALL_UNAUTHENTICATED"
	ErrorForbidden       = "APICALL_FORBIDDEN"
	ErrorNotFound        = "APICALL_NOT_FOUND"
	ErrorConflict        = "APICALL_CONFLICT"
	ErrorHookFailed      = "APICALL_HOOK_FAILED"
	ErrorRateLimited     = "APICALL_RATE_LIMITED"
	ErrorInternal        = "APICALL_INTERNAL_ERROR"
)

// ConstructionError reports a collaborator missing at build time.
func ConstructionError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal).
		WithSeverity(goerrors.SeverityCritical)
}

// HookError is surfaced only under HookErrorPolicyReturn. On the failure
// path Cause holds the original error and Unwrap exposes both.
type HookError struct {
	Hook  string
	Name  string
	Err   error
	Cause error
}

func (e *HookError) Error() string {
	if e == nil {
		return "core: hook failed"
	}
	msg := fmt.Sprintf("core: %s hook for %q failed", e.Hook, e.Name)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Cause != nil {
		msg += " (original error: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *HookError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *HookError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryOperation).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorHookFailed).
		WithMetadata(map[string]any{"hook": e.Hook, "name": e.Name})
}

// IsHookError reports whether err carries a HookError.
func IsHookError(err error) bool {
	var hookErr *HookError
	return errors.As(err, &hookErr)
}

// ErrorTextCode returns the go-errors text code carried by err, if any.
func ErrorTextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return strings.TrimSpace(rich.TextCode)
	}
	return ""
}
