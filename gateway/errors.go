package gateway

import (
	"net/http"

	"github.com/goliatone/go-apicall/core"
	goerrors "github.com/goliatone/go-errors"
)

func gatewayError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func gatewayWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return gatewayError(message, category, code, textCode, metadata)
	}
	var rich *goerrors.Error
	if goerrors.As(source, &rich) {
		return rich
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func gatewayBadInput(message string, metadata map[string]any) error {
	return gatewayError(message, goerrors.CategoryBadInput, http.StatusBadRequest, core.ErrorBadInput, metadata)
}

func gatewayInternal(message string, metadata map[string]any) error {
	return gatewayError(message, goerrors.CategoryInternal, http.StatusInternalServerError, core.ErrorInternal, metadata)
}

func gatewayUnauthenticated(message string, metadata map[string]any) error {
	return gatewayError(message, goerrors.CategoryAuth, http.StatusUnauthorized, core.ErrorUnauthenticated, metadata)
}

func gatewayForbidden(message string, metadata map[string]any) error {
	return gatewayError(message, goerrors.CategoryAuthz, http.StatusForbidden, core.ErrorForbidden, metadata)
}
