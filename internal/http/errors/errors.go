// Package errors define el contrato de errores HTTP del servicio y el
// mapeo desde los errores sentinel de la capa de dominio.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// errorResponse estructura interna para la serialización JSON.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte cualquier error en un AppError, mapeando los
// sentinels del dominio a su status HTTP.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case repository.IsNotFound(err):
		return ErrNotFound.WithCause(err)
	case errors.Is(err, repository.ErrNotPending):
		return ErrReportNotPending.WithCause(err)
	case errors.Is(err, repository.ErrAlreadyRevoked),
		errors.Is(err, repository.ErrAlreadyUnbanned):
		return ErrConflict.WithDetail(err.Error()).WithCause(err)
	case repository.IsConflict(err):
		return ErrConflict.WithDetail(err.Error()).WithCause(err)
	case repository.IsInvalidInput(err):
		return ErrBadRequest.WithDetail(err.Error()).WithCause(err)
	case repository.IsPermissionDenied(err):
		return ErrForbidden.WithCause(err)
	default:
		return ErrInternalServerError.WithCause(err)
	}
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
