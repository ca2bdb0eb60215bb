package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: grant activo duplicado,
	// ban sobre un moderador).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPermissionDenied indica que el actor no tiene autoridad en el scope.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyRevoked indica que el grant ya fue revocado.
	ErrAlreadyRevoked = errors.New("grant already revoked")

	// ErrAlreadyUnbanned indica que el ban ya fue cerrado.
	ErrAlreadyUnbanned = errors.New("ban already lifted")

	// ErrNotPending indica una transición sobre un report terminal.
	ErrNotPending = errors.New("report is not pending")

	// ErrStorage envuelve fallas de la capa de almacenamiento.
	// Este core nunca reintenta: la política de retry es del caller.
	ErrStorage = errors.New("storage failure")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsPermissionDenied verifica si el error es ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorage verifica si el error es una falla de storage.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
