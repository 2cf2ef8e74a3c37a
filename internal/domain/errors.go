package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Motor de generación de tareas recurrentes.
	ErrInvalidRecurrence = errors.New("configuración de recurrencia inválida")
	ErrInvalidDeadline   = errors.New("la nueva fecha límite debe ser posterior a hoy")
	ErrDuplicateTask     = errors.New("ya existe una tarea para esa obligación, empresa y competencia")
	ErrTaskRectified     = errors.New("una tarea rectificada no admite más cambios")
)
