package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrAuthentication  = errors.New("sesión inválida o inexistente")
	ErrProfileNotFound = errors.New("perfil de usuario no encontrado")
	ErrMissingTenant   = errors.New("el perfil no tiene organización asignada")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrAccessDenied    = errors.New("acceso denegado")
	ErrValidation      = errors.New("entrada inválida")
	ErrBatchCreation   = errors.New("no se pudieron crear los lotes de la campaña")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrUnauthorized    = errors.New("no autorizado")
)

// AccessDeniedError denegación con contexto del recurso. Las violaciones de aislamiento
// de tenant se registran como evento de seguridad antes de propagar; las de jerarquía
// se deniegan en silencio (ver TenantGuard y RoleAssignmentValidator).
type AccessDeniedError struct {
	Resource string
	Reason   string
}

func (e *AccessDeniedError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s no pertenece a tu organización", e.Resource)
	}
	return e.Reason
}

// Is permite errors.Is(err, ErrAccessDenied) sobre el error tipado.
func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// ValidationError error recuperable de formulario (rol/sede/id externo inválidos).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BatchCreationError la creación de campaña hizo rollback completo; el usuario puede reintentar.
type BatchCreationError struct {
	CampaignID string
	Cause      error
}

func (e *BatchCreationError) Error() string {
	return fmt.Sprintf("no se pudieron crear los lotes de la campaña %s: %v", e.CampaignID, e.Cause)
}

func (e *BatchCreationError) Is(target error) bool { return target == ErrBatchCreation }
func (e *BatchCreationError) Unwrap() error        { return e.Cause }
