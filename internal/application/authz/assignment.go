package authz

import (
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
)

// AssignmentRequest cambio de rol comercial propuesto sobre un usuario objetivo.
type AssignmentRequest struct {
	// TargetCurrentRole rol comercial actual del objetivo. La verificación de
	// jerarquía se hace SIEMPRE contra el rango actual, no contra el solicitado:
	// quitar un rol a alguien más poderoso es tan grave como dárselo.
	TargetCurrentRole *hierarchy.Role
	// TargetIsNew true para invitaciones: el objetivo aún no tiene cuenta y por
	// tanto no tiene rango que lo proteja.
	TargetIsNew bool
	// RequestedRole nil revoca el rol comercial.
	RequestedRole     *hierarchy.Role
	RequestedLocation *string
	// ExternalID identificador de conciliación con el CRM externo; obligatorio
	// para todo otorgamiento de rol no nulo.
	ExternalID *string
}

// ValidateAssignment decide si el actor puede aplicar el cambio de rol.
// No persiste nada: la mutación posterior debe ser un compare-and-set atómico
// sobre la fila del objetivo (ver UserRepository.UpdateComercialRole).
// Las denegaciones de jerarquía no se registran (denegación silenciosa).
func ValidateAssignment(actor UserScope, req AssignmentRequest) error {
	actorRank := actor.Rank()
	var targetRank *int
	if !req.TargetIsNew {
		r := hierarchy.Rank(req.TargetCurrentRole)
		targetRank = &r
	}
	if !hierarchy.CanManage(actorRank, targetRank) {
		return &domain.AccessDeniedError{Reason: "no puedes gestionar a un usuario de rango igual o superior"}
	}
	if req.RequestedRole == nil {
		return nil
	}
	if !hierarchy.Valid(*req.RequestedRole) {
		return &domain.ValidationError{Field: "comercial_role", Reason: "rol comercial desconocido"}
	}
	if *req.RequestedRole == hierarchy.DirectorSede && (req.RequestedLocation == nil || *req.RequestedLocation == "") {
		return &domain.ValidationError{Field: "location_id", Reason: "la sede es obligatoria para director_sede"}
	}
	if req.ExternalID == nil || *req.ExternalID == "" {
		return &domain.ValidationError{Field: "external_id", Reason: "el id externo es obligatorio al otorgar un rol comercial"}
	}
	return nil
}
