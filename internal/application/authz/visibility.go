package authz

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// VisibilityConfig parámetros de la visibilidad de contactos.
type VisibilityConfig struct {
	// IncludeUnassignedInSede si true, director_sede ve también contactos sin sede.
	// El producto mantiene ambas variantes; la estricta (false) es la por defecto.
	IncludeUnassignedInSede bool
	// VisibleIDsCap tope de ids materializados por VisibleContactIDs.
	VisibleIDsCap int
}

// VisibilityFilter estrecha consultas de contactos a lo que el rol comercial del
// solicitante permite. Es composición de predicados, no una lectura de datos:
// el adaptador de persistencia traduce el filtro resultante.
type VisibilityFilter struct {
	cfg      VisibilityConfig
	contacts repository.ContactRepository
}

// NewVisibilityFilter construye el filtro.
func NewVisibilityFilter(cfg VisibilityConfig, contacts repository.ContactRepository) *VisibilityFilter {
	return &VisibilityFilter{cfg: cfg, contacts: contacts}
}

// ApplyVisibility devuelve el filtro estrechado según el alcance:
//   - sin rol comercial o director_comercial_general: identidad (acceso total al tenant)
//   - director_sede: contactos de su sede (y sin sede, si la variante amplia está activa)
//   - comercial: solo contactos asignados a él
//
// Un rol desconocido cae al caso más restrictivo (asignados a sí mismo): falla cerrado.
func (v *VisibilityFilter) ApplyVisibility(f repository.ContactFilter, scope UserScope) repository.ContactFilter {
	f.TenantID = scope.TenantID
	if scope.ComercialRole == nil {
		return f
	}
	switch *scope.ComercialRole {
	case hierarchy.DirectorComercialGeneral:
		return f
	case hierarchy.DirectorSede:
		loc := ""
		if scope.LocationID != nil {
			loc = *scope.LocationID
		}
		// Un director de sede sin sede configurada no ve nada: el puntero a cadena
		// vacía no casa con ninguna fila.
		f.LocationID = &loc
		f.IncludeUnassignedLocation = v.cfg.IncludeUnassignedInSede
		return f
	case hierarchy.Comercial:
		userID := scope.UserID
		f.AssignedTo = &userID
		return f
	default:
		userID := scope.UserID
		f.AssignedTo = &userID
		return f
	}
}

// CanSeeContact predicado puro equivalente a ApplyVisibility sobre un contacto ya
// cargado. Asume que el aislamiento de tenant ya fue verificado por TenantGuard.
func (v *VisibilityFilter) CanSeeContact(c *entity.Contact, scope UserScope) bool {
	if scope.ComercialRole == nil {
		return true
	}
	switch *scope.ComercialRole {
	case hierarchy.DirectorComercialGeneral:
		return true
	case hierarchy.DirectorSede:
		if scope.LocationID == nil {
			return false
		}
		if c.LocationID == nil {
			return v.cfg.IncludeUnassignedInSede
		}
		return *c.LocationID == *scope.LocationID
	case hierarchy.Comercial:
		return c.AssignedTo != nil && *c.AssignedTo == scope.UserID
	default:
		return false
	}
}

// VisibleContactIDs materializa el conjunto de ids visibles para el alcance.
// restricted=false significa "sin restricción: no filtrar" (el llamador NO debe
// interpretarlo como conjunto vacío). El resultado se recorta en silencio al tope
// configurado para acotar el costo de la consulta; el recorte es una limitación
// documentada, no una garantía de corrección.
func (v *VisibilityFilter) VisibleContactIDs(ctx context.Context, scope UserScope) (ids []string, restricted bool, err error) {
	if scope.ComercialRole == nil || *scope.ComercialRole == hierarchy.DirectorComercialGeneral {
		return nil, false, nil
	}
	f := v.ApplyVisibility(repository.ContactFilter{}, scope)
	ids, err = v.contacts.ListIDs(ctx, f, v.cfg.VisibleIDsCap)
	if err != nil {
		return nil, true, err
	}
	return ids, true, nil
}
