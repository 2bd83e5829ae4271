package usecase

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vendemia/crm-api/internal/application/authz"
	"github.com/vendemia/crm-api/internal/application/dto"
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// ContactUseCase listados y asignación de contactos, siempre bajo el filtro de
// visibilidad del alcance del solicitante.
type ContactUseCase struct {
	contacts   repository.ContactRepository
	users      repository.UserRepository
	guard      *authz.TenantGuard
	visibility *authz.VisibilityFilter
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(contacts repository.ContactRepository, users repository.UserRepository, guard *authz.TenantGuard, visibility *authz.VisibilityFilter) *ContactUseCase {
	return &ContactUseCase{contacts: contacts, users: users, guard: guard, visibility: visibility}
}

// List devuelve los contactos visibles para el alcance, con búsqueda
// insensible a acentos (los nombres del CRM son en español).
func (uc *ContactUseCase) List(ctx context.Context, scope authz.UserScope, in dto.ListContactsRequest) ([]*dto.ContactResponse, error) {
	in.DefaultPage()
	f := repository.ContactFilter{
		Search: normalizeSearch(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.StatusID != "" {
		f.StatusID = &in.StatusID
	}
	f = uc.visibility.ApplyVisibility(f, scope)

	list, err := uc.contacts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContactResponse(c))
	}
	return out, nil
}

// VisibleIDs materializa el conjunto de ids visibles (restricted=false = no filtrar).
func (uc *ContactUseCase) VisibleIDs(ctx context.Context, scope authz.UserScope) (*dto.VisibleIDsResponse, error) {
	ids, restricted, err := uc.visibility.VisibleContactIDs(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &dto.VisibleIDsResponse{Restricted: restricted, IDs: ids}, nil
}

// Assign asigna un contacto a un comercial del mismo tenant. El actor debe poder
// ver el contacto, y un comercial raso no reasigna (solo directores y admins).
func (uc *ContactUseCase) Assign(ctx context.Context, scope authz.UserScope, contactID, targetUserID string) error {
	contact, err := uc.contacts.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return domain.ErrNotFound
	}
	if err := uc.guard.AssertTenantAccess(contact.TenantID, scope, "contacto"); err != nil {
		return err
	}
	if !uc.visibility.CanSeeContact(contact, scope) {
		return &domain.AccessDeniedError{Reason: "el contacto está fuera de tu visibilidad"}
	}
	if scope.Rank() > hierarchy.RankDirectorSede {
		return &domain.AccessDeniedError{Reason: "un comercial no puede reasignar contactos"}
	}
	target, err := uc.users.GetByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return &domain.ValidationError{Field: "user_id", Reason: "el usuario destino no existe"}
	}
	if err := uc.guard.AssertTenantAccess(target.TenantID, scope, "usuario"); err != nil {
		return err
	}
	return uc.contacts.Assign(ctx, contactID, targetUserID)
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:         c.ID,
		Nombre:     c.Nombre,
		Numero:     c.Numero,
		LocationID: c.LocationID,
		AssignedTo: c.AssignedTo,
		StatusID:   c.StatusID,
		Attributes: c.Attributes,
		CreatedAt:  c.CreatedAt,
	}
}

// normalizeSearch pasa el término a minúsculas y elimina diacríticos
// ("María" -> "maria") para que la búsqueda case con la columna normalizada.
func normalizeSearch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
