package authz_test

import (
	"context"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

// fakeUserRepo implementación en memoria del puerto de perfiles para los tests.
type fakeUserRepo struct {
	users map[string]*entity.User
	err   error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	m := make(map[string]*entity.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateComercialRole(_ context.Context, targetID string, expectedCurrent *hierarchy.Role, update repository.RoleUpdate) (bool, error) {
	u, ok := f.users[targetID]
	if !ok {
		return false, nil
	}
	if !sameRole(u.ComercialRole, expectedCurrent) {
		return false, nil
	}
	u.ComercialRole = update.ComercialRole
	u.LocationID = update.LocationID
	u.ExternalID = update.ExternalID
	return true, nil
}

func sameRole(a, b *hierarchy.Role) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// fakeContactRepo implementación en memoria del puerto de contactos.
type fakeContactRepo struct {
	contacts []*entity.Contact
}

func (f *fakeContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	for _, c := range f.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) GetByIDs(_ context.Context, tenantID string, ids []string) ([]*entity.Contact, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.Contact
	for _, c := range f.contacts {
		if c.TenantID == tenantID && want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) List(_ context.Context, filter repository.ContactFilter) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range f.contacts {
		if matches(c, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) ListIDs(_ context.Context, filter repository.ContactFilter, cap int) ([]string, error) {
	var out []string
	for _, c := range f.contacts {
		if matches(c, filter) {
			out = append(out, c.ID)
			if len(out) == cap {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeContactRepo) Assign(_ context.Context, contactID, userID string) error {
	for _, c := range f.contacts {
		if c.ID == contactID {
			c.AssignedTo = &userID
			return nil
		}
	}
	return nil
}

// matches replica la traducción que hace el adaptador de persistencia del filtro.
func matches(c *entity.Contact, f repository.ContactFilter) bool {
	if f.TenantID != "" && c.TenantID != f.TenantID {
		return false
	}
	if f.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *f.AssignedTo) {
		return false
	}
	if f.LocationID != nil {
		if c.LocationID == nil {
			if !f.IncludeUnassignedLocation {
				return false
			}
		} else if *c.LocationID != *f.LocationID {
			return false
		}
	}
	if f.StatusID != nil && c.StatusID != *f.StatusID {
		return false
	}
	return true
}
