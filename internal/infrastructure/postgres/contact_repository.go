package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación del puerto ContactRepository sobre PostgreSQL.
// Traduce el ContactFilter ya estrechado por el filtro de visibilidad a WHERE;
// la regla de autorización nunca vive aquí.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, tenant_id, nombre, numero, location_id, assigned_to, status_id, attributes, created_at, updated_at`

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact by id: %w", err)
	}
	return c, nil
}

// GetByIDs resuelve una selección de contactos dentro de un tenant.
func (r *ContactRepo) GetByIDs(ctx context.Context, tenantID string, ids []string) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE tenant_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("get contacts by ids: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// List lista contactos según el filtro componible.
func (r *ContactRepo) List(ctx context.Context, f repository.ContactFilter) ([]*entity.Contact, error) {
	where, args := buildContactWhere(f)
	query := fmt.Sprintf(`
		SELECT %s FROM contacts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, contactColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// ListIDs devuelve como máximo cap ids que cumplen el filtro (recorte silencioso).
func (r *ContactRepo) ListIDs(ctx context.Context, f repository.ContactFilter, cap int) ([]string, error) {
	where, args := buildContactWhere(f)
	query := fmt.Sprintf(`SELECT id FROM contacts WHERE %s LIMIT $%d`, where, len(args)+1)
	args = append(args, cap)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contact ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan contact id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Assign asigna el contacto a un comercial.
func (r *ContactRepo) Assign(ctx context.Context, contactID, userID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE contacts SET assigned_to = $2, updated_at = NOW() WHERE id = $1`,
		contactID, userID,
	)
	if err != nil {
		return fmt.Errorf("assign contact: %w", err)
	}
	return nil
}

// buildContactWhere traduce el filtro a predicados SQL parametrizados.
// nombre_normalizado se mantiene por trigger en minúsculas y sin acentos, igual
// que normaliza el caso de uso el término de búsqueda.
func buildContactWhere(f repository.ContactFilter) (string, []any) {
	where := `tenant_id = $1`
	args := []any{f.TenantID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND (nombre_normalizado LIKE $%d OR numero LIKE $%d)`, len(args), len(args))
	}
	if f.StatusID != nil {
		args = append(args, *f.StatusID)
		where += fmt.Sprintf(` AND status_id = $%d`, len(args))
	}
	if f.AssignedTo != nil {
		args = append(args, *f.AssignedTo)
		where += fmt.Sprintf(` AND assigned_to = $%d`, len(args))
	}
	if f.LocationID != nil {
		args = append(args, *f.LocationID)
		if f.IncludeUnassignedLocation {
			where += fmt.Sprintf(` AND (location_id = $%d OR location_id IS NULL)`, len(args))
		} else {
			where += fmt.Sprintf(` AND location_id = $%d`, len(args))
		}
	}
	return where, args
}

func collectContacts(rows pgx.Rows) ([]*entity.Contact, error) {
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanContact(row rowScanner) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Nombre, &c.Numero, &c.LocationID,
		&c.AssignedTo, &c.StatusID, &c.Attributes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
