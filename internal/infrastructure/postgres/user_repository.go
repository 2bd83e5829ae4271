package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
	"github.com/vendemia/crm-api/internal/domain/hierarchy"
	"github.com/vendemia/crm-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, tenant_id, email, password_hash, full_name, account_role, comercial_role, location_id, external_id, status, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.FullName,
		user.AccountRole, roleToText(user.ComercialRole), user.LocationID, user.ExternalID,
		user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	u, err := scanUser(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListByTenant lista usuarios por tenant con paginación.
func (r *UserRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpdateComercialRole aplica el cambio de rol como compare-and-set sobre la fila:
// solo escribe si el rol comercial actual sigue siendo expectedCurrent. Devuelve
// false cuando la precondición ya no se cumple (otro otorgamiento ganó la carrera).
func (r *UserRepo) UpdateComercialRole(ctx context.Context, targetID string, expectedCurrent *hierarchy.Role, update repository.RoleUpdate) (bool, error) {
	query := `
		UPDATE users
		SET comercial_role = $3, location_id = $4, external_id = $5, updated_at = NOW()
		WHERE id = $1 AND comercial_role IS NOT DISTINCT FROM $2`
	tag, err := r.q.Exec(ctx, query,
		targetID, roleToText(expectedCurrent),
		roleToText(update.ComercialRole), update.LocationID, update.ExternalID,
	)
	if err != nil {
		return false, fmt.Errorf("update comercial role: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var u entity.User
	var tenantID *string
	var comercialRole *string
	err := row.Scan(
		&u.ID, &tenantID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.AccountRole, &comercialRole, &u.LocationID, &u.ExternalID,
		&u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tenantID != nil {
		u.TenantID = *tenantID
	}
	if comercialRole != nil {
		r := hierarchy.Role(*comercialRole)
		u.ComercialRole = &r
	}
	return &u, nil
}

func roleToText(r *hierarchy.Role) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}
