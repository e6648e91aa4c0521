package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `u.id, u.organization_id, u.email, u.password_hash, u.name, u.role, u.provider,
	u.created_at, u.updated_at, o.name`

const userFrom = ` FROM users u JOIN organizations o ON o.id = u.organization_id`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Email repetido en la organización → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, organization_id, email, password_hash, name, role, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.Name, user.Role, user.Provider,
		user.CreatedAt, user.UpdatedAt,
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
	return r.get(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id)
}

// GetByEmail obtiene el usuario más antiguo con ese email (cualquier organización).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+userFrom+` WHERE u.email = $1 ORDER BY u.created_at LIMIT 1`, email)
}

// GetByEmailAndOrganization obtiene un usuario por email dentro de una organización.
func (r *UserRepo) GetByEmailAndOrganization(ctx context.Context, email, organizationID string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+userFrom+` WHERE u.email = $1 AND u.organization_id = $2`, email, organizationID)
}

// ListByOrganization usuarios de la organización, más recientes primero.
func (r *UserRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+userFrom+` WHERE u.organization_id = $1 ORDER BY u.created_at DESC`, organizationID)
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

// CountByRole cuenta usuarios de la organización con un rol.
func (r *UserRepo) CountByRole(ctx context.Context, organizationID, role string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE organization_id = $1 AND role = $2`, organizationID, role,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Delete elimina un usuario de la organización.
func (r *UserRepo) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM users WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Provider,
		&u.CreatedAt, &u.UpdatedAt, &u.OrganizationName,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
