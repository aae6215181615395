package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (domain.Role, error) {
	const q = `SELECT id, name, friendly_name FROM role WHERE id = $1 LIMIT 1;`
	return r.getOne(ctx, q, id)
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (domain.Role, error) {
	const q = `SELECT id, name, friendly_name FROM role WHERE name = $1 LIMIT 1;`
	return r.getOne(ctx, q, name)
}

func (r *RoleRepo) getOne(ctx context.Context, q string, arg any) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&role.ID, &role.Name, &role.FriendlyName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Role{}, domain.ErrRoleNotFound()
		}
		return domain.Role{}, domain.ErrDBUnavailable(err)
	}
	return role, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	const q = `SELECT id, name, friendly_name FROM role ORDER BY id;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.FriendlyName); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *RoleRepo) Create(ctx context.Context, role domain.Role) (domain.Role, error) {
	const q = `
INSERT INTO role (name, friendly_name)
VALUES ($1, $2)
RETURNING id;
`
	err := r.db.QueryRowContext(ctx, q, role.Name, role.FriendlyName).Scan(&role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
		return domain.Role{}, domain.ErrDBUnavailable(err)
	}
	return role, nil
}

func (r *RoleRepo) Update(ctx context.Context, role domain.Role) (domain.Role, error) {
	const q = `UPDATE role SET name = $2, friendly_name = $3 WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, role.ID, role.Name, role.FriendlyName)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Role{}, domain.ErrRoleAlreadyExists()
		}
		return domain.Role{}, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.Role{}, domain.ErrRoleNotFound()
	}
	return role, nil
}

// Delete relies on the ON DELETE RESTRICT foreign key from user_roles;
// role_permissions rows cascade.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM role WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRoleInUse()
		}
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrRoleNotFound()
	}
	return nil
}
