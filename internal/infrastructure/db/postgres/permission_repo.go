package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/nutrition-service/internal/domain"
)

const permissionColumns = `id, name, description, created_at, updated_at`

type PermissionRepo struct {
	db *sql.DB
}

func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

func scanPermission(s rowScanner) (domain.Permission, error) {
	var (
		p    domain.Permission
		desc sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Permission{}, err
	}
	p.Description = fromNull(desc)
	return p, nil
}

func (r *PermissionRepo) List(ctx context.Context) ([]domain.Permission, error) {
	const q = `SELECT ` + permissionColumns + ` FROM permission ORDER BY id;`
	return r.query(ctx, q)
}

func (r *PermissionRepo) GetByID(ctx context.Context, id int64) (domain.Permission, error) {
	const q = `SELECT ` + permissionColumns + ` FROM permission WHERE id = $1 LIMIT 1;`
	return r.getOne(ctx, q, id)
}

func (r *PermissionRepo) GetByName(ctx context.Context, name string) (domain.Permission, error) {
	const q = `SELECT ` + permissionColumns + ` FROM permission WHERE name = $1 LIMIT 1;`
	return r.getOne(ctx, q, name)
}

func (r *PermissionRepo) getOne(ctx context.Context, q string, arg any) (domain.Permission, error) {
	p, err := scanPermission(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Permission{}, domain.ErrPermissionNotFound()
		}
		return domain.Permission{}, domain.ErrDBUnavailable(err)
	}
	return p, nil
}

func (r *PermissionRepo) Create(ctx context.Context, p domain.Permission) (domain.Permission, error) {
	const q = `
INSERT INTO permission (name, description)
VALUES ($1, $2)
RETURNING ` + permissionColumns + `;
`
	created, err := scanPermission(r.db.QueryRowContext(ctx, q, p.Name, toNull(p.Description)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Permission{}, domain.ErrPermissionAlreadyExists()
		}
		return domain.Permission{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

func (r *PermissionRepo) Update(ctx context.Context, p domain.Permission) (domain.Permission, error) {
	const q = `
UPDATE permission
SET name = $2, description = $3, updated_at = now()
WHERE id = $1
RETURNING ` + permissionColumns + `;
`
	updated, err := scanPermission(r.db.QueryRowContext(ctx, q, p.ID, p.Name, toNull(p.Description)))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.Permission{}, domain.ErrPermissionNotFound()
		case isUniqueViolation(err):
			return domain.Permission{}, domain.ErrPermissionAlreadyExists()
		}
		return domain.Permission{}, domain.ErrDBUnavailable(err)
	}
	return updated, nil
}

// Delete lets the role_permissions foreign key cascade the grants.
func (r *PermissionRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM permission WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrPermissionNotFound()
	}
	return nil
}

func (r *PermissionRepo) ListByRole(ctx context.Context, roleID int64) ([]domain.Permission, error) {
	const q = `
SELECT p.id, p.name, p.description, p.created_at, p.updated_at
FROM role_permissions rp
JOIN permission p ON p.id = rp.permission_id
WHERE rp.role_id = $1
ORDER BY p.id;
`
	return r.query(ctx, q, roleID)
}

func (r *PermissionRepo) Grant(ctx context.Context, roleID, permissionID int64) error {
	const q = `
INSERT INTO role_permissions (role_id, permission_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, q, roleID, permissionID); err != nil {
		if isForeignKeyViolation(err) {
			if strings.Contains(pgConstraint(err), "role_id") {
				return domain.ErrRoleNotFound()
			}
			return domain.ErrPermissionNotFound()
		}
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *PermissionRepo) Revoke(ctx context.Context, roleID, permissionID int64) error {
	const q = `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2;`

	if _, err := r.db.ExecContext(ctx, q, roleID, permissionID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *PermissionRepo) query(ctx context.Context, q string, args ...any) ([]domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Permission{}
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
