package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, first_name, last_name, email, password, oauth2_provider, oauth2_id`

// ---------- user.Repo ----------

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM application_user
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var urs []userRow
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		urs = append(urs, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	roles, err := r.rolesByUser(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(urs))
	for _, ur := range urs {
		out = append(out, toDomainUser(ur, roles[ur.ID]))
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM application_user
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	roles, err := r.rolesOf(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(ur, roles), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM application_user
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	roles, err := r.rolesOf(ctx, ur.ID)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(ur, roles), nil
}

// Create inserts the user row and its user_roles links in one transaction.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	roles := domain.UniqueRoles(u.Roles)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertUser = `
INSERT INTO application_user (first_name, last_name, email, password, oauth2_provider, oauth2_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;
`
	var id int64
	err = tx.QueryRowContext(ctx, insertUser,
		toNull(u.FirstName), toNull(u.LastName), u.Email, u.Password,
		toNull(u.OAuth2Provider), toNull(u.OAuth2ID),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	const link = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2);`
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx, link, id, role.ID); err != nil {
			if isForeignKeyViolation(err) {
				return domain.User{}, domain.ErrInvalidRole(role.Name)
			}
			return domain.User{}, domain.ErrDBUnavailable(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	u.ID = id
	u.Roles = roles
	return u, nil
}

// UpdateDetails rewrites the scalar columns only; user_roles is untouched.
func (r *UserRepo) UpdateDetails(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
UPDATE application_user
SET first_name = $2,
    last_name = $3,
    email = $4,
    password = $5,
    oauth2_provider = $6,
    oauth2_id = $7
WHERE id = $1
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, toNull(u.FirstName), toNull(u.LastName), u.Email, u.Password,
		toNull(u.OAuth2Provider), toNull(u.OAuth2ID),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	roles, err := r.rolesOf(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(ur, roles), nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM application_user WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ---------- helpers ----------

func (r *UserRepo) rolesOf(ctx context.Context, userID int64) ([]domain.Role, error) {
	const q = `
SELECT r.id, r.name, r.friendly_name
FROM user_roles ur
JOIN role r ON r.id = ur.role_id
WHERE ur.user_id = $1
ORDER BY r.id;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.FriendlyName); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return roles, nil
}

func (r *UserRepo) rolesByUser(ctx context.Context) (map[int64][]domain.Role, error) {
	const q = `
SELECT ur.user_id, r.id, r.name, r.friendly_name
FROM user_roles ur
JOIN role r ON r.id = ur.role_id
ORDER BY ur.user_id, r.id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Role)
	for rows.Next() {
		var (
			userID int64
			role   domain.Role
		)
		if err := rows.Scan(&userID, &role.ID, &role.Name, &role.FriendlyName); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out[userID] = append(out[userID], role)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
