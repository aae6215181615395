package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) count(ctx context.Context, q string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

// insertNamed runs an INSERT ... RETURNING id for a single unique text column.
func (r *CatalogRepo) insertNamed(ctx context.Context, q, value string) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, q, value).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrCatalogEntryExists()
		}
		return 0, domain.ErrDBUnavailable(err)
	}
	return id, nil
}

// ---------- units of measure ----------

func (r *CatalogRepo) CountUnits(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM unit_of_measure;`)
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	id, err := r.insertNamed(ctx, `INSERT INTO unit_of_measure (unit) VALUES ($1) RETURNING id;`, unit)
	if err != nil {
		return domain.UnitOfMeasure{}, err
	}
	return domain.UnitOfMeasure{ID: id, Unit: unit}, nil
}

func (r *CatalogRepo) ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, unit FROM unit_of_measure ORDER BY id;`)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.UnitOfMeasure{}
	for rows.Next() {
		var u domain.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Unit); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *CatalogRepo) GetUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	var u domain.UnitOfMeasure
	err := r.db.QueryRowContext(ctx, `SELECT id, unit FROM unit_of_measure WHERE unit = $1 LIMIT 1;`, unit).
		Scan(&u.ID, &u.Unit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UnitOfMeasure{}, domain.ErrUnitNotFound()
		}
		return domain.UnitOfMeasure{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

// ---------- meal types ----------

func (r *CatalogRepo) CountMealTypes(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM meal_types;`)
}

func (r *CatalogRepo) CreateMealType(ctx context.Context, name string) (domain.MealType, error) {
	id, err := r.insertNamed(ctx, `INSERT INTO meal_types (name) VALUES ($1) RETURNING id;`, name)
	if err != nil {
		return domain.MealType{}, err
	}
	return domain.MealType{ID: id, Name: name}, nil
}

func (r *CatalogRepo) ListMealTypes(ctx context.Context) ([]domain.MealType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM meal_types ORDER BY id;`)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.MealType{}
	for rows.Next() {
		var m domain.MealType
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *CatalogRepo) GetMealType(ctx context.Context, name string) (domain.MealType, error) {
	var m domain.MealType
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM meal_types WHERE name = $1 LIMIT 1;`, name).
		Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MealType{}, domain.ErrMealTypeNotFound()
		}
		return domain.MealType{}, domain.ErrDBUnavailable(err)
	}
	return m, nil
}
