package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type fakeRepo struct {
	units     []domain.UnitOfMeasure
	mealTypes []domain.MealType
	countErr  error
}

func (f *fakeRepo) CountUnits(ctx context.Context) (int, error) {
	return len(f.units), f.countErr
}

func (f *fakeRepo) CreateUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	for _, u := range f.units {
		if u.Unit == unit {
			return domain.UnitOfMeasure{}, domain.ErrCatalogEntryExists()
		}
	}
	u := domain.UnitOfMeasure{ID: int64(len(f.units) + 1), Unit: unit}
	f.units = append(f.units, u)
	return u, nil
}

func (f *fakeRepo) ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error) {
	return f.units, nil
}

func (f *fakeRepo) GetUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	for _, u := range f.units {
		if u.Unit == unit {
			return u, nil
		}
	}
	return domain.UnitOfMeasure{}, domain.ErrUnitNotFound()
}

func (f *fakeRepo) CountMealTypes(ctx context.Context) (int, error) {
	return len(f.mealTypes), f.countErr
}

func (f *fakeRepo) CreateMealType(ctx context.Context, name string) (domain.MealType, error) {
	for _, m := range f.mealTypes {
		if m.Name == name {
			return domain.MealType{}, domain.ErrCatalogEntryExists()
		}
	}
	m := domain.MealType{ID: int64(len(f.mealTypes) + 1), Name: name}
	f.mealTypes = append(f.mealTypes, m)
	return m, nil
}

func (f *fakeRepo) ListMealTypes(ctx context.Context) ([]domain.MealType, error) {
	return f.mealTypes, nil
}

func (f *fakeRepo) GetMealType(ctx context.Context, name string) (domain.MealType, error) {
	for _, m := range f.mealTypes {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.MealType{}, domain.ErrMealTypeNotFound()
}

func TestSeed_EmptyTables(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	res, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Units: 16, MealTypes: 7}, res)

	units, _ := svc.ListUnits(context.Background())
	assert.Equal(t, "Teaspoon", units[0].Unit)
	assert.Equal(t, "Pinch", units[len(units)-1].Unit)
}

func TestSeed_Twice_NoDuplicates(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Seed(ctx)
	require.NoError(t, err)
	res, err := svc.Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, SeedResult{}, res)
	assert.Len(t, repo.units, 16)
	assert.Len(t, repo.mealTypes, 7)
}

func TestSeed_NonEmptyTableIsLeftAlone(t *testing.T) {
	repo := &fakeRepo{mealTypes: []domain.MealType{{ID: 1, Name: "Elevenses"}}}
	svc := NewService(repo)

	res, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16, res.Units)
	assert.Equal(t, 0, res.MealTypes)
	assert.Len(t, repo.mealTypes, 1)
}

func TestSeed_CountError(t *testing.T) {
	repo := &fakeRepo{countErr: domain.ErrDBUnavailable(errors.New("down"))}

	_, err := NewService(repo).Seed(context.Background())
	assert.True(t, domain.Is(err, "db_unavailable"))
}

func TestFind(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	u, err := svc.FindUnit(ctx, " Gram ")
	require.NoError(t, err)
	assert.Equal(t, "Gram", u.Unit)

	_, err = svc.FindUnit(ctx, "Furlong")
	assert.True(t, domain.Is(err, "unit_not_found"))
	_, err = svc.FindUnit(ctx, "")
	assert.True(t, domain.Is(err, "missing_field"))

	m, err := svc.FindMealType(ctx, "Supper")
	require.NoError(t, err)
	assert.Equal(t, "Supper", m.Name)

	_, err = svc.FindMealType(ctx, "Tea")
	assert.True(t, domain.Is(err, "meal_type_not_found"))
}
