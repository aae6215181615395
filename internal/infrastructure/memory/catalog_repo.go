package memory

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type CatalogRepo struct {
	s *Store
}

func NewCatalogRepo(s *Store) *CatalogRepo {
	return &CatalogRepo{s: s}
}

func (r *CatalogRepo) CountUnits(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.units), nil
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.units {
		if u.Unit == unit {
			return domain.UnitOfMeasure{}, domain.ErrCatalogEntryExists()
		}
	}
	r.s.unitSeq++
	u := domain.UnitOfMeasure{ID: r.s.unitSeq, Unit: unit}
	r.s.units[u.ID] = u
	return u, nil
}

func (r *CatalogRepo) ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.UnitOfMeasure, 0, len(r.s.units))
	for _, id := range sortedIDs(r.s.units) {
		out = append(out, r.s.units[id])
	}
	return out, nil
}

func (r *CatalogRepo) GetUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.units {
		if u.Unit == unit {
			return u, nil
		}
	}
	return domain.UnitOfMeasure{}, domain.ErrUnitNotFound()
}

func (r *CatalogRepo) CountMealTypes(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.mealTypes), nil
}

func (r *CatalogRepo) CreateMealType(ctx context.Context, name string) (domain.MealType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.mealTypes {
		if m.Name == name {
			return domain.MealType{}, domain.ErrCatalogEntryExists()
		}
	}
	r.s.mealSeq++
	m := domain.MealType{ID: r.s.mealSeq, Name: name}
	r.s.mealTypes[m.ID] = m
	return m, nil
}

func (r *CatalogRepo) ListMealTypes(ctx context.Context) ([]domain.MealType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.MealType, 0, len(r.s.mealTypes))
	for _, id := range sortedIDs(r.s.mealTypes) {
		out = append(out, r.s.mealTypes[id])
	}
	return out, nil
}

func (r *CatalogRepo) GetMealType(ctx context.Context, name string) (domain.MealType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.mealTypes {
		if m.Name == name {
			return m, nil
		}
	}
	return domain.MealType{}, domain.ErrMealTypeNotFound()
}
