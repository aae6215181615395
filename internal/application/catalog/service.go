package catalog

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/nutrition-service/internal/domain"
)

// Service exposes the lookup tables recipes and meals refer to.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error) {
	return s.repo.ListUnits(ctx)
}

func (s *Service) ListMealTypes(ctx context.Context) ([]domain.MealType, error) {
	return s.repo.ListMealTypes(ctx)
}

func (s *Service) FindUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return domain.UnitOfMeasure{}, domain.ErrMissingField("unit")
	}
	return s.repo.GetUnit(ctx, unit)
}

func (s *Service) FindMealType(ctx context.Context, name string) (domain.MealType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.MealType{}, domain.ErrMissingField("name")
	}
	return s.repo.GetMealType(ctx, name)
}

// SeedResult reports how many rows each seed step inserted.
type SeedResult struct {
	Units     int
	MealTypes int
}

// Seed installs the default units and meal types, each only into an empty
// table. Tables that already hold rows are left alone even if entries differ.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := s.repo.CountUnits(ctx)
	if err != nil {
		return res, err
	}
	if n == 0 {
		for _, u := range domain.DefaultUnits() {
			if _, err := s.repo.CreateUnit(ctx, u); err != nil {
				if domain.Is(err, domain.CodeCatalogEntryExists) {
					continue
				}
				return res, err
			}
			res.Units++
		}
	}

	n, err = s.repo.CountMealTypes(ctx)
	if err != nil {
		return res, err
	}
	if n == 0 {
		for _, m := range domain.DefaultMealTypes() {
			if _, err := s.repo.CreateMealType(ctx, m); err != nil {
				if domain.Is(err, domain.CodeCatalogEntryExists) {
					continue
				}
				return res, err
			}
			res.MealTypes++
		}
	}

	if res.Units > 0 || res.MealTypes > 0 {
		zlog.Info().
			Int("units", res.Units).
			Int("meal_types", res.MealTypes).
			Msg("seed: catalog populated")
	}
	return res, nil
}
