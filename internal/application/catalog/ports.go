package catalog

import (
	"context"

	"github.com/baechuer/nutrition-service/internal/domain"
)

type Repo interface {
	CountUnits(ctx context.Context) (int, error)
	CreateUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error)
	ListUnits(ctx context.Context) ([]domain.UnitOfMeasure, error)
	GetUnit(ctx context.Context, unit string) (domain.UnitOfMeasure, error)

	CountMealTypes(ctx context.Context) (int, error)
	CreateMealType(ctx context.Context, name string) (domain.MealType, error)
	ListMealTypes(ctx context.Context) ([]domain.MealType, error)
	GetMealType(ctx context.Context, name string) (domain.MealType, error)
}
