package dto

import "github.com/baechuer/nutrition-service/internal/domain"

type Unit struct {
	ID   int64  `json:"id"`
	Unit string `json:"unit"`
}

type MealType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromUnits(us []domain.UnitOfMeasure) []Unit {
	out := make([]Unit, 0, len(us))
	for _, u := range us {
		out = append(out, Unit{ID: u.ID, Unit: u.Unit})
	}
	return out
}

func FromMealTypes(ms []domain.MealType) []MealType {
	out := make([]MealType, 0, len(ms))
	for _, m := range ms {
		out = append(out, MealType{ID: m.ID, Name: m.Name})
	}
	return out
}
