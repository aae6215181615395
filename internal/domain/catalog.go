package domain

// UnitOfMeasure is a unit an ingredient amount can be expressed in.
type UnitOfMeasure struct {
	ID   int64
	Unit string
}

type MealType struct {
	ID   int64
	Name string
}

// DefaultUnits is the unit catalog installed into an empty store.
func DefaultUnits() []string {
	return []string{
		"Teaspoon", "Tablespoon", "Cup", "Milliliter", "Liter", "Fluid Ounce",
		"Pint", "Quart", "Gallon", "Gram", "Kilogram", "Ounce", "Pound",
		"Piece", "Slice", "Pinch",
	}
}

// DefaultMealTypes is the meal type catalog installed into an empty store.
func DefaultMealTypes() []string {
	return []string{"Breakfast", "Brunch", "Lunch", "Dinner", "Snack", "Dessert", "Supper"}
}
