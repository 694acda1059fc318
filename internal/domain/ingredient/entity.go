package ingredient

// Ingredient: продукт с единицей измерения. Пара (name, measurement_unit) уникальна.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:254;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:254;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func Models() []any {
	return []any{&Ingredient{}}
}
