package tag

// Tag: метка рецепта (завтрак, обед...). Имя, цвет и slug уникальны.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null;uniqueIndex" binding:"required,max=200"`
	Color string `json:"color" gorm:"size:7;not null;uniqueIndex" binding:"required,hexcolor6"`
	Slug  string `json:"slug" gorm:"size:200;not null;uniqueIndex" binding:"required,max=200,slug"`
}

func (Tag) TableName() string {
	return "tags"
}

func Models() []any {
	return []any{&Tag{}}
}
