package admin

import (
	"strings"

	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
)

// UserForm повторяет add_fieldsets: email, username, имя, фамилия и пароль.
type UserForm struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
	IsStaff   bool   `json:"is_staff"`
}

func (f *UserForm) Build() (any, error) {
	hash, err := user.HashPassword(f.Password)
	if err != nil {
		return nil, err
	}
	return &user.User{
		Email:        f.Email,
		Username:     f.Username,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		PasswordHash: hash,
		IsStaff:      f.IsStaff,
	}, nil
}

type IngredientForm struct {
	Name            string `json:"name" binding:"required,max=254"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=254"`
}

// Build lowercases the name the same way the seed loader does.
func (f *IngredientForm) Build() (any, error) {
	return &ingredient.Ingredient{
		Name:            strings.ToLower(strings.TrimSpace(f.Name)),
		MeasurementUnit: strings.TrimSpace(f.MeasurementUnit),
	}, nil
}

type TagForm struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor6"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

func (f *TagForm) Build() (any, error) {
	return &tag.Tag{Name: f.Name, Color: f.Color, Slug: f.Slug}, nil
}
