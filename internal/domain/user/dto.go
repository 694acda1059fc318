package user

// SignupRequest: тело POST /users/
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,max=150"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// CreatedResponse is returned by signup; it has no is_subscribed flag.
type CreatedResponse struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Response struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipePreview is the short recipe shape shown inside a subscription entry.
type RecipePreview struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int     `json:"cooking_time"`
}

// SubscriptionResponse: автор в списке подписок вместе с превью его рецептов.
type SubscriptionResponse struct {
	Response
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func ToCreatedResponse(u *User) CreatedResponse {
	return CreatedResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func ToResponse(u *User, isSubscribed bool) Response {
	return Response{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
