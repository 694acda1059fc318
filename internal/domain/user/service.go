package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain/relation"
)

// RecipePreviewer is implemented by the recipe repository.
// limit < 0 means no cap.
type RecipePreviewer interface {
	PreviewsByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]RecipePreview, map[int64]int64, error)
}

// Service handles users and subscriptions
type Service struct {
	repo          Repository
	subscriptions *relation.Toggle[Subscribe]
	previews      RecipePreviewer
}

func NewService(db *gorm.DB, repo Repository, previews RecipePreviewer) *Service {
	return &Service{
		repo:          repo,
		subscriptions: NewSubscriptions(db),
		previews:      previews,
	}
}

// NewSubscriptions builds the subscribe toggle over the subscribes table.
func NewSubscriptions(db *gorm.DB) *relation.Toggle[Subscribe] {
	return relation.New(db, relation.Config[Subscribe]{
		UserColumn:   "user_id",
		TargetColumn: "author_id",
		NewRow: func(userID, authorID int64) *Subscribe {
			return &Subscribe{UserID: userID, AuthorID: authorID}
		},
		ForbidSelf: true,
		Messages: relation.Messages{
			AlreadyExists: msgSubscribeExists,
			NotExists:     msgSubscribeNotExists,
			Self:          msgSubscribeSelf,
		},
	})
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}
	exists, err = s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        email,
		Username:     username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent signup
		if database.IsUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

// Authenticate checks email + password. Any mismatch is ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Detail returns the user as seen by viewerID (0 for anonymous).
func (s *Service) Detail(ctx context.Context, viewerID, id int64) (Response, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	subscribed, err := s.subscriptions.Members(ctx, viewerID, []int64{u.ID})
	if err != nil {
		return Response{}, err
	}
	return ToResponse(u, subscribed[u.ID]), nil
}

func (s *Service) List(ctx context.Context, viewerID int64, offset, limit int) ([]Response, int64, error) {
	users, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	subscribed, err := s.SubscribedTo(ctx, viewerID, ids(users))
	if err != nil {
		return nil, 0, err
	}
	out := make([]Response, 0, len(users))
	for i := range users {
		out = append(out, ToResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, total, nil
}

// SubscribedTo reports which of authorIDs viewerID follows.
func (s *Service) SubscribedTo(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error) {
	return s.subscriptions.Members(ctx, viewerID, authorIDs)
}

func (s *Service) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(req.CurrentPassword, u.PasswordHash); err != nil {
		return ErrInvalidPassword
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// Subscribe makes userID follow authorID and returns the new subscription entry.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*SubscriptionResponse, error) {
	viewer, author, err := s.parties(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptions.Add(ctx, party(viewer), party(author)); err != nil {
		return nil, err
	}

	entries, err := s.entries(ctx, []User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	viewer, author, err := s.parties(ctx, userID, authorID)
	if err != nil {
		return err
	}
	return s.subscriptions.Remove(ctx, party(viewer), party(author))
}

// Subscriptions lists the authors userID follows with their recipe previews.
func (s *Service) Subscriptions(ctx context.Context, userID int64, offset, limit, recipesLimit int) ([]SubscriptionResponse, int64, error) {
	authors, total, err := s.repo.ListSubscriptions(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	entries, err := s.entries(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// entries builds subscription entries; every author here is followed by the caller.
func (s *Service) entries(ctx context.Context, authors []User, recipesLimit int) ([]SubscriptionResponse, error) {
	previews := map[int64][]RecipePreview{}
	counts := map[int64]int64{}
	if s.previews != nil && len(authors) > 0 {
		var err error
		previews, counts, err = s.previews.PreviewsByAuthors(ctx, ids(authors), recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("recipe previews: %w", err)
		}
	}

	out := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		recipes := previews[a.ID]
		if recipes == nil {
			recipes = []RecipePreview{}
		}
		out = append(out, SubscriptionResponse{
			Response:     ToResponse(a, true),
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}

func (s *Service) parties(ctx context.Context, userID, authorID int64) (*User, *User, error) {
	author, err := s.repo.GetByID(ctx, authorID)
	if err != nil {
		return nil, nil, err
	}
	viewer, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return viewer, author, nil
}

func party(u *User) relation.Party {
	return relation.Party{ID: u.ID, Name: u.Username}
}

func ids(users []User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
