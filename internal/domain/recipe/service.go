package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/relation"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
	"foodgram/internal/pkg/imagefield"
	"foodgram/internal/pkg/pdf"
	"foodgram/internal/storage"
)

const (
	ShoppingListTitle = "Shopping list"
	ShoppingListEmpty = "Your shopping cart is empty."
)

// Users is implemented by user.Service.
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	SubscribedTo(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error)
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo        Repository
	Ingredients ingredient.Repository
	Tags        tag.Repository
	Users       Users
	Storage     storage.Storage
	PDF         *pdf.Renderer
	Log         logrus.FieldLogger
}

// Service handles recipes, favorites and the shopping cart
type Service struct {
	repo        Repository
	ingredients ingredient.Repository
	tags        tag.Repository
	users       Users
	storage     storage.Storage
	pdf         *pdf.Renderer
	log         logrus.FieldLogger

	favorites *relation.Toggle[Favorite]
	carts     *relation.Toggle[ShoppingCart]
}

func NewService(db *gorm.DB, deps Deps) *Service {
	return &Service{
		repo:        deps.Repo,
		ingredients: deps.Ingredients,
		tags:        deps.Tags,
		users:       deps.Users,
		storage:     deps.Storage,
		pdf:         deps.PDF,
		log:         deps.Log,
		favorites: relation.New(db, relation.Config[Favorite]{
			UserColumn:   "user_id",
			TargetColumn: "recipe_id",
			NewRow: func(userID, recipeID int64) *Favorite {
				return &Favorite{UserID: userID, RecipeID: recipeID}
			},
			Messages: relation.Messages{AlreadyExists: msgFavoriteExists, NotExists: msgFavoriteNotExists},
		}),
		carts: relation.New(db, relation.Config[ShoppingCart]{
			UserColumn:   "user_id",
			TargetColumn: "recipe_id",
			NewRow: func(userID, recipeID int64) *ShoppingCart {
				return &ShoppingCart{UserID: userID, RecipeID: recipeID}
			},
			Messages: relation.Messages{AlreadyExists: msgCartExists, NotExists: msgCartNotExists},
		}),
	}
}

// ---- Read ----

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*Response, error) {
	rec, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.render(ctx, viewerID, []Recipe{*rec})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) List(ctx context.Context, viewerID int64, f Filter, offset, limit int) ([]Response, int64, error) {
	recipes, total, err := s.repo.List(ctx, s.filterScope(ctx, viewerID, f), offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.render(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) filterScope(ctx context.Context, viewerID int64, f Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", f.AuthorID)
		}
		if len(f.Tags) > 0 {
			tagged := db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.Tags)
			db = db.Where("recipes.id IN (?)", tagged)
		}
		if f.IsFavorited != nil {
			db = membership(db, viewerID, *f.IsFavorited, func() *gorm.DB {
				return s.favorites.TargetsSubquery(ctx, viewerID)
			})
		}
		if f.IsInShoppingCart != nil {
			db = membership(db, viewerID, *f.IsInShoppingCart, func() *gorm.DB {
				return s.carts.TargetsSubquery(ctx, viewerID)
			})
		}
		return db
	}
}

// membership keeps members (want) or non-members (!want). Anonymous viewers
// are members of nothing.
func membership(db *gorm.DB, viewerID int64, want bool, sub func() *gorm.DB) *gorm.DB {
	if viewerID == 0 {
		if want {
			return db.Where("1 = 0")
		}
		return db
	}
	if want {
		return db.Where("recipes.id IN (?)", sub())
	}
	return db.Where("recipes.id NOT IN (?)", sub())
}

// render computes per viewer flags with one lookup per relation.
func (s *Service) render(ctx context.Context, viewerID int64, recipes []Recipe) ([]Response, error) {
	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	var f flags
	var err error
	if f.favorited, err = s.favorites.Members(ctx, viewerID, recipeIDs); err != nil {
		return nil, err
	}
	if f.inCart, err = s.carts.Members(ctx, viewerID, recipeIDs); err != nil {
		return nil, err
	}
	if f.subscribed, err = s.users.SubscribedTo(ctx, viewerID, uniqueIDs(authorIDs)); err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(recipes))
	for i := range recipes {
		out = append(out, toResponse(&recipes[i], f))
	}
	return out, nil
}

// ---- Write ----

// prepared is a validated request ready to be stored.
type prepared struct {
	amounts []IngredientAmount
	tagIDs  []int64
	image   *imagefield.Image
}

// validate checks a create/update payload. requireImage is true on create.
func (s *Service) validate(ctx context.Context, req Request, requireImage bool) (*prepared, error) {
	verr := &ValidationError{}
	p := &prepared{}

	if req.CookingTime == nil {
		verr.Add("cooking_time", RequiredMessage)
	} else if err := ValidateCookingTime(*req.CookingTime); err != nil {
		verr.Add("cooking_time", err.Error())
	}

	if err := s.validateIngredients(ctx, req.Ingredients, verr, p); err != nil {
		return nil, err
	}
	if err := s.validateTags(ctx, req.Tags, verr, p); err != nil {
		return nil, err
	}

	switch {
	case req.Image != nil && *req.Image != "":
		img, err := imagefield.Decode(*req.Image)
		if err != nil {
			verr.Add("image", "Upload a valid image: expected data:image/<ext>;base64,<payload>.")
		}
		p.image = img
	case requireImage:
		verr.Add("image", RequiredMessage)
	}

	if !verr.Empty() {
		return nil, verr
	}
	return p, nil
}

func (s *Service) validateIngredients(ctx context.Context, items []IngredientInput, verr *ValidationError, p *prepared) error {
	if len(items) == 0 {
		verr.Add("ingredients", NoIngredientsMessage)
		return nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	known, err := s.ingredients.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}

	for _, id := range uniqueIDs(ids) {
		if _, ok := known[id]; !ok {
			verr.Add("ingredients", missingMessage(id))
		}
	}
	for _, it := range items {
		if err := ValidateAmount(it.Amount); err != nil {
			verr.Add("ingredients", err.Error())
			break
		}
	}
	if dups := DuplicateIngredients(items); len(dups) > 0 {
		verr.Add("ingredients", DuplicateIngredientsMessage(dups, known))
	}

	for _, it := range items {
		p.amounts = append(p.amounts, IngredientAmount{IngredientID: it.ID, Amount: it.Amount})
	}
	return nil
}

func (s *Service) validateTags(ctx context.Context, ids []int64, verr *ValidationError, p *prepared) error {
	if len(ids) == 0 {
		verr.Add("tags", NoTagsMessage)
		return nil
	}
	p.tagIDs = uniqueIDs(ids)
	known, err := s.tags.FindByIDs(ctx, p.tagIDs)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	for _, id := range p.tagIDs {
		if _, ok := known[id]; !ok {
			verr.Add("tags", missingMessage(id))
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID int64, req Request) (*Response, error) {
	p, err := s.validate(ctx, req, true)
	if err != nil {
		return nil, err
	}

	rec := &Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: *req.CookingTime,
	}
	if err := s.saveImage(ctx, rec, p.image); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec, p.amounts, p.tagIDs); err != nil {
		s.dropImage(ctx, rec.ImageKey)
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	s.log.WithFields(logrus.Fields{"recipe_id": rec.ID, "author_id": authorID}).Info("recipe created")
	return s.Get(ctx, authorID, rec.ID)
}

// Update replaces the recipe fields, ingredients and tags. The image is kept
// unless a new one is sent.
func (s *Service) Update(ctx context.Context, userID int64, isStaff bool, id int64, req Request) (*Response, error) {
	rec, err := s.editable(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	p, err := s.validate(ctx, req, false)
	if err != nil {
		return nil, err
	}

	oldKey := rec.ImageKey
	rec.Name = req.Name
	rec.Text = req.Text
	rec.CookingTime = *req.CookingTime
	if err := s.saveImage(ctx, rec, p.image); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rec, p.amounts, p.tagIDs); err != nil {
		if rec.ImageKey != oldKey {
			s.dropImage(ctx, rec.ImageKey)
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if rec.ImageKey != oldKey {
		s.dropImage(ctx, oldKey)
	}
	return s.Get(ctx, userID, rec.ID)
}

func (s *Service) Delete(ctx context.Context, userID int64, isStaff bool, id int64) error {
	rec, err := s.editable(ctx, userID, isStaff, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropImage(ctx, rec.ImageKey)
	s.log.WithFields(logrus.Fields{"recipe_id": id, "user_id": userID}).Info("recipe deleted")
	return nil
}

// editable loads the recipe and checks that userID may change it.
func (s *Service) editable(ctx context.Context, userID int64, isStaff bool, id int64) (*Recipe, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.AuthorID != userID && !isStaff {
		return nil, ErrForbidden
	}
	return rec, nil
}

func (s *Service) saveImage(ctx context.Context, rec *Recipe, img *imagefield.Image) error {
	if img == nil {
		return nil
	}
	key := "recipes/" + uuid.NewString() + "." + img.Ext
	if err := s.storage.Save(ctx, key, img.ContentType, img.Data); err != nil {
		return fmt.Errorf("store image: %w", err)
	}
	url := s.storage.URL(key)
	rec.Image = &url
	rec.ImageKey = key
	return nil
}

// dropImage is best effort: a leftover file is only logged.
func (s *Service) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("image cleanup failed")
	}
}

// ---- Favorites & shopping cart ----

func (s *Service) AddFavorite(ctx context.Context, userID, recipeID int64) (*user.RecipePreview, error) {
	return s.add(ctx, s.favorites.Add, userID, recipeID)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return s.remove(ctx, s.favorites.Remove, userID, recipeID)
}

func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (*user.RecipePreview, error) {
	return s.add(ctx, s.carts.Add, userID, recipeID)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return s.remove(ctx, s.carts.Remove, userID, recipeID)
}

type toggleFunc func(ctx context.Context, user, target relation.Party) error

func (s *Service) add(ctx context.Context, fn toggleFunc, userID, recipeID int64) (*user.RecipePreview, error) {
	u, rec, err := s.parties(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, relation.Party{ID: u.ID, Name: u.Username}, relation.Party{ID: rec.ID, Name: rec.Name}); err != nil {
		return nil, err
	}
	short := ToShort(rec)
	return &short, nil
}

func (s *Service) remove(ctx context.Context, fn toggleFunc, userID, recipeID int64) error {
	u, rec, err := s.parties(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	return fn(ctx, relation.Party{ID: u.ID, Name: u.Username}, relation.Party{ID: rec.ID, Name: rec.Name})
}

func (s *Service) parties(ctx context.Context, userID, recipeID int64) (*user.User, *Recipe, error) {
	rec, err := s.repo.Get(ctx, recipeID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	return u, rec, nil
}

// ShoppingLines returns "name (unit) - total" per aggregated ingredient.
func (s *Service) ShoppingLines(ctx context.Context, userID int64) ([]string, error) {
	items, err := s.repo.ShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", it.Name, it.MeasurementUnit, it.Total))
	}
	return lines, nil
}

// ShoppingListPDF renders the aggregated cart. Recomputed on every call.
func (s *Service) ShoppingListPDF(ctx context.Context, userID int64) ([]byte, error) {
	lines, err := s.ShoppingLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.pdf.RenderList(&buf, ShoppingListTitle, lines, ShoppingListEmpty); err != nil {
		return nil, fmt.Errorf("render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}

// PreviewsByAuthors exposes the repository to the user package.
func (s *Service) PreviewsByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]user.RecipePreview, map[int64]int64, error) {
	return s.repo.PreviewsByAuthors(ctx, authorIDs, limit)
}
