package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/admin"
	"foodgram/internal/domain/auth"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/pdf"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/storage"
)

// App holds the long-lived dependencies of the API server.
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.Storage
	Router  *gin.Engine
	Auth    *auth.Service

	log       logrus.FieldLogger
	StartedAt time.Time
}

// Models returns every table in migration order.
func Models() []any {
	var models []any
	models = append(models, user.Models()...)
	models = append(models, ingredient.Models()...)
	models = append(models, tag.Models()...)
	models = append(models, recipe.Models()...)
	models = append(models, auth.Models()...)
	return models
}

func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	validator.Init()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, Models()...); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		Redis:     newRedis(ctx, cfg, log),
		Storage:   store,
		log:       log,
		StartedAt: time.Now(),
	}
	app.Router = app.routes()
	return app, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if !cfg.S3.Enabled() {
		return storage.NewLocal(cfg.MediaRoot, cfg.MediaURL), nil
	}
	s3, err := storage.NewS3(ctx, storage.S3Options{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		PublicURL: cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 storage failed: %w", err)
	}
	return s3, nil
}

// newRedis returns nil when REDIS_ADDR is empty; rate limiting is then disabled.
func newRedis(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// лимитер пропускает запросы, пока redis недоступен
		log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis ping failed")
	}
	return rdb
}

func (a *App) routes() *gin.Engine {
	cfg := a.Config
	db := a.DB

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	recipeRepo := recipe.NewRepository(db)
	ingredientRepo := ingredient.NewRepository(db)
	tagRepo := tag.NewRepository(db)

	userService := user.NewService(db, user.NewRepository(db), recipeRepo)
	authService := auth.NewService(userService, auth.NewRepository(db), jwtService, a.log)
	recipeService := recipe.NewService(db, recipe.Deps{
		Repo:        recipeRepo,
		Ingredients: ingredientRepo,
		Tags:        tagRepo,
		Users:       userService,
		Storage:     a.Storage,
		PDF:         pdf.NewRenderer(cfg.PDFFontPath),
		Log:         a.log,
	})
	a.Auth = authService

	userHandler := user.NewHandler(userService, cfg.PageSize)
	authHandler := auth.NewHandler(authService)
	ingredientHandler := ingredient.NewHandler(ingredientRepo)
	tagHandler := tag.NewHandler(tagRepo)
	recipeHandler := recipe.NewHandler(recipeService, cfg.PageSize)
	adminHandler := admin.NewHandler(admin.Resources(recipeService), admin.NewStore(db), cfg.PageSize, a.log)

	metrics := middleware.NewMetrics()
	authenticator := middleware.NewAuthenticator(jwtService, authService, a.log)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(a.log))
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	r.Use(metrics.Middleware())

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if _, local := a.Storage.(*storage.Local); local {
		r.Static(strings.TrimSuffix(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	// лимит считается после auth, чтобы ключом был пользователь, а не IP
	limit := middleware.RateLimit(a.Redis, cfg.RateLimitMax, cfg.RateLimitWindow, a.log)

	api := r.Group("/api")
	{
		public := api.Group("", authenticator.Optional(), limit)
		protected := api.Group("", authenticator.Required(), limit)
		staff := api.Group("", authenticator.Required(), middleware.RequireStaff(), limit)

		user.RegisterRoutes(public, protected, userHandler)
		auth.RegisterRoutes(public, protected, authHandler)
		ingredientHandler.RegisterRoutes(public)
		tagHandler.RegisterRoutes(public)
		recipeHandler.RegisterRoutes(public, protected)
		adminHandler.RegisterRoutes(staff)
	}
	return r
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.log.WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(a.StartedAt).Round(time.Second).String(),
	})
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
