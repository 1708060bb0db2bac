package container

import (
	"context"
	"fmt"
	"time"

	"bookreview-backend/internal/config"
	bookhandler "bookreview-backend/internal/domains/book/handler"
	bookrepository "bookreview-backend/internal/domains/book/repository"
	bookservice "bookreview-backend/internal/domains/book/service"
	reviewhandler "bookreview-backend/internal/domains/review/handler"
	reviewrepository "bookreview-backend/internal/domains/review/repository"
	reviewservice "bookreview-backend/internal/domains/review/service"
	userhandler "bookreview-backend/internal/domains/user/handler"
	userrepository "bookreview-backend/internal/domains/user/repository"
	userservice "bookreview-backend/internal/domains/user/service"
	rediscache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/pkg/jwt"
	"bookreview-backend/pkg/logger"
)

// Container wires configuration, infrastructure, repositories, services
// and handlers together in one place.
type Container struct {
	Config *config.Config

	DB    *database.PostgresDB
	Cache *rediscache.RedisCache

	JWTManager *jwt.Manager

	UserRepository   userrepository.UserRepository
	BookRepository   bookrepository.BookRepository
	ReviewRepository reviewrepository.ReviewRepository

	UserService   userservice.ServiceInterface
	BookService   bookservice.ServiceInterface
	ReviewService reviewservice.ServiceInterface

	UserHandler   *userhandler.UserHandler
	BookHandler   *bookhandler.BookHandler
	ReviewHandler *reviewhandler.ReviewHandler
}

// NewContainer builds the full dependency graph. It fails fast when the
// database is unreachable; a dead cache only logs a warning because every
// cached read has a database fallback.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := &database.PostgresDB{Config: dbConfig}
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisCache := rediscache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Error("redis unavailable, cache reads will miss", err)
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	userRepo := userrepository.NewPostgresUserRepository(db.Pool)
	bookRepo := bookrepository.NewPostgresBookRepository(db.Pool, redisCache)
	reviewRepo := reviewrepository.NewPostgresReviewRepository(db.Pool)

	userService := userservice.NewUserService(userRepo, jwtManager)
	bookService := bookservice.NewBookService(bookRepo, reviewRepo)
	reviewService := reviewservice.NewReviewService(reviewRepo, bookRepo)

	return &Container{
		Config: cfg,

		DB:    db,
		Cache: redisCache,

		JWTManager: jwtManager,

		UserRepository:   userRepo,
		BookRepository:   bookRepo,
		ReviewRepository: reviewRepo,

		UserService:   userService,
		BookService:   bookService,
		ReviewService: reviewService,

		UserHandler:   userhandler.NewUserHandler(userService),
		BookHandler:   bookhandler.NewBookHandler(bookService),
		ReviewHandler: reviewhandler.NewReviewHandler(reviewService),
	}, nil
}

// Cleanup releases external connections on shutdown.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
