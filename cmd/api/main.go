package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/recipebook/recipebook-go/internal/config"
	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/handler"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
	"github.com/recipebook/recipebook-go/internal/service"
	"github.com/recipebook/recipebook-go/internal/store"
)

type repositories struct {
	recipes  *repository.RecipeRepository
	products *repository.ProductRepository
	users    store.Store[model.User]
	db       *sql.DB
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	if cfg.SeedData {
		if err := repository.Seed(ctx, repos.products, repos.recipes); err != nil {
			return err
		}
	}

	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	users := repository.NewUserRepository(repos.users, crypto.NewPasswordHasher(crypto.DefaultHashParams()), tokens)

	router := handler.NewRouter(ctx, handler.RouterConfig{
		Recipes:       service.NewRecipeService(repos.recipes),
		Products:      service.NewProductService(repos.products),
		Auth:          service.NewAuthService(users),
		Tokens:        tokens,
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return repositories{
			recipes:  repository.NewRecipeRepository(store.NewMemoryStore(repository.RecipeSchema)),
			products: repository.NewProductRepository(store.NewMemoryStore(repository.ProductSchema)),
			users:    store.NewMemoryStore(repository.UserSchema),
		}, nil
	}

	db, err := store.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return repositories{}, err
	}

	if cfg.MigrateOnStart {
		if err := store.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, err
		}
	}

	return repositories{
		recipes:  repository.NewRecipeRepository(store.NewSQLStore(db, repository.RecipeSchema)),
		products: repository.NewProductRepository(store.NewSQLStore(db, repository.ProductSchema)),
		users:    store.NewSQLStore(db, repository.UserSchema),
		db:       db,
	}, nil
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
