package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/codemindhq/codemind/internal/analysis"
	httpapi "github.com/codemindhq/codemind/internal/api/http"
	"github.com/codemindhq/codemind/internal/config"
	"github.com/codemindhq/codemind/internal/oauth"
	"github.com/codemindhq/codemind/internal/realtime"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/repository/model"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/codemindhq/codemind/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	cfg.LoadOAuthSecrets()
	log := setupLogger(cfg.Env)

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}

	store, rateLimiter := setupStateStore(cfg.Redis, log)

	collaborationRepo := repository.NewPostgresCollaborationRepository(db)
	ruleRepo := repository.NewPostgresRuleRepository(db)
	analysisRepo := repository.NewPostgresAnalysisRepository(db)
	oauthRepo := repository.NewPostgresOAuthRepository(db)

	registry := oauth.NewRegistry(
		oauth.NewGitHub(providerCredentials(cfg, cfg.OAuth.GitHub, "github")),
		oauth.NewGitLab(providerCredentials(cfg, cfg.OAuth.GitLab, "gitlab")),
		oauth.NewBitbucket(providerCredentials(cfg, cfg.OAuth.Bitbucket, "bitbucket")),
	)

	collaborationService := service.NewCollaborationService(collaborationRepo, log)
	ruleService := service.NewRuleService(ruleRepo)
	analysisService := service.NewAnalysisService(
		analysis.NewClient(cfg.ML.URL, 60*time.Second),
		ruleRepo,
		analysisRepo,
		store,
		log,
	)
	oauthService := service.NewOAuthService(registry, oauthRepo, store, cfg.OAuth.FrontendSuccessURL)

	hub := realtime.NewHub(log)

	router := httpapi.SetupRouter(httpapi.RouterDeps{
		Env:           cfg.Env,
		AuthSecret:    cfg.Auth.Secret,
		AuthOptional:  cfg.Auth.Optional,
		AllowOrigins:  cfg.CORS.AllowOrigins,
		RateLimiter:   rateLimiter,
		Collaboration: httpapi.NewCollaborationController(collaborationService),
		Rules:         httpapi.NewRuleController(ruleService),
		Analyses:      httpapi.NewAnalysisController(analysisService),
		OAuth:         httpapi.NewOAuthController(oauthService),
		Realtime:      httpapi.NewRealtimeController(hub, collaborationService),
	})

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address), slog.String("env", cfg.Env))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(
		&model.Room{},
		&model.Participant{},
		&model.Thread{},
		&model.Comment{},
		&model.Notification{},
		&model.Rule{},
		&model.AnalysisReport{},
		&model.OAuthConnection{},
		&model.FeedbackEvent{},
	)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// setupStateStore connects redis when configured and falls back to the
// in-process store otherwise. The rate limiter only exists with redis.
func setupStateStore(cfg config.RedisConfig, log *slog.Logger) (statestore.Store, *redis.Client) {
	if cfg.URL == "" {
		log.Warn("redis url is empty, using in-process state store")
		return statestore.NewMemory(), nil
	}
	rs, err := statestore.NewRedis(context.Background(), cfg.URL)
	if err != nil {
		log.Warn("redis unavailable, using in-process state store", slog.Any("error", err))
		return statestore.NewMemory(), nil
	}
	return rs, rs.Client()
}

func providerCredentials(cfg *config.Config, client config.OAuthClientConfig, provider string) oauth.Credentials {
	return oauth.Credentials{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		CallbackURL:  cfg.OAuth.RedirectBase + "/oauth/" + provider + "/callback",
	}
}
