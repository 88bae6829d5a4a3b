package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	dashapi "github.com/pulsedash/pulsedash/api/echo"
	"github.com/pulsedash/pulsedash/cache"
	redcache "github.com/pulsedash/pulsedash/cache/redis"
	"github.com/pulsedash/pulsedash/config"
	"github.com/pulsedash/pulsedash/internal/auth"
	"github.com/pulsedash/pulsedash/internal/gateway"
	"github.com/pulsedash/pulsedash/mongodb"
	"github.com/pulsedash/pulsedash/services"
	"github.com/pulsedash/pulsedash/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	initLogger(cfg)
	log.Info().Str("http_port", cfg.HTTPPort).Str("mongo_db", cfg.MongoDBName).Msg("Starting pulsedash server")

	tp, err := tracing.InitTracerProvider(cfg.OtelServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize TracerProvider")
	}

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	// Repositories
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}
	marketingRepo, err := mongodb.NewMarketingDataRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MarketingDataRepository")
	}
	contentRepo, err := mongodb.NewAIContentRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AIContentRepository")
	}

	// Session cache: Redis when configured, in-memory otherwise.
	var sessionStore cache.SessionStore
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		sessionStore = redcache.NewSessionStore(rdb, "pulsedash")
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis session store")
	} else {
		sessionStore = cache.NewMemorySessionStore(time.Minute)
		log.Info().Msg("Using in-memory session store")
	}

	// Services
	signer := services.NewTokenSigner()
	signer.AddKeySigner(cfg.JWTSecretKey)
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	sessionSvc := services.NewSessionService(signer, cfg.JWTSecretKey, sessionStore, cfg.BaseURL, sessionTTL)

	hasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	redirect := services.RedirectPolicy{
		BaseURL:       cfg.BaseURL,
		DefaultLocale: cfg.DefaultLocale,
	}
	authSvc := services.NewAuthService(userRepo, hasher, sessionSvc, redirect)
	userSvc := services.NewUserService(userRepo)
	marketingSvc := services.NewMarketingService(marketingRepo)

	gemini, err := gateway.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}
	generationTimeout := time.Duration(cfg.GenerationTimeoutSec) * time.Second
	contentSvc := services.NewContentService(contentRepo, gemini, generationTimeout)

	// OAuth providers for external sign-in
	auth.InitProviders(cfg)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	api := dashapi.NewDashboardAPI(authSvc, sessionSvc, userSvc, marketingSvc, contentSvc, func(ctx context.Context) error {
		return mongodb.Ping(ctx, mongoClient)
	})
	api.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
	log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := gemini.Close(); err != nil {
		log.Error().Err(err).Msg("Gemini client close failed")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("TracerProvider shutdown failed")
	}
	mongodb.Close(shutdownCtx, mongoClient)
}

func initLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
