package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/config"
	"github.com/AnshRaj112/mood-journal-backend/internal/database"
	"github.com/AnshRaj112/mood-journal-backend/internal/handlers"
	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
	"github.com/AnshRaj112/mood-journal-backend/internal/models"
	"github.com/AnshRaj112/mood-journal-backend/internal/repository"
	"github.com/AnshRaj112/mood-journal-backend/internal/routes"
	"github.com/AnshRaj112/mood-journal-backend/internal/services"
	"github.com/AnshRaj112/mood-journal-backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.IsProduction())
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if err := run(cfg, log); err != nil {
		log.Fatalw("Server stopped", "error", err)
	}
}

func newLogger(production bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if production {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cipher, err := utils.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return err
	}
	if cipher == nil {
		log.Warn("ENCRYPTION_KEY not set, e-mail addresses are stored in plain text. Generate one with: openssl rand -base64 32")
	}

	log.Infow("Connecting to MongoDB", "uri", database.MaskURI(cfg.MongoURI))
	mongoClient, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() { _ = database.DisconnectMongo(mongoClient) }()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Warnw("Failed to ensure MongoDB indexes", "error", err)
	}

	log.Infow("Connecting to Redis", "uri", database.MaskURI(cfg.RedisURI))
	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	var users services.UserStore
	switch cfg.UserStore {
	case config.UserStorePostgres:
		log.Infow("Connecting to PostgreSQL", "uri", database.MaskURI(cfg.PostgresURI))
		pg, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return err
		}
		defer func() { _ = pg.Close() }()
		users = repository.NewPostgresUserRepository(pg, cipher)
	default:
		users = repository.NewMongoUserRepository(db, cipher)
	}

	seq := repository.NewSequence(db)
	diaries := repository.NewDiaryRepository(db, seq)
	comments := repository.NewCommentRepository(db, seq)
	emotionRepo := repository.NewEmotionRepository(db)

	if cfg.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY not set, AI titles and feedback are disabled")
	}
	ai := services.NewAIService(services.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))

	sessions := services.NewSessionService(rdb, cfg.JWTSecret, cfg.SessionTTL)
	auth := services.NewAuthService(users, sessions, map[string]services.ProfileVerifier{
		models.ProviderGoogle: services.NewGoogleVerifier(cfg.GoogleClientID),
		models.ProviderNaver:  services.NewNaverVerifier(cfg.NaverProfileURL, &http.Client{Timeout: 10 * time.Second}),
	})
	emotions := services.NewEmotionService(emotionRepo, services.NewCacheService(rdb), log)
	diary := services.NewDiaryService(diaries, users, ai, emotions, log)
	feedback := services.NewFeedbackService(diaries)

	loginLimiter := middleware.NewIPRateLimiter(middleware.LoginRateEvery, middleware.LoginRateBurst, "Too many login attempts. Please wait a few seconds.")
	go loginLimiter.Run(ctx, 10*time.Minute)

	router := routes.SetupRoutes(routes.Deps{
		Auth:           handlers.NewAuthHandler(auth, cfg.IsProduction(), log),
		Diary:          handlers.NewDiaryHandler(diary, feedback, ai.Feedback, log),
		Comments:       handlers.NewCommentHandler(services.NewCommentService(diaries, comments), log),
		Share:          handlers.NewShareHandler(diary, cfg.FrontendURL, log),
		Emotions:       handlers.NewEmotionHandler(emotions, log),
		Authenticator:  auth,
		LoginLimiter:   loginLimiter,
		Redis:          rdb,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // AI calls are slow
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Mood journal backend running", "port", cfg.Port, "env", cfg.Environment, "userStore", cfg.UserStore, "origins", cfg.AllowedOrigins)
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

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
	return nil
}
