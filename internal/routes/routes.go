package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mood-journal-backend/internal/handlers"
	"github.com/AnshRaj112/mood-journal-backend/internal/middleware"
)

// Comment posting limit per client IP.
const (
	commentRateMax    = 10
	commentRateWindow = time.Minute
)

// Deps is everything the router needs.
type Deps struct {
	Auth     *handlers.AuthHandler
	Diary    *handlers.DiaryHandler
	Comments *handlers.CommentHandler
	Share    *handlers.ShareHandler
	Emotions *handlers.EmotionHandler

	Authenticator  middleware.Authenticator
	LoginLimiter   *middleware.IPRateLimiter
	Redis          *redis.Client // nil disables the comment rate limit
	AllowedOrigins []string
	Production     bool
	Log            *zap.SugaredLogger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(d.Production))
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.Identify(d.Authenticator, d.Log))

	r.Get("/health", handlers.Health)
	r.Get("/api/health", handlers.APIHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Limit)
			}
			r.Post("/google", d.Auth.Google)
			r.Post("/naver", d.Auth.Naver)
		})
		r.With(middleware.RequireAuth).Get("/verify", d.Auth.Verify)
		r.With(middleware.RequireAuth).Get("/profile", d.Auth.Profile)
		r.Post("/logout", d.Auth.Logout)
	})

	r.Route("/api/diary", func(r chi.Router) {
		r.With(middleware.RequireAuth).Post("/", d.Diary.Create)
		r.With(middleware.RequireAuth).Get("/", d.Diary.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.EntryID)
			r.Get("/", d.Diary.Get)
			r.With(middleware.RequireAuth).Put("/", d.Diary.Update)
			r.With(middleware.RequireAuth).Delete("/", d.Diary.Delete)
			r.Post("/ai-feedback", d.Diary.Feedback)

			r.Get("/comments", d.Comments.List)
			r.Group(func(r chi.Router) {
				if d.Redis != nil {
					r.Use(middleware.RedisRateLimit(d.Redis, "comments", commentRateMax, commentRateWindow, d.Log))
				}
				r.Post("/comments", d.Comments.Create)
			})
		})
	})

	r.Get("/api/share/{token}", d.Share.Get)

	r.Route("/api/emotions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/analysis", d.Emotions.Analysis)
		r.Get("/stats", d.Emotions.Stats)
	})

	return r
}
