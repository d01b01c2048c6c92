package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"qaforum/infrastructure/config"
	"qaforum/interfaces/http/rest/handlers"
	"qaforum/interfaces/http/rest/middleware"
	"qaforum/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg           *config.Config
	validator     *auth.JWTValidator
	auth          *handlers.AuthHandler
	questions     *handlers.QuestionHandler
	answers       *handlers.AnswerHandler
	votes         *handlers.VoteHandler
	users         *handlers.UserHandler
	tags          *handlers.TagHandler
	notifications *handlers.NotificationHandler
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	validator *auth.JWTValidator,
	authHandler *handlers.AuthHandler,
	questionHandler *handlers.QuestionHandler,
	answerHandler *handlers.AnswerHandler,
	voteHandler *handlers.VoteHandler,
	userHandler *handlers.UserHandler,
	tagHandler *handlers.TagHandler,
	notificationHandler *handlers.NotificationHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		validator:     validator,
		auth:          authHandler,
		questions:     questionHandler,
		answers:       answerHandler,
		votes:         voteHandler,
		users:         userHandler,
		tags:          tagHandler,
		notifications: notificationHandler,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.auth.Register)
			r.Post("/login", rt.auth.Login)
		})

		// Public reads
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(rt.validator))

			r.Get("/questions", rt.questions.List)
			r.Get("/questions/{questionID}", rt.questions.Get)
			r.Get("/questions/{questionID}/answers", rt.answers.ListByQuestion)
			r.Get("/answers/{answerID}", rt.answers.Get)
			r.Get("/tags", rt.tags.List)
			r.Get("/tags/{tag}", rt.tags.Get)
			r.Get("/users/{userID}", rt.users.Get)
			r.Get("/users/{userID}/questions", rt.users.ListQuestions)
			r.Get("/users/{userID}/answers", rt.users.ListAnswers)
		})

		// Authenticated writes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))

			r.Post("/questions", rt.questions.Create)
			r.Put("/questions/{questionID}", rt.questions.Update)
			r.Delete("/questions/{questionID}", rt.questions.Delete)

			r.Post("/questions/{questionID}/answers", rt.answers.Create)
			r.Put("/questions/{questionID}/answers/{answerID}/accept", rt.answers.SetAccepted)
			r.Put("/answers/{answerID}", rt.answers.Update)
			r.Delete("/answers/{answerID}", rt.answers.Delete)
			r.Post("/answers/{answerID}/comments", rt.answers.AddComment)

			r.Post("/votes", rt.votes.Cast)
			r.Get("/votes", rt.votes.GetForQuestion)
			r.Get("/votes/stats", rt.votes.Stats)

			r.Get("/users/me", rt.users.GetMe)
			r.Put("/users/me", rt.users.Update)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notifications.List)
				r.Put("/read-all", rt.notifications.MarkAllRead)
				r.Put("/{notificationID}/read", rt.notifications.MarkRead)
				r.Delete("/{notificationID}", rt.notifications.Delete)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
