package http

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/careshare/careshare-api/internal/auth"
	"github.com/careshare/careshare-api/internal/config"
	"github.com/careshare/careshare-api/internal/document"
	"github.com/careshare/careshare-api/internal/httputil"
	"github.com/careshare/careshare-api/internal/logging"
)

// ResourceHandlers groups the CRUD handlers of the independent
// resource collections
type ResourceHandlers struct {
	Donation     *document.Handler
	Leaderboard  *document.Handler
	Volunteer    *document.Handler
	Testimonials *document.Handler
	Feedback     *document.Handler
}

// StatusResponse is the root endpoint payload
type StatusResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, authHandler *auth.Handler, resources ResourceHandlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/", handleStatus)
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Auth
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Donations (full CRUD)
		r.Get("/donation", resources.Donation.List)
		r.Get("/donation/{id}", resources.Donation.Get)
		r.Post("/create-donation", resources.Donation.Create)
		r.Put("/update-donation/{id}", resources.Donation.Update)
		r.Delete("/delete-donation/{id}", resources.Donation.Delete)

		// Leaderboard
		r.Get("/leaderboard", resources.Leaderboard.List)

		// Volunteers
		r.Get("/volunteer", resources.Volunteer.List)
		r.Post("/createVolunteer", resources.Volunteer.Create)

		// Testimonials
		r.Get("/testimonials", resources.Testimonials.List)
		r.Post("/create-testimonials", resources.Testimonials.Create)

		// Feedback
		r.Get("/feedback", resources.Feedback.List)
		r.Post("/create-feedback", resources.Feedback.Create)
	})

	return r
}

// handleStatus reports that the server is up
// @Summary      Server status
// @Tags         health
// @Produce      json
// @Success      200 {object} StatusResponse
// @Router       / [get]
func handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, StatusResponse{
		Message:   "Server is running smoothly",
		Timestamp: time.Now(),
	}, http.StatusOK)
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
