// Package webserver provides the web frontend HTTP server implementation
package webserver

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/application/contact"
	appuser "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/infrastructure/monitoring"
	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/healthcheck"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// WebServer represents the web frontend HTTP server
type WebServer struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	sessions       *SessionStore
	recipes        inbound.RecipeService
	users          *appuser.UserService
	contacts       *contact.ContactService
	taxonomy       outbound.TaxonomyRepository
	templates      *template.Template
	healthCheck    *healthcheck.HealthCheck
	metrics        *monitoring.Metrics
	rateLimitStore *sync.Map
}

// NewWebServer creates a new web frontend server instance
func NewWebServer(
	cfg *config.Config,
	log *zap.Logger,
	sessions *SessionStore,
	recipes inbound.RecipeService,
	users *appuser.UserService,
	contacts *contact.ContactService,
	taxonomy outbound.TaxonomyRepository,
	healthCheck *healthcheck.HealthCheck,
	metrics *monitoring.Metrics,
) (*WebServer, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	server := &WebServer{
		config:         cfg,
		logger:         log.Named("webserver"),
		sessions:       sessions,
		recipes:        recipes,
		users:          users,
		contacts:       contacts,
		taxonomy:       taxonomy,
		templates:      templates,
		healthCheck:    healthCheck,
		metrics:        metrics,
		rateLimitStore: &sync.Map{},
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures the web frontend routes
func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware(routePattern))
	r.Use(s.securityHeadersMiddleware)
	if s.config.RateLimit.Enable {
		r.Use(s.rateLimitMiddleware)
	}

	// Operational endpoints
	r.Get("/health", s.healthCheck.Handler())
	if s.config.Monitoring.EnableMetrics {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// Static assets and uploaded images
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.config.Storage.LocalPath))))

	// Public pages
	r.Get("/", s.handleHome)
	r.Get("/recipes", s.handleRecipeList)
	r.Get("/search", s.handleSearch)
	r.Get("/categories", s.handleCategories)
	r.Get("/recipes/{id}", s.handleRecipeDetail)
	r.Get("/about", s.handleAbout)
	r.Get("/contact", s.handleContactPage)
	r.Post("/contact", s.handleContactSubmit)

	// Auth
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)

	// Pages requiring authentication
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/recipes/new", s.handleNewRecipePage)
		r.Post("/recipes/new", s.handleCreateRecipe)
		r.Get("/recipes/{id}/edit", s.handleEditRecipePage)
		r.Post("/recipes/{id}/edit", s.handleUpdateRecipe)

		r.Get("/my-recipes", s.handleMyRecipes)
		// Deletion is POST-only so crawlers and prefetchers can't
		// destroy data by following a link.
		r.Post("/my-recipes/{id}/delete", s.handleDeleteRecipe)

		r.Get("/favorites", s.handleFavorites)
		r.Get("/profile", s.handleProfilePage)
		r.Post("/profile", s.handleProfileUpdate)
	})

	// AJAX JSON endpoints
	r.Route("/ajax", func(r chi.Router) {
		r.Use(s.requireAuthJSON)

		r.Post("/rate", s.handleAjaxRate)
		r.Post("/favorite", s.handleAjaxFavorite)
		r.Post("/comment", s.handleAjaxComment)
	})

	return r
}

// Start starts the web frontend HTTP server
func (s *WebServer) Start() error {
	s.logger.Info("Starting web server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server")
	return s.server.Shutdown(ctx)
}

// routePattern resolves the chi route pattern for metrics labels.
func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// parseTemplates parses all HTML templates from the embedded filesystem
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"timeAgo": func(t time.Time) string {
			duration := time.Since(t)
			switch {
			case duration < time.Minute:
				return "just now"
			case duration < time.Hour:
				return fmt.Sprintf("%d minutes ago", int(duration.Minutes()))
			case duration < 24*time.Hour:
				return fmt.Sprintf("%d hours ago", int(duration.Hours()))
			case duration < 7*24*time.Hour:
				return fmt.Sprintf("%d days ago", int(duration.Hours()/24))
			default:
				return t.Format("Jan 2")
			}
		},
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
		"minutes": func(m *int) string {
			if m == nil {
				return "-"
			}
			return fmt.Sprintf("%d min", *m)
		},
		"stars": func(avg float64) string {
			full := int(avg + 0.5)
			if full > 5 {
				full = 5
			}
			return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"derefInt": func(p *int) interface{} {
			if p == nil {
				return ""
			}
			return *p
		},
		"derefFloat": func(p *float64) interface{} {
			if p == nil {
				return ""
			}
			return *p
		},
		"containsID": func(ids []uuid.UUID, id uuid.UUID) bool {
			for _, candidate := range ids {
				if candidate == id {
					return true
				}
			}
			return false
		},
		"seq": func(from, to int) []int {
			if to < from {
				return nil
			}
			items := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				items = append(items, i)
			}
			return items
		},
	}

	return template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
}
