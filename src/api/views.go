package api

import (
	"net/http"
	"time"

	handlers "github.com/Jshatto/asset-tracker/src/api/handlers"
	"github.com/Jshatto/asset-tracker/src/api/middlewares"
	"github.com/Jshatto/asset-tracker/src/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type Server struct {
	Router      *chi.Mux
	Handler     *handlers.Handler
	Tokens      *auth.TokenAuth
	RateLimiter *middlewares.RateLimiter
}

func NewServer(handler *handlers.Handler, tokens *auth.TokenAuth, limiter *middlewares.RateLimiter) *Server {
	server := &Server{
		Router:      chi.NewRouter(),
		Handler:     handler,
		Tokens:      tokens,
		RateLimiter: limiter,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler)
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.RealIP)
	s.Router.Use(middlewares.RequestLogger(s.Handler.Logger))
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.RateLimiter != nil {
				r.Use(s.RateLimiter.Middleware)
			}
			r.With(s.Tokens.Verifier(), auth.OptionalActor).Post("/register", s.Handler.Register)
			r.Post("/login", s.Handler.Login)
		})
		r.With(s.Tokens.Verifier(), auth.Authenticator).Get("/me", s.Handler.Me)
	})

	s.Router.Group(func(r chi.Router) {
		r.Use(s.Tokens.Verifier())
		r.Use(auth.Authenticator)

		r.Route("/api/clients", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllClients)
			r.Get("/{id}", s.Handler.GetClientByID)
			r.Post("/", s.Handler.CreateClient)
			r.Put("/{id}", s.Handler.UpdateClient)
			r.Delete("/{id}", s.Handler.DeleteClient)
		})

		r.Route("/api/assets", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllAssets)
			r.Post("/", s.Handler.CreateAsset)
			r.Post("/import", s.Handler.ImportAssets)
			r.Get("/export", s.Handler.ExportAssets)
			r.Get("/{id}", s.Handler.GetAssetByID)
			r.Put("/{id}", s.Handler.UpdateAsset)
			r.Delete("/{id}", s.Handler.DeleteAsset)
			r.Delete("/{id}/purge", s.Handler.PurgeAsset)
			r.Get("/{id}/schedule", s.Handler.GetAssetSchedule)
		})
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		Handler:      server,
	}
	return httpServer
}
