package worker

import (
	"net/http"
	"time"

	"github.com/Jshatto/asset-tracker/src/api/middlewares"
	"github.com/Jshatto/asset-tracker/src/auth"
	handlers "github.com/Jshatto/asset-tracker/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
	// Tokens, when set, restricts the depreciation routes to admins.
	Tokens *auth.TokenAuth
}

func NewServer(handler *handlers.Handler, tokens *auth.TokenAuth) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
		Tokens:  tokens,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middlewares.RequestLogger(s.Handler.Controller.Logger))
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/depreciation", func(r chi.Router) {
		if s.Tokens != nil {
			r.Use(s.Tokens.Verifier())
			r.Use(auth.Authenticator)
			r.Use(auth.RequireAdmin)
		}
		r.Post("/recompute", s.Handler.PostRecompute)
		r.Get("/runs/last", s.Handler.GetLastRun)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: handlers.RecomputeTimeout + 30*time.Second,
		Handler:      server,
	}
	return httpServer
}
