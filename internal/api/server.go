package api

import (
	"log/slog"
	"net/http"

	"exercise-tracker/internal/config"
	"exercise-tracker/internal/exerciselog"
	"exercise-tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

// Server wraps the REST API router
type Server struct {
	handler *Handler
	router  *gin.Engine
}

// NewServer wires the routes onto a fresh gin engine
func NewServer(users repository.UserRepository, engine *exerciselog.Engine, cfg config.ServerConfig, logger *slog.Logger) *Server {
	handler := NewHandler(users, engine, logger)

	// gin.New() so the access log goes through slog instead of gin's default writer
	router := gin.New()
	router.Use(requestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	api := router.Group("/api")
	{
		api.POST("/users", handler.CreateUser)
		api.GET("/users", handler.ListUsers)
		api.POST("/users/:id/exercises", handler.AddExercise)
		api.GET("/users/:id/logs", handler.GetLogs)
	}

	// Must be last: installs the NoRoute fallback
	ServeStaticFiles(router, cfg.ViewsDir, cfg.PublicDir)

	return &Server{
		handler: handler,
		router:  router,
	}
}

// GetRouter returns the router
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
