package api

import (
	"errors"
	"log/slog"
	"net/http"

	"exercise-tracker/internal/exerciselog"
	"exercise-tracker/internal/models"
	"exercise-tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

// Handler contains API handlers
type Handler struct {
	users  repository.UserRepository
	engine *exerciselog.Engine
	logger *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(users repository.UserRepository, engine *exerciselog.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		engine: engine,
		logger: logger,
	}
}

// UserResponse is the public view of a user
type UserResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// ExerciseResponse echoes an added exercise with its owner
type ExerciseResponse struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
	ID          string `json:"_id"`
}

// LogResponse is a user's filtered log
type LogResponse struct {
	Username string              `json:"username"`
	Count    int                 `json:"count"`
	ID       string              `json:"_id"`
	Log      []exerciselog.Entry `json:"log"`
}

// CreateUser registers a new user
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Username: user.Username, ID: user.ID})
}

// ListUsers returns every user without logs
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{Username: u.Username, ID: u.ID})
	}
	c.JSON(http.StatusOK, resp)
}

// AddExercise appends an exercise to a user's log
func (h *Handler) AddExercise(c *gin.Context) {
	userID := c.Param("id")

	var req AddExerciseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	date := h.engine.Now()
	if req.Date != "" {
		parsed, err := h.engine.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date = parsed
	}

	exercise := models.Exercise{
		Description: req.Description,
		Duration:    int(*req.Duration),
		Date:        date,
	}

	user, err := h.users.AppendExercise(c.Request.Context(), userID, exercise)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExerciseResponse{
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        h.engine.FormatDate(exercise.Date),
		ID:          user.ID,
	})
}

// GetLogs returns a user's log filtered by from, to and limit
func (h *Handler) GetLogs(c *gin.Context) {
	userID := c.Param("id")

	query, err := h.engine.ParseQuery(c.Query("from"), c.Query("to"), c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result := h.engine.Apply(user.Log, query)
	c.JSON(http.StatusOK, LogResponse{
		Username: user.Username,
		Count:    result.Count,
		ID:       user.ID,
		Log:      result.Log,
	})
}

// writeError maps repository errors onto status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, repository.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.logger.Error("store operation failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
