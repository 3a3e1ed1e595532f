// Package v1 provides the router's HTTP API.
package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the authenticated API on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.Chat)

	// Transcripts
	g.POST("/session", h.CreateSession)
	g.GET("/sessions", h.ListSessions)
	g.POST("/message", h.SaveMessage)
	g.GET("/messages/:session_id", h.GetMessages)
	g.GET("/turns/:turn_id/events", h.GetTurnEvents)

	g.GET("/tools", h.ListTools)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// serviceError maps service sentinels to status codes.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not found")
	default:
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
}

func queryLimit(c echo.Context, def int) int {
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			return val
		}
	}
	return def
}
