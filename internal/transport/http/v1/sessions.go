package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http/authn"
)

// CreateSession creates a chat session for the caller.
// POST /ai/session
func (h *Handler) CreateSession(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req domain.CreateSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid request body")
		}
	}

	resp, err := h.service.CreateSession(c.Request().Context(), id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListSessions lists the caller's sessions.
// GET /ai/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	sessions, err := h.service.ListSessions(c.Request().Context(), id, queryLimit(c, 50))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// SaveMessage appends a transcript entry.
// POST /ai/message
func (h *Handler) SaveMessage(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req domain.SaveMessageRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	msg, err := h.service.SaveMessage(c.Request().Context(), id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages returns a session transcript, oldest first.
// GET /ai/messages/:session_id
func (h *Handler) GetMessages(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	limit := queryLimit(c, 100)
	messages, err := h.service.GetMessages(c.Request().Context(), id, c.Param("session_id"), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// GetTurnEvents returns the audit trail of one router turn.
// GET /ai/turns/:turn_id/events
func (h *Handler) GetTurnEvents(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var types []string
	if t := c.QueryParam("types"); t != "" {
		for _, typ := range strings.Split(t, ",") {
			if typ = strings.TrimSpace(typ); typ != "" {
				types = append(types, typ)
			}
		}
	}

	events, err := h.service.GetTurnEvents(c.Request().Context(), id, c.Param("turn_id"), types)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
