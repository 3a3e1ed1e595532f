package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http/authn"
)

// Chat runs one router turn.
// POST /ai/chat
func (h *Handler) Chat(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Chat(c.Request().Context(), id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListTools lists the operations available to the caller's role.
// GET /ai/tools
func (h *Handler) ListTools(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, h.service.ListTools(id.Role))
}
