package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
)

// AdminHandler serves administrator-only views.
type AdminHandler struct {
	auditService ports.AuditService
}

func NewAdminHandler(auditService ports.AuditService) *AdminHandler {
	return &AdminHandler{auditService: auditService}
}

type auditListResponse struct {
	Items []*domain.AuditEvent `json:"items"`
	Count int                  `json:"count"`
}

// ListAudit returns the most recent OTP lifecycle events.
//
// @Summary      List recent OTP audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events to return (default 100, max 500)"
// @Success      200    {object}  auditListResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /v1/admin/audit [get]
func (h *AdminHandler) ListAudit(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	events, err := h.auditService.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auditListResponse{Items: events, Count: len(events)})
}
