package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/verikey/otp-service/internal/core/ports"
)

// OtpHandler exposes code issuance and validation.
type OtpHandler struct {
	otpService ports.OtpService
}

func NewOtpHandler(otpService ports.OtpService) *OtpHandler {
	return &OtpHandler{otpService: otpService}
}

type generateRequest struct {
	// Operation is the free-form tag naming what the code authorizes.
	Operation string `json:"operation" validate:"required,max=128"`
}

type generateResponse struct {
	Code      string    `json:"code"`
	Operation string    `json:"operation"`
	ExpiresAt time.Time `json:"expires_at"`
}

type validateRequest struct {
	Code      string `json:"code" validate:"required"`
	Operation string `json:"operation" validate:"required,max=128"`
}

type validateResponse struct {
	Status    string `json:"status"`
	Operation string `json:"operation"`
}

// Generate issues a fresh single-use code for the authenticated principal.
// Delivery of the code to its recipient is out of band; the service only
// hands the value back to the caller.
//
// @Summary      Issue a one-time code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateRequest  true  "Operation the code authorizes"
// @Success      201   {object}  generateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/otp [post]
func (h *OtpHandler) Generate(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.otpService.GenerateCode(c.Request().Context(), principal, req.Operation)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, generateResponse{
		Code:      res.Code,
		Operation: req.Operation,
		ExpiresAt: res.ExpiresAt,
	})
}

// Validate redeems a code exactly once. The failure response never reveals
// whether the code existed, expired or was already used.
//
// @Summary      Validate a one-time code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      validateRequest  true  "Code to redeem"
// @Success      200   {object}  validateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/otp/validate [post]
func (h *OtpHandler) Validate(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.otpService.ValidateCode(c.Request().Context(), principal, req.Code, req.Operation)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, validateResponse{
		Status:    "validated",
		Operation: rec.Operation,
	})
}
