package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roadmasterpro/project-api/internal/api/metrics"
	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

// RegistrationHandler handles the two-step signup workflow over HTTP.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// List handles GET /pending-registrations. Only records still pending are
// returned.
//
// @Summary      List pending registrations
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   registrationResponse
// @Failure      500  {object}  errorSchema
// @Router       /pending-registrations [get]
func (h *RegistrationHandler) List(c echo.Context) error {
	regs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]registrationResponse, 0, len(regs))
	for _, r := range regs {
		resp = append(resp, toRegistrationResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /pending-registrations — the public signup entry.
//
// @Summary      Submit a signup request
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        body  body      createRegistrationRequest  true  "Signup details"
// @Success      201   {object}  registrationResponse
// @Failure      400   {object}  errorSchema
// @Failure      409   {object}  errorSchema
// @Failure      500   {object}  errorSchema
// @Router       /pending-registrations [post]
func (h *RegistrationHandler) Create(c echo.Context) error {
	var req createRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reg, err := h.service.Create(c.Request().Context(), ports.CreateRegistrationInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		RequestedRole: req.RequestedRole,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// Delete handles DELETE /pending-registrations/:id — rejection.
//
// @Summary      Delete a pending registration
// @Tags         registrations
// @Produce      json
// @Param        id   path      string  true  "Registration id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorSchema
// @Failure      404  {object}  errorSchema
// @Failure      500  {object}  errorSchema
// @Router       /pending-registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "registration id is required")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.RegistrationsResolvedTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "registration deleted"})
}

// Approve handles POST /pending-registrations/:id/approve. A duplicate email
// discovered at approval time reports 400 (the registration stays pending);
// an id already approved or deleted reports 404.
//
// @Summary      Approve a pending registration
// @Tags         registrations
// @Produce      json
// @Param        id   path      string  true  "Registration id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorSchema
// @Failure      404  {object}  errorSchema
// @Failure      500  {object}  errorSchema
// @Router       /pending-registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "registration id is required")
	}

	user, err := h.service.Approve(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "a user with this email already exists")
		}
		return err
	}

	metrics.RegistrationsResolvedTotal.WithLabelValues("approved").Inc()
	metrics.UsersCreatedTotal.WithLabelValues("approval").Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func toRegistrationResponse(r *domain.Registration) registrationResponse {
	return registrationResponse{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		RequestedRole: r.RequestedRole,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
