package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecommerce-showcase/storefront/internal/api/metrics"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

// UserHandler serves the user management endpoints. Role gating happens in
// the router; handlers only read the identity for audit logging.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type updateUserRequest struct {
	Role *domain.Role `json:"role"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.accounts.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id. Only the role can be changed.
//
// @Summary      Update a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Changes"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	requester, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), requester, c.Param("id"), ports.UserChanges{Role: req.Role})
	if err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("user", "update").Inc()
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	requester, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteUser(c.Request().Context(), requester, c.Param("id")); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("user", "delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
