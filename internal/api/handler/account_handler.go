package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront-api/internal/api/metrics"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

const accountsDirectory = "accounts"

// AccountHandler exposes the account directory under /users.
type AccountHandler struct {
	accounts ports.AccountDirectory
}

func NewAccountHandler(accounts ports.AccountDirectory) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataResponse{data=[]domain.Account}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *AccountHandler) List(c echo.Context) error {
	start := time.Now()
	accounts, err := h.accounts.List(c.Request().Context())
	metrics.ObserveDirectory(accountsDirectory, "list", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(accounts))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  dataResponse{data=domain.Account}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if _, err := authorizeSelfOrAdmin(c, id); err != nil {
		return err
	}

	start := time.Now()
	account, err := h.accounts.GetByID(c.Request().Context(), id)
	metrics.ObserveDirectory(accountsDirectory, "get", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(account))
}

// Create handles POST /users. Administrators may pick the role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "User details"
// @Success      201   {object}  dataResponse{data=domain.Account}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	account, err := h.accounts.Create(c.Request().Context(), toNewAccountInput(req))
	metrics.ObserveDirectory(accountsDirectory, "create", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ok(account))
}

// Update handles PUT /users/:id. Only administrators may change a role.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User ID"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.Account}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id := c.Param("id")
	claims, err := authorizeSelfOrAdmin(c, id)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := matchPathID(id, req.ID); err != nil {
		return err
	}
	if req.Role != nil && !claims.IsAdministrator() {
		return echo.NewHTTPError(http.StatusForbidden, "only administrators can change roles")
	}

	start := time.Now()
	account, err := h.accounts.Update(c.Request().Context(), id, toAccountChanges(id, req))
	metrics.ObserveDirectory(accountsDirectory, "update", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(account))
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	start := time.Now()
	err := h.accounts.Delete(c.Request().Context(), id)
	metrics.ObserveDirectory(accountsDirectory, "delete", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "user deleted successfully"})
}
