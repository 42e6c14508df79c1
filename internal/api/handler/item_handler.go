package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront-api/internal/api/metrics"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

const catalogDirectory = "catalog"

// ItemHandler exposes the catalog directory under /products.
type ItemHandler struct {
	catalog ports.CatalogDirectory
}

func NewItemHandler(catalog ports.CatalogDirectory) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  dataResponse{data=[]domain.Item}
// @Failure      503  {object}  errorResponse
// @Router       /products [get]
func (h *ItemHandler) List(c echo.Context) error {
	start := time.Now()
	items, err := h.catalog.List(c.Request().Context())
	metrics.ObserveDirectory(catalogDirectory, "list", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(items))
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dataResponse{data=domain.Item}
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	start := time.Now()
	item, err := h.catalog.GetByID(c.Request().Context(), c.Param("id"))
	metrics.ObserveDirectory(catalogDirectory, "get", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(item))
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createItemRequest  true  "Product details"
// @Success      201   {object}  dataResponse{data=domain.Item}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /products [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req createItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	item, err := h.catalog.Create(c.Request().Context(), toNewItemInput(req))
	metrics.ObserveDirectory(catalogDirectory, "create", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ok(item))
}

// Update handles PUT /products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Product ID"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.Item}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := matchPathID(id, req.ID); err != nil {
		return err
	}

	start := time.Now()
	item, err := h.catalog.Update(c.Request().Context(), id, toItemChanges(id, req))
	metrics.ObserveDirectory(catalogDirectory, "update", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(item))
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	start := time.Now()
	err := h.catalog.Delete(c.Request().Context(), id)
	metrics.ObserveDirectory(catalogDirectory, "delete", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "product deleted successfully"})
}
