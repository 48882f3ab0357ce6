package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/product.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        pageNumber  query     int  false  "1-based page number"  default(1)
// @Param        pageSize    query     int  false  "Items per page"       default(10)
// @Success      200         {object}  productListResponse
// @Failure      400         {object}  errorBody
// @Failure      401         {object}  errorBody
// @Router       /api/product [get]
func (h *ProductHandler) List(c echo.Context) error {
	ve := &domain.ValidationError{}
	pageNumber := queryInt(c, "pageNumber", defaultPageNumber, ve)
	pageSize := queryInt(c, "pageSize", defaultPageSize, ve)
	if err := ve.OrNil(); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), pageNumber, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// Get handles GET /api/product/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/product/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*p))
}

// Create handles POST /api/product.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Header       201   {string}  Location  "/api/product/{id}"
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /api/product [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), toDomainProduct(req))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/product/%d", created.ID))
	return c.JSON(http.StatusCreated, toProductResponse(*created))
}

// Update handles PUT /api/product/:id.
//
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int             true  "Product id"
// @Param        body  body  productRequest  true  "Product, id must match the path"
// @Success      204
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/product/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID != id {
		return domain.NewValidationError("id", "must match the id in the path")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), toDomainProduct(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/product/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  int  true  "Product id"
// @Success      204
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /api/product/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, recording a reason on ve
// when it is present but not an integer.
func queryInt(c echo.Context, name string, def int, ve *domain.ValidationError) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		ve.Add(name, "must be an integer")
		return def
	}
	return n
}
