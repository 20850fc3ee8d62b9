package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/starshade/online-store/internal/repository"
)

// ProductHandler exposes catalog CRUD, search and paginated listing.
type ProductHandler struct {
	Products *repository.ProductRepo
	Log      zerolog.Logger
}

func NewProductHandler(products *repository.ProductRepo, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{Products: products, Log: log}
}

type productReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
}

// validateProduct trims the text fields in place and returns one message
// per failing field.  Price must be present and non-negative.
func validateProduct(req *productReq) []string {
	var errs []string
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" {
		errs = append(errs, "name is required")
	}
	if req.Description == "" {
		errs = append(errs, "description is required")
	}
	if req.Category == "" {
		errs = append(errs, "category is required")
	}
	if req.Price == nil {
		errs = append(errs, "price is required")
	} else if *req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if errs := validateProduct(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Products.Create(ctx, req.Name, req.Description, req.Category, *req.Price)
	if err != nil {
		if errors.Is(err, repository.ErrProductNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Product name already exists"})
		}
		h.Log.Error().Err(err).Str("name", req.Name).Msg("create product failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating product"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Product created successfully",
		"productId": id,
	})
}

// Update handles PUT /api/products/:id with full-replace semantics for the
// four mutable fields.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if errs := validateProduct(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Update(ctx, id, req.Name, req.Description, req.Category, *req.Price); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		case errors.Is(err, repository.ErrProductNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Product name already exists"})
		}
		h.Log.Error().Err(err).Uint64("product_id", id).Msg("update product failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error updating product"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Product updated successfully",
		"productId": id,
	})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		h.Log.Error().Err(err).Uint64("product_id", id).Msg("delete product failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting product"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Product deleted successfully",
		"productId": id,
	})
}

// Search handles GET /api/products/search?q=.  An empty query matches the
// whole catalog.
func (h *ProductHandler) Search(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.Search(ctx, c.QueryParam("q"))
	if err != nil {
		h.Log.Error().Err(err).Msg("search products failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error searching products"})
	}

	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// List handles GET /api/products/ with ?page= and ?limit= pagination.
func (h *ProductHandler) List(c echo.Context) error {
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, total, err := h.Products.List(ctx, page, limit)
	if err != nil {
		h.Log.Error().Err(err).Msg("list products failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error reading products"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products":      products,
		"totalProducts": total,
	})
}
