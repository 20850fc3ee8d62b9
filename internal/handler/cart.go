package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/starshade/online-store/internal/repository"
)

// CartHandler mutates the authenticated user's cart.  JWT middleware has
// already run, so the user id is read from the context; a stale token for
// a deleted user still yields 404 from the existence check.
type CartHandler struct {
	Users *repository.UserRepo
	Carts *repository.CartRepo
	Log   zerolog.Logger
}

func NewCartHandler(users *repository.UserRepo, carts *repository.CartRepo, log zerolog.Logger) *CartHandler {
	return &CartHandler{Users: users, Carts: carts, Log: log}
}

type addToCartReq struct {
	ProductID uint64 `json:"productId"`
	Quantity  uint32 `json:"quantity"`
}

// Add handles POST /api/cart.  Quantity defaults to 1 when absent; adding
// a product already in the cart accumulates its quantity.
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	var req addToCartReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		h.Log.Error().Err(err).Uint64("user_id", userID).Msg("load user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding product to cart"})
	}

	if err := h.Carts.Add(ctx, userID, req.ProductID, req.Quantity); err != nil {
		h.Log.Error().Err(err).Uint64("user_id", userID).Uint64("product_id", req.ProductID).Msg("add to cart failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error adding product to cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product added to cart successfully"})
}

// Remove handles DELETE /api/cart/:productId.  All lines matching the
// product are removed regardless of quantity; removing a product that is
// not in the cart still succeeds.
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid product id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		h.Log.Error().Err(err).Uint64("user_id", userID).Msg("load user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error removing product from cart"})
	}

	if err := h.Carts.Remove(ctx, userID, productID); err != nil {
		h.Log.Error().Err(err).Uint64("user_id", userID).Uint64("product_id", productID).Msg("remove from cart failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error removing product from cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed from cart successfully"})
}
