package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/starshade/online-store/internal/queue"
	"github.com/starshade/online-store/internal/repository"
)

// OrderStore is the slice of the order repository this handler needs.
// Narrowing it to an interface keeps the handler testable without MySQL.
type OrderStore interface {
	Place(ctx context.Context, userID uint64) (uint64, []repository.CartItem, error)
	ListByUser(ctx context.Context, userID uint64, page, limit int) ([]repository.Order, int64, error)
}

// OrderHandler turns carts into orders and lists order history.  Placement
// is fully transactional in the repository; the broker notification runs
// after commit and never affects the response.
type OrderHandler struct {
	Users   *repository.UserRepo
	Orders  OrderStore
	Publish func(ctx context.Context, event queue.OrderPlacedEvent) error
	Log     zerolog.Logger
}

func NewOrderHandler(users *repository.UserRepo, orders OrderStore,
	publish func(ctx context.Context, event queue.OrderPlacedEvent) error, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{Users: users, Orders: orders, Publish: publish, Log: log}
}

// Place handles POST /api/orders.  The repository locks the user row,
// snapshots the cart into an order and clears the cart in one transaction,
// so concurrent cart mutations for the same user serialize behind it.  An
// empty cart is rejected with 400.
func (h *OrderHandler) Place(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orderID, items, err := h.Orders.Place(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		case errors.Is(err, repository.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Cart is empty"})
		}
		h.Log.Error().Err(err).Uint64("user_id", userID).Msg("place order failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error placing order"})
	}

	if h.Publish != nil {
		event := queue.OrderPlacedEvent{
			OrderID:  orderID,
			UserID:   userID,
			Items:    make([]queue.OrderPlacedItem, 0, len(items)),
			PlacedAt: time.Now().UTC().Format(time.RFC3339),
		}
		for _, it := range items {
			event.Items = append(event.Items, queue.OrderPlacedItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		// Best effort: the order is already committed, a broker outage must not fail the request.
		_ = h.Publish(ctx, event)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order placed successfully",
		"orderId": orderID,
	})
}

// List handles GET /api/orders with ?page= and ?limit= pagination.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
	}
	page, limit := parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		h.Log.Error().Err(err).Uint64("user_id", userID).Msg("load user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving orders"})
	}

	orders, total, err := h.Orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		h.Log.Error().Err(err).Uint64("user_id", userID).Msg("list orders failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error retrieving orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders":      orders,
		"totalOrders": total,
	})
}
