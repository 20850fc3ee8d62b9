package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starshade/online-store/internal/queue"
	"github.com/starshade/online-store/internal/repository"
)

// fakeOrderStore satisfies OrderStore with canned results.
type fakeOrderStore struct {
	placeID    uint64
	placeItems []repository.CartItem
	placeErr   error
	placedFor  []uint64
}

func (f *fakeOrderStore) Place(ctx context.Context, userID uint64) (uint64, []repository.CartItem, error) {
	f.placedFor = append(f.placedFor, userID)
	return f.placeID, f.placeItems, f.placeErr
}

func (f *fakeOrderStore) ListByUser(ctx context.Context, userID uint64, page, limit int) ([]repository.Order, int64, error) {
	return nil, 0, nil
}

func placeOrderContext(t *testing.T, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestOrderPlace_EmptyCartRejected(t *testing.T) {
	store := &fakeOrderStore{placeErr: repository.ErrEmptyCart}
	published := 0
	h := NewOrderHandler(nil, store, func(ctx context.Context, ev queue.OrderPlacedEvent) error {
		published++
		return nil
	}, zerolog.Nop())

	c, rec := placeOrderContext(t, 7)
	require.NoError(t, h.Place(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cart is empty", resp.Message)
	assert.Zero(t, published, "no event may be published for a rejected order")
}

func TestOrderPlace_UnknownUser(t *testing.T) {
	store := &fakeOrderStore{placeErr: repository.ErrUserNotFound}
	h := NewOrderHandler(nil, store, nil, zerolog.Nop())

	c, rec := placeOrderContext(t, 99)
	require.NoError(t, h.Place(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderPlace_Success(t *testing.T) {
	store := &fakeOrderStore{
		placeID:    41,
		placeItems: []repository.CartItem{{ProductID: 5, Quantity: 2}},
	}
	var gotEvent queue.OrderPlacedEvent
	h := NewOrderHandler(nil, store, func(ctx context.Context, ev queue.OrderPlacedEvent) error {
		gotEvent = ev
		return nil
	}, zerolog.Nop())

	c, rec := placeOrderContext(t, 7)
	require.NoError(t, h.Place(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		OrderID uint64 `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(41), resp.OrderID)

	require.Equal(t, []uint64{7}, store.placedFor)
	assert.Equal(t, uint64(41), gotEvent.OrderID)
	assert.Equal(t, uint64(7), gotEvent.UserID)
	require.Len(t, gotEvent.Items, 1)
	assert.Equal(t, uint64(5), gotEvent.Items[0].ProductID)
	assert.Equal(t, uint32(2), gotEvent.Items[0].Quantity)
}

func TestOrderPlace_BrokerFailureDoesNotFailRequest(t *testing.T) {
	store := &fakeOrderStore{placeID: 42}
	h := NewOrderHandler(nil, store, func(ctx context.Context, ev queue.OrderPlacedEvent) error {
		return context.DeadlineExceeded
	}, zerolog.Nop())

	c, rec := placeOrderContext(t, 7)
	require.NoError(t, h.Place(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderPlace_MissingIdentity(t *testing.T) {
	h := NewOrderHandler(nil, &fakeOrderStore{}, nil, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id set

	require.NoError(t, h.Place(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
