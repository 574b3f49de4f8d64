package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
)

type MockCartAPI struct {
	CartResult *domain.Cart
	CartErr    error
	UpdateErr  error

	LastItemID   string
	LastQuantity int
}

func (m *MockCartAPI) Cart(context.Context, string) (*domain.Cart, error) {
	return m.CartResult, m.CartErr
}

func (m *MockCartAPI) UpdateQuantity(_ context.Context, _, itemID string, quantity int) error {
	m.LastItemID = itemID
	m.LastQuantity = quantity
	return m.UpdateErr
}

func newCartTestServer(api *MockCartAPI) *httptest.Server {
	checkout := NewCheckoutHandler(&MockCheckoutAPI{}, 5*time.Second)
	carts := NewCartHandler(api, 5*time.Second)
	return httptest.NewServer(NewRouter(checkout, carts, 5*time.Second))
}

func TestGetCart(t *testing.T) {
	api := &MockCartAPI{CartResult: &domain.Cart{
		CustomerID: "cust-1",
		Items:      []domain.CartItem{{ID: "item-1", Title: "Margarita Package", Price: 50, Quantity: 1}},
	}}
	server := newCartTestServer(api)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/cart/cust-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c domain.Cart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "item-1", c.Items[0].ID)
}

func TestGetCart_MissingCartIsEmptyCart(t *testing.T) {
	api := &MockCartAPI{CartErr: cart.ErrCartNotFound}
	server := newCartTestServer(api)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/cart/cust-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c domain.Cart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	assert.Equal(t, "cust-1", c.CustomerID)
	assert.Empty(t, c.Items)
}

func TestUpdateQuantity(t *testing.T) {
	api := &MockCartAPI{}
	server := newCartTestServer(api)
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/cart/cust-1/items/item-1",
		strings.NewReader(`{"quantity":3}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "item-1", api.LastItemID)
	assert.Equal(t, 3, api.LastQuantity)
}

func TestUpdateQuantity_OutOfRange(t *testing.T) {
	server := newCartTestServer(&MockCartAPI{})
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/cart/cust-1/items/item-1",
		strings.NewReader(`{"quantity":100}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateQuantity_UnknownItem(t *testing.T) {
	api := &MockCartAPI{UpdateErr: cart.ErrItemNotFound}
	server := newCartTestServer(api)
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/cart/cust-1/items/nope",
		strings.NewReader(`{"quantity":2}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
