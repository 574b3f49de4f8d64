package cart

import (
	"context"
	"errors"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Repository is the checkout core's edge to the cart aggregate, which is
// owned elsewhere. The core reads the cart, adjusts line quantities and
// clears it after a successful payment; it never creates carts.
type Repository interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) error
	Clear(ctx context.Context, customerID string) error
}
