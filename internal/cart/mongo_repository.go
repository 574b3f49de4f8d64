package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection("carts")}
}

func (m *mongoRepository) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"customer_id": customerID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// UpdateQuantity sets the quantity on one line. Quantity zero removes the
// line entirely.
func (m *mongoRepository) UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) error {
	filter := bson.M{"customer_id": customerID}
	now := time.Now()

	if quantity <= 0 {
		update := bson.M{
			"$pull": bson.M{"items": bson.M{"item_id": itemID}},
			"$set":  bson.M{"updated_at": now},
		}
		result, err := m.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		if result.MatchedCount == 0 {
			return ErrCartNotFound
		}
		return nil
	}

	itemFilter := bson.M{"customer_id": customerID, "items.item_id": itemID}
	update := bson.M{
		"$set": bson.M{
			"items.$.quantity": quantity,
			"updated_at":       now,
		},
	}

	result, err := m.collection.UpdateOne(ctx, itemFilter, update)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		// distinguish a missing cart from a missing line
		if count, countErr := m.collection.CountDocuments(ctx, filter); countErr == nil && count == 0 {
			return ErrCartNotFound
		}
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoRepository) Clear(ctx context.Context, customerID string) error {
	filter := bson.M{"customer_id": customerID}
	update := bson.M{
		"$set": bson.M{
			"items":      []domain.CartItem{},
			"updated_at": time.Now(),
		},
	}

	if _, err := m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
