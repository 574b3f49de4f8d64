package domain

import "time"

// CartItem is a single purchasable line in the cart. Price is the unit
// price before any session markup is applied.
type CartItem struct {
	ID       string  `json:"id" bson:"item_id"`
	Title    string  `json:"title" bson:"title"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Variant  string  `json:"variant,omitempty" bson:"variant,omitempty"`
}

// Cart is the customer's cart aggregate. The checkout core only reads it,
// mutates line quantities and clears it after a successful payment.
type Cart struct {
	ID         string     `json:"-" bson:"_id,omitempty"`
	CustomerID string     `json:"customer_id" bson:"customer_id"`
	Items      []CartItem `json:"items" bson:"items"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
