package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. It cannot be modified after construction and
// is copied by value into orders.
type Product struct {
	id          uint32
	name        string
	price       decimal.Decimal
	description string
}

func NewProduct(id uint32, name string, price decimal.Decimal, description string) (Product, error) {
	if price.IsNegative() {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNegativePrice)
	}

	return Product{
		id:          id,
		name:        name,
		price:       price,
		description: description,
	}, nil
}

func (p Product) ID() uint32 { return p.id }
func (p Product) Name() string { return p.name }
func (p Product) Price() decimal.Decimal { return p.price }
func (p Product) Description() string { return p.description }

// Subtotal returns price × quantity.
func (p Product) Subtotal(quantity uint32) decimal.Decimal {
	return p.price.Mul(decimal.NewFromInt(int64(quantity)))
}

func (p Product) String() string {
	return fmt.Sprintf("Product: %s (ID: %d)\nPrice: $%s\nDescription: %s",
		p.name, p.id, p.price.StringFixed(2), p.description)
}

type productJSON struct {
	ID          uint32          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ID:          p.id,
		Name:        p.name,
		Price:       p.price,
		Description: p.description,
	})
}

// UnmarshalJSON goes through NewProduct so a decoded product is never
// negatively priced.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded, err := NewProduct(raw.ID, raw.Name, raw.Price, raw.Description)
	if err != nil {
		return err
	}

	*p = decoded
	return nil
}
