package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CreateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateUserRequest struct {
	Value string `json:"value"`
}

type CreateProductRequest struct {
	ID          uint32          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type StockRequest struct {
	Quantity uint32 `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID uint32 `json:"user_id"`
}

type AddItemRequest struct {
	ProductID uint32 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status *OrderStatus `json:"status"`
}

func (r *CreateProductRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("id is required")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

func (r *CreateOrderRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	return nil
}

func (r *AddItemRequest) Validate() error {
	if r.ProductID == 0 {
		return errors.New("product_id is required")
	}
	if r.Quantity == 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (r *UpdateStatusRequest) Validate() error {
	if r.Status == nil {
		return errors.New("status is required")
	}
	return nil
}
