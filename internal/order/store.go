package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ArtfulStore/internal/money"
)

const StatusConfirmed = "CONFIRMED"

type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Customer is the shipping part of the checkout form. Card fields are
// validated and dropped.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

type Order struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Customer   Customer        `json:"customer"`
	Items      []Item          `json:"items"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
	Display    money.Summary   `json:"display"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
}
