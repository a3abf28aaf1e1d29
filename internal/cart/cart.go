// Package cart owns the shopping cart: pure state transitions, the session
// manager that persists them, and the HTTP surface over both.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ArtfulStore/internal/catalog"
)

var (
	ErrStockExceeded   = errors.New("stock exceeded")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// StockError reports a rejected change; the cart is left as it was.
type StockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("sorry, only %d items available (%s, requested %d)", e.Available, e.ProductID, e.Requested)
}

func (e *StockError) Is(target error) bool { return target == ErrStockExceeded }

// ProductSource resolves product ids for the HTTP layer and checkout.
type ProductSource interface {
	Lookup(ctx context.Context, id string) (catalog.Product, error)
}

type LineItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (it LineItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// State is an immutable cart snapshot. Transitions return a new State and
// never touch the receiver, so a State handed out earlier stays valid.
type State struct {
	items     []LineItem
	panelOpen bool
}

func NewState(items ...LineItem) State {
	return State{items: cloneItems(items)}
}

func (s State) Items() []LineItem { return cloneItems(s.items) }
func (s State) Len() int          { return len(s.items) }
func (s State) PanelOpen() bool   { return s.panelOpen }

func (s State) Item(id string) (LineItem, bool) {
	if i := s.index(id); i >= 0 {
		return cloneItem(s.items[i]), true
	}
	return LineItem{}, false
}

func (s State) TotalItems() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Add merges q units of p into the cart. The merged quantity may not exceed
// p.StockQuantity. An accepted add opens the cart panel.
func (s State) Add(p catalog.Product, q int) (State, error) {
	if q < 1 {
		return s, ErrInvalidQuantity
	}

	i := s.index(p.ID)
	total := q
	if i >= 0 {
		total += s.items[i].Quantity
	}
	if total > p.StockQuantity {
		return s, &StockError{ProductID: p.ID, Requested: total, Available: p.StockQuantity}
	}

	next := s.clone()
	if i >= 0 {
		next.items[i].Quantity = total
	} else {
		next.items = append(next.items, LineItem{Product: p, Quantity: q})
	}
	next.panelOpen = true
	return next, nil
}

// Remove drops the line item for id. The bool is false when id was absent.
func (s State) Remove(id string) (State, bool) {
	i := s.index(id)
	if i < 0 {
		return s, false
	}
	next := s.clone()
	next.items = append(next.items[:i], next.items[i+1:]...)
	return next, true
}

// SetQuantity sets an exact quantity. q < 1 removes the item; unknown ids are
// ignored; the bound is the stock recorded on the line item.
func (s State) SetQuantity(id string, q int) (State, error) {
	if q < 1 {
		next, _ := s.Remove(id)
		return next, nil
	}

	i := s.index(id)
	if i < 0 {
		return s, nil
	}
	if q > s.items[i].StockQuantity {
		return s, &StockError{ProductID: id, Requested: q, Available: s.items[i].StockQuantity}
	}

	next := s.clone()
	next.items[i].Quantity = q
	return next, nil
}

func (s State) Clear() State {
	return State{items: []LineItem{}, panelOpen: s.panelOpen}
}

func (s State) WithPanelOpen(open bool) State {
	next := s.clone()
	next.panelOpen = open
	return next
}

func (s State) index(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	return State{items: cloneItems(s.items), panelOpen: s.panelOpen}
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneItem(it LineItem) LineItem {
	it.Tags = append([]string(nil), it.Tags...)
	return it
}
