package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPortrait   Category = "portrait"
	CategoryHandicraft Category = "handicraft"
)

var Categories = []Category{CategoryPortrait, CategoryHandicraft}

var (
	ErrNotFound        = errors.New("product not found")
	ErrUnknownCategory = errors.New("unknown category")
)

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Category      Category        `json:"category"`
	Featured      bool            `json:"featured"`
	StockQuantity int             `json:"stock_quantity"`
	ArtistName    string          `json:"artist_name"`
	Tags          []string        `json:"tags"`
}

func (p Product) clone() Product {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func (p Product) matches(query string) bool {
	if containsFold(p.Name, query) || containsFold(p.Description, query) || containsFold(p.ArtistName, query) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, query) {
			return true
		}
	}
	return false
}

// query is already lower-cased.
func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), query)
}

// Criteria is conjunctive; zero-valued fields do not constrain.
type Criteria struct {
	Category    Category
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	SearchQuery string
}
