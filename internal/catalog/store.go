package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Catalog is the read-only product set. All results are copies.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog in definition order. Duplicate ids are rejected.
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product with empty id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if p.StockQuantity < 0 {
			return nil, fmt.Errorf("catalog: negative stock for %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.clone())
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) List() []Product {
	return c.collect(func(Product) bool { return true })
}

func (c *Catalog) GetByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

func (c *Catalog) Lookup(_ context.Context, id string) (Product, error) {
	p, ok := c.GetByID(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

func (c *Catalog) Featured() []Product {
	return c.collect(func(p Product) bool { return p.Featured })
}

func (c *Catalog) ByCategory(category Category) []Product {
	return c.collect(func(p Product) bool { return p.Category == category })
}

func (c *Catalog) Filter(crit Criteria) []Product {
	// A blank query is no constraint; any other query matches as typed.
	query := strings.ToLower(crit.SearchQuery)
	if strings.TrimSpace(query) == "" {
		query = ""
	}

	return c.collect(func(p Product) bool {
		if crit.Category != "" && p.Category != crit.Category {
			return false
		}
		if crit.MinPrice != nil && p.Price.LessThan(*crit.MinPrice) {
			return false
		}
		if crit.MaxPrice != nil && p.Price.GreaterThan(*crit.MaxPrice) {
			return false
		}
		if query != "" && !p.matches(query) {
			return false
		}
		return true
	})
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type Facets struct {
	Categories []CategoryCount `json:"categories"`
	PriceRange PriceRange      `json:"price_range"`
	InStock    int             `json:"in_stock"`
	OutOfStock int             `json:"out_of_stock"`
}

func (c *Catalog) Facets() Facets {
	f := Facets{Categories: make([]CategoryCount, 0, len(Categories))}
	for _, cat := range Categories {
		f.Categories = append(f.Categories, CategoryCount{Category: cat, Count: len(c.ByCategory(cat))})
	}

	for i, p := range c.products {
		if i == 0 || p.Price.LessThan(f.PriceRange.Min) {
			f.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price.GreaterThan(f.PriceRange.Max) {
			f.PriceRange.Max = p.Price
		}
		if p.StockQuantity > 0 {
			f.InStock++
		} else {
			f.OutOfStock++
		}
	}
	return f
}

func (c *Catalog) collect(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}
