package catalog

import "github.com/shopspring/decimal"

const placeholderImage = "/placeholder.svg"

// Default returns the compiled-in storefront catalog. Prices are base units;
// display conversion lives in the money package.
func Default() *Catalog {
	c, err := New(defaultProducts()...)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:            "portrait-1",
			Name:          "Custom Oil Portrait",
			Description:   "Hand-painted custom oil portrait created from your favorite photo. Each portrait captures the essence and personality of the subject with exquisite detail and vibrant colors.",
			Price:         decimal.RequireFromString("299.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryPortrait,
			Featured:      true,
			StockQuantity: 5,
			ArtistName:    "Elena Rodríguez",
			Tags:          []string{"oil", "custom", "portrait", "painting"},
		},
		{
			ID:            "portrait-2",
			Name:          "Charcoal Sketch Portrait",
			Description:   "Elegant charcoal sketch portrait that brings depth and emotion to your memories. These timeless black and white portraits make wonderful gifts and keepsakes.",
			Price:         decimal.RequireFromString("149.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryPortrait,
			StockQuantity: 10,
			ArtistName:    "Marcus Chen",
			Tags:          []string{"charcoal", "sketch", "portrait", "black and white"},
		},
		{
			ID:            "portrait-3",
			Name:          "Watercolor Family Portrait",
			Description:   "Beautiful watercolor family portrait with soft, flowing colors that capture the warmth of your family moments. Perfect for displaying in living rooms or giving as meaningful gifts.",
			Price:         decimal.RequireFromString("199.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryPortrait,
			Featured:      true,
			StockQuantity: 3,
			ArtistName:    "Sophie Martin",
			Tags:          []string{"watercolor", "family", "portrait", "colorful"},
		},
		{
			ID:            "portrait-4",
			Name:          "Digital Pet Portrait",
			Description:   "Vibrant digital portrait of your beloved pet rendered with the latest digital painting techniques. Captures your pet's unique personality and charm.",
			Price:         decimal.RequireFromString("89.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryPortrait,
			StockQuantity: 15,
			ArtistName:    "Alex Johnson",
			Tags:          []string{"digital", "pet", "portrait", "modern"},
		},
		{
			ID:            "handicraft-1",
			Name:          "Hand-woven Wool Basket",
			Description:   "Beautifully crafted hand-woven wool basket perfect for storage or as a decorative piece. Each basket features traditional patterns with a modern twist.",
			Price:         decimal.RequireFromString("79.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryHandicraft,
			Featured:      true,
			StockQuantity: 7,
			ArtistName:    "Nadia Patel",
			Tags:          []string{"basket", "wool", "woven", "storage", "decor"},
		},
		{
			ID:            "handicraft-2",
			Name:          "Ceramic Flower Vase",
			Description:   "Handcrafted ceramic vase with a unique glaze that changes appearance depending on lighting. Perfect for displaying fresh or dried flower arrangements.",
			Price:         decimal.RequireFromString("59.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryHandicraft,
			Featured:      true,
			StockQuantity: 12,
			ArtistName:    "Thomas Wright",
			Tags:          []string{"ceramic", "vase", "pottery", "home decor"},
		},
		{
			ID:            "handicraft-3",
			Name:          "Macramé Wall Hanging",
			Description:   "Intricately designed macramé wall hanging made from natural cotton rope. Adds texture and artistic flair to any room in your home.",
			Price:         decimal.RequireFromString("45.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryHandicraft,
			StockQuantity: 8,
			ArtistName:    "Leila Sánchez",
			Tags:          []string{"macrame", "wall hanging", "cotton", "boho", "decor"},
		},
		{
			ID:            "handicraft-4",
			Name:          "Handmade Wooden Jewelry Box",
			Description:   "Elegantly crafted wooden jewelry box with intricate inlay work and multiple compartments for all your treasures. Made from sustainable hardwoods.",
			Price:         decimal.RequireFromString("129.99"),
			ImageURL:      placeholderImage,
			Category:      CategoryHandicraft,
			StockQuantity: 4,
			ArtistName:    "Henry Kim",
			Tags:          []string{"wooden", "jewelry box", "handmade", "storage"},
		},
	}
}
