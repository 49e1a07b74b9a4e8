package product

import (
	"strings"

	"restopos-be/internal/utils"
)

const (
	SlugFood     = "food"
	SlugDrinks   = "drinks"
	SlugDesserts = "desserts"
	SlugAll      = "all"
)

// CategorySlug maps a category name to the slug used by the POS filters.
func CategorySlug(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	switch lower {
	case "comida", "food", "platos", "entradas":
		return SlugFood
	case "bebidas", "drinks", "refrescos":
		return SlugDrinks
	case "postres", "desserts", "dulces":
		return SlugDesserts
	}

	return utils.Slugify(lower)
}

func withSlugs(categories []*Category) []*Category {
	for _, c := range categories {
		c.Slug = CategorySlug(c.Name)
	}
	return categories
}

func toCatalog(items []*CatalogItem) []*CatalogItem {
	for _, it := range items {
		if it.CategoryName != nil {
			it.Category = CategorySlug(*it.CategoryName)
		} else {
			it.Category = SlugFood
		}
	}
	return items
}
