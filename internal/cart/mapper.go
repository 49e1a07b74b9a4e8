package cart

import (
	"strings"

	"restopos-be/internal/product"
)

// mergeLines folds repeated offerings into one line: quantities add up and
// the last unit price wins. Order of first appearance is kept.
func mergeLines(products []ProductInput, offerings map[int64]int64) []ItemUpsert {
	index := make(map[int64]int, len(products))
	lines := make([]ItemUpsert, 0, len(products))

	for _, p := range products {
		offeringID := offerings[p.ProductID]
		if i, ok := index[offeringID]; ok {
			lines[i].Quantity += p.Quantity
			lines[i].UnitPrice = p.UnitPrice
			continue
		}
		index[offeringID] = len(lines)
		lines = append(lines, ItemUpsert{
			OfferingID: offeringID,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
		})
	}

	return lines
}

func missingProducts(products []ProductInput, offerings map[int64]int64) []int64 {
	seen := make(map[int64]bool)
	var missing []int64
	for _, p := range products {
		if _, ok := offerings[p.ProductID]; ok || seen[p.ProductID] {
			continue
		}
		seen[p.ProductID] = true
		missing = append(missing, p.ProductID)
	}
	return missing
}

func toCompleteItems(rows []completeRow) []*CompleteItem {
	items := make([]*CompleteItem, 0, len(rows))
	for _, r := range rows {
		category := product.SlugAll
		if r.CategoryName != nil {
			category = cartCategorySlug(*r.CategoryName)
		}
		items = append(items, &CompleteItem{
			ID:       r.ProductID,
			Name:     r.Name,
			Price:    r.UnitPrice,
			Image:    r.ImageURL,
			Category: category,
			Quantity: r.Quantity,
		})
	}
	return items
}

// cartCategorySlug only knows the three POS tabs; anything else lands in "all".
func cartCategorySlug(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "comida", "food", "platos":
		return product.SlugFood
	case "bebidas", "drinks", "refrescos":
		return product.SlugDrinks
	case "postres", "desserts", "dulces":
		return product.SlugDesserts
	}
	return product.SlugAll
}
