package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySlug(t *testing.T) {
	tests := map[string]string{
		"Comida":            "food",
		"PLATOS":            "food",
		"entradas":          "food",
		"Food":              "food",
		"Bebidas":           "drinks",
		"refrescos":         "drinks",
		"Drinks":            "drinks",
		"Postres":           "desserts",
		"dulces":            "desserts",
		"Desserts":          "desserts",
		"Platos Especiales": "platos-especiales",
		"Sopas  del   día":  "sopas-del-día",
		"Desayunos":         "desayunos",
	}

	for in, want := range tests {
		assert.Equal(t, want, CategorySlug(in), in)
	}
}
