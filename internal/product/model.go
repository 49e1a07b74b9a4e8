package product

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Price       float64 `json:"precio"`
	ImageURL    *string `json:"imagenUrl"`
}

type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Order       int     `json:"orden"`
	Slug        string  `json:"slug"`
}

// Offering is a product as sold by one restaurant (producto_restaurante).
type Offering struct {
	ID           int64    `json:"id"`
	ProductID    int64    `json:"productoId"`
	RestaurantID int64    `json:"restauranteId"`
	SalePrice    *float64 `json:"precioVenta"`
	Available    bool     `json:"disponible"`
}

// CatalogItem is the shape the POS product grid consumes.
type CatalogItem struct {
	ID         int64   `json:"id"`
	OfferingID int64   `json:"productoRestauranteId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      *string `json:"image"`
	Category   string  `json:"category"`

	// CategoryName is the first visible category, nil when none is visible.
	CategoryName *string `json:"-"`
}
