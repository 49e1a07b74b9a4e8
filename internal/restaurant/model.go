package restaurant

import "time"

const (
	TableAvailable = "disponible"
	TableOccupied  = "ocupada"

	VisualOccupied  = "OCUPADA"
	VisualAvailable = "DISPONIBLE"
	VisualWithOrder = "CON PEDIDO"
)

type Restaurant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Address   *string   `json:"direccion"`
	Phone     *string   `json:"telefono"`
	CreatedAt time.Time `json:"creadoEn"`
}

type Table struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restauranteId"`
	Number       int    `json:"numeroMesa"`
	Capacity     *int   `json:"capacidad"`
	Status       string `json:"estado"`
}

type Customer struct {
	ID    int64   `json:"id"`
	Name  string  `json:"nombre"`
	Phone *string `json:"telefono"`
	Email *string `json:"correo"`
}

type Delivery struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"clienteId"`
	CustomerName *string   `json:"clienteNombre,omitempty"`
	Address      string    `json:"direccion"`
	City         *string   `json:"ciudad"`
	Reference    *string   `json:"referencia"`
	CreatedAt    time.Time `json:"creadoEn"`
}

type TableView struct {
	*Table
	VisualStatus string `json:"estadoVisual"`
}

type DeliveryView struct {
	*Delivery
	VisualStatus string `json:"estadoVisual"`
}

type Dashboard struct {
	RestaurantID int64           `json:"restauranteId"`
	Tables       []*TableView    `json:"mesas"`
	Deliveries   []*DeliveryView `json:"domicilios"`
}
