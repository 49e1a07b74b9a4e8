package cart

import (
	"fmt"
	"time"
)

const (
	StatusPending   = "pendiente"
	StatusPreparing = "en preparación"
)

// ActiveStatuses are the cart states that still accept items. Any other
// status is treated as closed.
func ActiveStatuses() []string {
	return []string{StatusPending, StatusPreparing}
}

func IsActive(status string) bool {
	return status == StatusPending || status == StatusPreparing
}

type TargetKind string

const (
	TargetTable    TargetKind = "mesa"
	TargetDelivery TargetKind = "domicilio"
)

// OrderTarget is the table or delivery address a cart belongs to.
type OrderTarget struct {
	Kind       TargetKind `json:"tipo"`
	TableID    int64      `json:"mesaId,omitempty"`
	DeliveryID int64      `json:"domicilioId,omitempty"`
}

func TableTarget(id int64) OrderTarget {
	return OrderTarget{Kind: TargetTable, TableID: id}
}

func DeliveryTarget(id int64) OrderTarget {
	return OrderTarget{Kind: TargetDelivery, DeliveryID: id}
}

func (t OrderTarget) Validate() error {
	switch t.Kind {
	case TargetTable:
		if t.TableID <= 0 || t.DeliveryID != 0 {
			return ErrInvalidOrderTarget
		}
	case TargetDelivery:
		if t.DeliveryID <= 0 || t.TableID != 0 {
			return ErrInvalidOrderTarget
		}
	default:
		return ErrInvalidOrderTarget
	}
	return nil
}

func (t OrderTarget) IsTable() bool { return t.Kind == TargetTable }

func (t OrderTarget) ID() int64 {
	if t.IsTable() {
		return t.TableID
	}
	return t.DeliveryID
}

// Key identifies the target in locks and event keys, e.g. "mesa:3".
func (t OrderTarget) Key() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID())
}

// OrderType is the tipo_pedido row. Exactly one of TableID and DeliveryID is set.
type OrderType struct {
	ID         int64
	TableID    *int64
	DeliveryID *int64
}

// Target rebuilds the table or delivery the row points at.
func (ot OrderType) Target() OrderTarget {
	if ot.TableID != nil {
		return TableTarget(*ot.TableID)
	}
	if ot.DeliveryID != nil {
		return DeliveryTarget(*ot.DeliveryID)
	}
	return OrderTarget{}
}

// CartOwner is the restaurant and order target a cart id belongs to.
type CartOwner struct {
	CartID       int64
	RestaurantID int64
	Target       OrderTarget
}

type Cart struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restauranteId"`
	OrderTypeID  int64     `json:"tipoPedidoId"`
	CustomerID   *int64    `json:"clienteId"`
	Status       string    `json:"estado"`
	CreatedAt    time.Time `json:"creadoEn"`
	UpdatedAt    time.Time `json:"actualizadoEn"`
	Items        []*Item   `json:"productos"`
}

// Item is a carrito_producto row.
type Item struct {
	ID         int64   `json:"id"`
	CartID     int64   `json:"carritoId"`
	OfferingID int64   `json:"productoRestauranteId"`
	Quantity   int     `json:"cantidad"`
	UnitPrice  float64 `json:"precioUnitario"`
	Subtotal   float64 `json:"subtotal"`
}

type ProductInput struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
}

type CartInput struct {
	RestaurantID int64
	CustomerID   *int64
	Products     []ProductInput
}

// ItemUpsert is one line merged into a cart by offering id.
type ItemUpsert struct {
	OfferingID int64
	Quantity   int
	UnitPrice  float64
}

type CreateResult struct {
	CartID           int64
	OrderTypeID      int64
	CartCreated      bool
	CartReopened     bool
	OrderTypeCreated bool
	TableOccupied    bool
}

type AddItemParams struct {
	CartID       int64
	RestaurantID int64
	ProductID    int64
	Quantity     int
	UnitPrice    float64
}

// UpdateQuantityParams addresses the line either by OfferingID or by
// ProductID + RestaurantID.
type UpdateQuantityParams struct {
	CartID       int64
	OfferingID   int64
	ProductID    int64
	RestaurantID int64
	Quantity     int
	UnitPrice    *float64
}

type RemoveItemParams struct {
	CartID       int64
	OfferingID   int64
	ProductID    int64
	RestaurantID int64
}

// CompleteItem is a line item joined with its product for the POS.
type CompleteItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    *string `json:"image"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
}

type CompleteCart struct {
	CartID   *int64          `json:"carritoId"`
	Products []*CompleteItem `json:"productos"`
}

// completeRow is a line item as read by GetCompleteItems.
type completeRow struct {
	ProductID    int64
	Name         string
	UnitPrice    float64
	ImageURL     *string
	CategoryName *string
	Quantity     int
}
