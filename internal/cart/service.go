package cart

import (
	"context"
	"errors"

	"restopos-be/internal/events"
	"restopos-be/internal/lock"
	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/product"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	tableOccupied  = "ocupada"
	tableAvailable = "disponible"

	pgForeignKeyViolation = "23503"
)

// OfferingMapper resolves products to the restaurant's offerings.
type OfferingMapper interface {
	MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error)
	GetOfferingID(ctx context.Context, productID, restaurantID int64) (int64, error)
}

type TableUpdater interface {
	SetTableStatus(ctx context.Context, tableID int64, status string) error
	TableRestaurantID(ctx context.Context, tableID int64) (int64, error)
}

type Service interface {
	CreateCart(ctx context.Context, target OrderTarget, input CartInput) (*CreateResult, error)
	AddItem(ctx context.Context, params AddItemParams) error
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	RemoveItem(ctx context.Context, params RemoveItemParams) error
	GetActiveCart(ctx context.Context, target OrderTarget) (*Cart, error)
	GetCompleteCart(ctx context.Context, target OrderTarget, restaurantID int64) (*CompleteCart, error)
	ClearCart(ctx context.Context, cartID int64, target OrderTarget, restaurantID int64) error
}

type service struct {
	repo      Repository
	offerings OfferingMapper
	tables    TableUpdater
	locker    lock.Locker
	publisher events.Publisher
	stats     *metrics.CartLifecycle
}

// NewService wires the cart service. A nil locker, publisher or stats
// disables that concern.
func NewService(
	repo Repository,
	offerings OfferingMapper,
	tables TableUpdater,
	locker lock.Locker,
	publisher events.Publisher,
	stats *metrics.CartLifecycle,
) Service {
	if locker == nil {
		locker = lock.Noop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if stats == nil {
		stats = &metrics.CartLifecycle{}
	}
	return &service{
		repo:      repo,
		offerings: offerings,
		tables:    tables,
		locker:    locker,
		publisher: publisher,
		stats:     stats,
	}
}

func isPgError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func validateInput(input CartInput) error {
	if input.RestaurantID <= 0 || len(input.Products) == 0 {
		return ErrInvalidCartInput
	}
	for _, p := range input.Products {
		if p.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if p.ProductID <= 0 || p.UnitPrice < 0 {
			return ErrInvalidCartInput
		}
	}
	return nil
}

// acquire serializes work on one order target. A redis outage is logged and
// the call proceeds unlocked; the unique constraints still hold. A cancelled
// or expired request context is returned as is.
func (s *service) acquire(ctx context.Context, target OrderTarget) (lock.Release, error) {
	release, err := s.locker.Acquire(ctx, target.Key())
	if errors.Is(err, lock.ErrLockHeld) {
		return nil, ErrCartBusy
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("cart lock unavailable, continuing without it",
			zap.String("target", target.Key()),
			zap.Error(err),
		)
		return func(context.Context) error { return nil }, nil
	}
	return release, nil
}

func (s *service) CreateCart(ctx context.Context, target OrderTarget, input CartInput) (*CreateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateCart"),
		zap.String("target", target.Key()),
		zap.Int64("restaurant_id", input.RestaurantID),
	)
	timer := metrics.StartTimer()

	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, target)
	if err != nil {
		log.Warn("cart lock not acquired", zap.Error(err))
		return nil, err
	}
	defer func() {
		if err := release(ctx); err != nil {
			log.Warn("failed to release cart lock", zap.Error(err))
		}
	}()

	if err := s.checkTableRestaurant(ctx, target, input.RestaurantID); err != nil {
		log.Warn("table rejected", zap.Error(err))
		return nil, err
	}

	// 1. Resolve offerings
	productIDs := make([]int64, 0, len(input.Products))
	for _, p := range input.Products {
		productIDs = append(productIDs, p.ProductID)
	}

	offerings, err := s.offerings.MapOfferings(ctx, input.RestaurantID, productIDs)
	if err != nil {
		log.Error("failed to map offerings", zap.Error(err))
		return nil, err
	}
	if missing := missingProducts(input.Products, offerings); len(missing) > 0 {
		log.Warn("products not offered by restaurant", zap.Int64s("product_ids", missing))
		return nil, &ProductsUnavailableError{ProductIDs: missing}
	}

	// 2. Order type
	orderType, orderTypeCreated, err := s.ensureOrderType(ctx, target)
	if err != nil {
		log.Error("failed to ensure order type", zap.Error(err))
		return nil, err
	}

	// 3. Cart
	cart, created, reopened, err := s.ensureCart(ctx, target, input, orderType.ID)
	if err != nil {
		log.Error("failed to ensure cart", zap.Error(err))
		return nil, err
	}

	// 4. Items
	lines := mergeLines(input.Products, offerings)
	if err := s.repo.UpsertItems(ctx, cart.ID, lines); err != nil {
		log.Error("failed to upsert items", zap.Int64("cart_id", cart.ID), zap.Error(err))
		return nil, err
	}
	s.stats.ItemsUpserted.Add(uint64(len(lines)))

	result := &CreateResult{
		CartID:           cart.ID,
		OrderTypeID:      orderType.ID,
		CartCreated:      created,
		CartReopened:     reopened,
		OrderTypeCreated: orderTypeCreated,
	}

	// 5. Table status, only when the cart just became active
	if target.IsTable() && (created || reopened) {
		result.TableOccupied = s.setTableStatus(ctx, target, input.RestaurantID, tableOccupied)
	}

	s.emit(ctx, target, input.RestaurantID, cart.ID, events.CartItemsUpserted, "", lines)

	log.Info("cart ready",
		zap.Int64("cart_id", cart.ID),
		zap.Int64("order_type_id", orderType.ID),
		zap.Bool("cart_created", created),
		zap.Bool("cart_reopened", reopened),
		zap.Bool("table_occupied", result.TableOccupied),
		zap.Int("lines", len(lines)),
		zap.Duration("took", timer.Duration()),
	)
	return result, nil
}

// checkTableRestaurant rejects a table that belongs to another restaurant.
func (s *service) checkTableRestaurant(ctx context.Context, target OrderTarget, restaurantID int64) error {
	if !target.IsTable() || s.tables == nil {
		return nil
	}
	owner, err := s.tables.TableRestaurantID(ctx, target.TableID)
	if err != nil {
		return err
	}
	if owner != restaurantID {
		return ErrRestaurantMismatch
	}
	return nil
}

func (s *service) ensureOrderType(ctx context.Context, target OrderTarget) (*OrderType, bool, error) {
	ot, err := s.repo.GetOrderTypeByTarget(ctx, target)
	if err != nil {
		return nil, false, err
	}
	if ot != nil {
		return ot, false, nil
	}

	ot, err = s.repo.CreateOrderType(ctx, target)
	if err == nil {
		return ot, true, nil
	}
	if !isPgError(err, PgUniqueViolation) {
		return nil, false, err
	}

	// Lost the insert race; the winner's row is there now.
	ot, err = s.repo.GetOrderTypeByTarget(ctx, target)
	if err != nil {
		return nil, false, err
	}
	if ot == nil {
		return nil, false, ErrOrderTypeNotFound
	}
	return ot, false, nil
}

// ensureCart returns the target's cart, creating it or reopening it when
// closed. The booleans report created and reopened.
func (s *service) ensureCart(ctx context.Context, target OrderTarget, input CartInput, orderTypeID int64) (*Cart, bool, bool, error) {
	existing, err := s.repo.GetCartByOrderType(ctx, orderTypeID)
	if err != nil {
		return nil, false, false, err
	}

	if existing == nil {
		created, err := s.repo.CreateCart(ctx, input.RestaurantID, orderTypeID, input.CustomerID)
		if err == nil {
			s.stats.Created.Inc()
			s.emit(ctx, target, input.RestaurantID, created.ID, events.CartCreated, created.Status, nil)
			return created, true, false, nil
		}
		if !isPgError(err, PgUniqueViolation) {
			return nil, false, false, err
		}

		existing, err = s.repo.GetCartByOrderType(ctx, orderTypeID)
		if err != nil {
			return nil, false, false, err
		}
		if existing == nil {
			return nil, false, false, ErrCartNotFound
		}
	}

	if existing.RestaurantID != input.RestaurantID {
		return nil, false, false, ErrRestaurantMismatch
	}

	if IsActive(existing.Status) {
		s.stats.Reused.Inc()
		return existing, false, false, nil
	}

	if err := s.repo.ReopenCart(ctx, existing.ID); err != nil {
		return nil, false, false, err
	}
	existing.Status = StatusPending
	s.stats.Reopened.Inc()
	s.emit(ctx, target, input.RestaurantID, existing.ID, events.CartReopened, StatusPending, nil)
	return existing, false, true, nil
}

// setTableStatus never fails the caller; it reports whether the update went through.
func (s *service) setTableStatus(ctx context.Context, target OrderTarget, restaurantID int64, status string) bool {
	if s.tables == nil {
		return false
	}
	if err := s.tables.SetTableStatus(ctx, target.TableID, status); err != nil {
		s.stats.TableFailures.Inc()
		logger.FromCtx(ctx).Error("failed to update table status",
			zap.Int64("table_id", target.TableID),
			zap.String("status", status),
			zap.Error(err),
		)
		return false
	}
	s.stats.TableUpdates.Inc()
	s.emit(ctx, target, restaurantID, 0, events.TableStatusChanged, status, nil)
	return true
}

func (s *service) emit(ctx context.Context, target OrderTarget, restaurantID, cartID int64, eventType, status string, payload any) {
	key := ""
	if target.Kind != "" {
		key = target.Key()
	}
	e := events.New(eventType, key)
	e.RestaurantID = restaurantID
	e.CartID = cartID
	e.Status = status
	e.Payload = payload
	events.Emit(ctx, s.publisher, e)
}

// cartOwner loads the restaurant and target of a cart. restaurantID 0
// accepts any restaurant.
func (s *service) cartOwner(ctx context.Context, cartID, restaurantID int64) (*CartOwner, error) {
	owner, err := s.repo.GetCartOwner(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrCartNotFound
	}
	if restaurantID > 0 && owner.RestaurantID != restaurantID {
		return nil, ErrRestaurantMismatch
	}
	return owner, nil
}

// AddItem adds one product to an existing cart. RestaurantID 0 means the
// cart's own restaurant.
func (s *service) AddItem(ctx context.Context, params AddItemParams) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Int64("cart_id", params.CartID),
		zap.Int64("product_id", params.ProductID),
	)

	if params.CartID <= 0 {
		return ErrInvalidCartID
	}
	if params.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if params.UnitPrice < 0 || params.ProductID <= 0 || params.RestaurantID < 0 {
		return ErrInvalidCartInput
	}

	owner, err := s.cartOwner(ctx, params.CartID, params.RestaurantID)
	if err != nil {
		return err
	}

	offeringID, err := s.offerings.GetOfferingID(ctx, params.ProductID, owner.RestaurantID)
	if errors.Is(err, product.ErrOfferingNotFound) {
		return &ProductsUnavailableError{ProductIDs: []int64{params.ProductID}}
	}
	if err != nil {
		log.Error("failed to resolve offering", zap.Error(err))
		return err
	}

	line := ItemUpsert{OfferingID: offeringID, Quantity: params.Quantity, UnitPrice: params.UnitPrice}
	if err := s.repo.UpsertItems(ctx, params.CartID, []ItemUpsert{line}); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrCartNotFound
		}
		log.Error("failed to add item", zap.Error(err))
		return err
	}
	s.stats.ItemsUpserted.Inc()

	s.emit(ctx, owner.Target, owner.RestaurantID, params.CartID, events.CartItemsUpserted, "", []ItemUpsert{line})
	log.Info("item added", zap.Int64("offering_id", offeringID), zap.Int("quantity", params.Quantity))
	return nil
}

func (s *service) resolveOffering(ctx context.Context, offeringID, productID, restaurantID int64) (int64, error) {
	if offeringID > 0 {
		return offeringID, nil
	}
	if productID <= 0 || restaurantID <= 0 {
		return 0, ErrInvalidCartInput
	}
	return s.offerings.GetOfferingID(ctx, productID, restaurantID)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateQuantity"),
		zap.Int64("cart_id", params.CartID),
		zap.Int("quantity", params.Quantity),
	)

	if params.CartID <= 0 {
		return ErrInvalidCartID
	}
	if params.OfferingID <= 0 && params.ProductID <= 0 {
		return ErrInvalidCartInput
	}

	owner, err := s.cartOwner(ctx, params.CartID, params.RestaurantID)
	if err != nil {
		return err
	}

	offeringID, err := s.resolveOffering(ctx, params.OfferingID, params.ProductID, owner.RestaurantID)
	if errors.Is(err, product.ErrOfferingNotFound) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return err
	}

	if params.Quantity <= 0 {
		return s.removeItem(ctx, owner, offeringID)
	}

	var price *float64
	if params.UnitPrice != nil && *params.UnitPrice > 0 {
		price = params.UnitPrice
	}

	if err := s.repo.UpdateItemQuantity(ctx, params.CartID, offeringID, params.Quantity, price); err != nil {
		if !errors.Is(err, ErrCartItemNotFound) {
			log.Error("failed to update quantity", zap.Error(err))
		}
		return err
	}

	s.emit(ctx, owner.Target, owner.RestaurantID, params.CartID, events.CartItemUpdated, "",
		map[string]any{"productoRestauranteId": offeringID, "cantidad": params.Quantity})
	return nil
}

// RemoveItem is idempotent: a missing cart, offering or line is not an error.
func (s *service) RemoveItem(ctx context.Context, params RemoveItemParams) error {
	if params.CartID <= 0 {
		return ErrInvalidCartID
	}
	if params.OfferingID <= 0 && params.ProductID <= 0 {
		return ErrInvalidCartInput
	}

	owner, err := s.cartOwner(ctx, params.CartID, params.RestaurantID)
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	offeringID, err := s.resolveOffering(ctx, params.OfferingID, params.ProductID, owner.RestaurantID)
	if errors.Is(err, product.ErrOfferingNotFound) {
		// nothing to remove
		return nil
	}
	if err != nil {
		return err
	}

	return s.removeItem(ctx, owner, offeringID)
}

func (s *service) removeItem(ctx context.Context, owner *CartOwner, offeringID int64) error {
	removed, err := s.repo.DeleteItem(ctx, owner.CartID, offeringID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	s.stats.ItemsRemoved.Add(uint64(removed))
	s.emit(ctx, owner.Target, owner.RestaurantID, owner.CartID, events.CartItemRemoved, "",
		map[string]any{"productoRestauranteId": offeringID})
	return nil
}

func (s *service) GetActiveCart(ctx context.Context, target OrderTarget) (*Cart, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	ot, err := s.repo.GetOrderTypeByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	if ot == nil {
		return nil, ErrOrderTypeNotFound
	}

	c, err := s.repo.GetActiveCartByOrderType(ctx, ot.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	items, err := s.repo.GetItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items

	return c, nil
}

// GetCompleteCart never reports a missing cart as an error: it returns an
// empty cart with a nil CartID. restaurantID 0 means the cart's own
// restaurant; any other restaurant is rejected.
func (s *service) GetCompleteCart(ctx context.Context, target OrderTarget, restaurantID int64) (*CompleteCart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCompleteCart"),
		zap.String("target", target.Key()),
	)

	c, err := s.GetActiveCart(ctx, target)
	if errors.Is(err, ErrOrderTypeNotFound) || errors.Is(err, ErrCartNotFound) {
		log.Debug("no active cart")
		return &CompleteCart{Products: []*CompleteItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	if restaurantID > 0 && restaurantID != c.RestaurantID {
		log.Warn("cart requested for another restaurant",
			zap.Int64("restaurant_id", restaurantID),
			zap.Int64("cart_restaurant_id", c.RestaurantID),
		)
		return nil, ErrRestaurantMismatch
	}

	rows, err := s.repo.GetCompleteItems(ctx, c.ID, c.RestaurantID)
	if err != nil {
		log.Error("failed to load complete items", zap.Error(err))
		return nil, err
	}

	cartID := c.ID
	return &CompleteCart{CartID: &cartID, Products: toCompleteItems(rows)}, nil
}

// ClearCart deletes every line of the cart and frees the table. The cart row
// is kept so the next order reuses it. The cart must belong to target and,
// unless restaurantID is 0, to that restaurant.
func (s *service) ClearCart(ctx context.Context, cartID int64, target OrderTarget, restaurantID int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ClearCart"),
		zap.Int64("cart_id", cartID),
		zap.String("target", target.Key()),
	)

	if cartID <= 0 {
		return ErrInvalidCartID
	}
	if err := target.Validate(); err != nil {
		return err
	}

	owner, err := s.cartOwner(ctx, cartID, restaurantID)
	if err != nil {
		return err
	}
	if owner.Target != target {
		log.Warn("cart belongs to another target", zap.String("owner", owner.Target.Key()))
		return ErrInvalidOrderTarget
	}

	release, err := s.acquire(ctx, target)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(ctx); err != nil {
			log.Warn("failed to release cart lock", zap.Error(err))
		}
	}()

	removed, err := s.repo.ClearItems(ctx, cartID)
	if err != nil {
		return err
	}
	s.stats.Cleared.Inc()
	s.stats.ItemsRemoved.Add(uint64(removed))
	s.emit(ctx, target, owner.RestaurantID, cartID, events.CartCleared, "", nil)

	if target.IsTable() {
		s.setTableStatus(ctx, target, owner.RestaurantID, tableAvailable)
	}

	log.Info("cart cleared", zap.Int64("removed", removed))
	return nil
}
