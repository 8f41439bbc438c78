package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flooring-orders/internal/models"
	"flooring-orders/internal/store"
	"flooring-orders/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OrderRepository persists orders grouped by order date
type OrderRepository interface {
	AddOrder(date time.Time, order models.Order) (models.Order, error)
	GetAllOrders(date time.Time) (map[int]models.Order, bool, error)
	EditOrder(date time.Time, orderNumber int, newOrder models.Order) (models.Order, error)
	RemoveOrder(date time.Time, orderNumber int) (models.Order, error)
	ExportAllData() error
}

// CatalogReader provides the product and tax reference data
type CatalogReader interface {
	GetAllProducts() (map[string]models.Product, error)
	GetAllStates() (map[string]models.State, error)
}

// AuditWriter records completed mutations
type AuditWriter interface {
	WriteEntry(event models.AuditEvent) error
}

// OrderService implements the order workflows over the stores
type OrderService struct {
	orders  OrderRepository
	catalog CatalogReader
	audit   AuditWriter
	now     func() time.Time
	logger  *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders OrderRepository,
	catalog CatalogReader,
	audit AuditWriter,
) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		audit:   audit,
		now:     time.Now,
		logger:  util.GetLogger(),
	}
}

// SetClock replaces the clock used for the future-date rule and audit timestamps
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// GetAllProducts returns the product catalog, keyed by product type
func (s *OrderService) GetAllProducts(ctx context.Context) (map[string]models.Product, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetAllProducts")
	defer span.End()

	products, err := s.catalog.GetAllProducts()
	if err != nil {
		return nil, s.fail(span, "get_products", err)
	}
	return products, nil
}

// GetAllStates returns the tax catalog, keyed by state abbreviation
func (s *OrderService) GetAllStates(ctx context.Context) (map[string]models.State, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetAllStates")
	defer span.End()

	states, err := s.catalog.GetAllStates()
	if err != nil {
		return nil, s.fail(span, "get_states", err)
	}
	return states, nil
}

// CreateOrder validates and prices an order without persisting it, for
// previews before confirmation.
func (s *OrderService) CreateOrder(ctx context.Context, partial models.PartialOrder) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	order, err := s.price(ctx, partial.ToOrder())
	if err != nil {
		return models.Order{}, s.fail(span, "create", err)
	}
	return order, nil
}

// AddOrder validates, prices and persists an order for a future date.
// If only the audit entry fails, the persisted order is returned together
// with the error.
func (s *OrderService) AddOrder(ctx context.Context, date time.Time, partial models.PartialOrder) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddOrder")
	defer span.End()
	defer observe("add", time.Now())

	date = models.DateOnly(date)
	span.SetAttributes(attribute.String("order.date", isoDate(date)))

	if !date.After(models.DateOnly(s.now())) {
		return models.Order{}, s.fail(span, "add", newError(KindInvalidDate, "order date %s is not in the future", isoDate(date)))
	}

	order, err := s.price(ctx, partial.ToOrder())
	if err != nil {
		return models.Order{}, s.fail(span, "add", err)
	}

	order, err = s.orders.AddOrder(date, order)
	if err != nil {
		return models.Order{}, s.fail(span, "add", fmt.Errorf("failed to add order: %w", err))
	}

	util.OrdersAddedTotal.Inc()
	span.SetAttributes(attribute.Int("order.number", order.OrderNumber))
	s.logger.Info("Order added",
		zap.Int("order_number", order.OrderNumber),
		zap.String("order_date", isoDate(date)))

	if err := s.writeAudit(models.EventTypeOrderAdded, date, order); err != nil {
		return order, s.fail(span, "audit", err)
	}
	return order, nil
}

// GetOrder returns a single order. It fails with ErrInvalidDate when the date
// has no orders, and ErrInvalidOrderNumber when the date has orders but not
// this one.
func (s *OrderService) GetOrder(ctx context.Context, date time.Time, orderNumber int) (models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	order, err := s.getOrder(date, orderNumber)
	if err != nil {
		return models.Order{}, s.fail(span, "get", err)
	}
	return order, nil
}

// GetAllOrders returns every order for date keyed by order number. It fails
// with ErrInvalidDate when the date has no orders.
func (s *OrderService) GetAllOrders(ctx context.Context, date time.Time) (map[int]models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.GetAllOrders")
	defer span.End()

	orders, ok, err := s.orders.GetAllOrders(date)
	if err != nil {
		return nil, s.fail(span, "list", fmt.Errorf("failed to get orders: %w", err))
	}
	if !ok || len(orders) == 0 {
		return nil, s.fail(span, "list", noOrdersErr(date))
	}
	return orders, nil
}

// EditOrder overlays the supplied fields of partial onto an existing order,
// re-prices it and saves it in place. It returns the order as it was before
// the edit.
func (s *OrderService) EditOrder(ctx context.Context, date time.Time, orderNumber int, partial models.PartialOrder) (models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.EditOrder")
	defer span.End()
	defer observe("edit", time.Now())

	date = models.DateOnly(date)
	existing, err := s.getOrder(date, orderNumber)
	if err != nil {
		return models.Order{}, s.fail(span, "edit", err)
	}

	edited, err := s.price(ctx, MergeOrder(existing, partial))
	if err != nil {
		return models.Order{}, s.fail(span, "edit", err)
	}
	edited.OrderNumber = orderNumber

	previous, err := s.orders.EditOrder(date, orderNumber, edited)
	if err != nil {
		return models.Order{}, s.fail(span, "edit", s.mapStoreErr(date, orderNumber, err, "failed to edit order"))
	}

	util.OrdersEditedTotal.Inc()
	s.logger.Info("Order edited",
		zap.Int("order_number", orderNumber),
		zap.String("order_date", isoDate(date)))

	if err := s.writeAudit(models.EventTypeOrderEdited, date, edited); err != nil {
		return previous, s.fail(span, "audit", err)
	}
	return previous, nil
}

// RemoveOrder deletes an existing order and returns it
func (s *OrderService) RemoveOrder(ctx context.Context, date time.Time, orderNumber int) (models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.RemoveOrder")
	defer span.End()
	defer observe("remove", time.Now())

	date = models.DateOnly(date)
	if _, err := s.getOrder(date, orderNumber); err != nil {
		return models.Order{}, s.fail(span, "remove", err)
	}

	removed, err := s.orders.RemoveOrder(date, orderNumber)
	if err != nil {
		return models.Order{}, s.fail(span, "remove", s.mapStoreErr(date, orderNumber, err, "failed to remove order"))
	}

	util.OrdersRemovedTotal.Inc()
	s.logger.Info("Order removed",
		zap.Int("order_number", orderNumber),
		zap.String("order_date", isoDate(date)))

	if err := s.writeAudit(models.EventTypeOrderRemoved, date, removed); err != nil {
		return removed, s.fail(span, "audit", err)
	}
	return removed, nil
}

// ExportData writes every order to the export file
func (s *OrderService) ExportData(ctx context.Context) error {
	_, span := util.StartSpan(ctx, "OrderService.ExportData")
	defer span.End()
	defer observe("export", time.Now())

	if err := s.orders.ExportAllData(); err != nil {
		return s.fail(span, "export", fmt.Errorf("failed to export orders: %w", err))
	}

	util.ExportsTotal.Inc()
	s.logger.Info("Orders exported")

	event := models.AuditEvent{
		EventID:   uuid.New().String(),
		EventType: models.EventTypeDataExported,
		Timestamp: s.now(),
	}
	if err := s.audit.WriteEntry(event); err != nil {
		return s.fail(span, "audit", fmt.Errorf("failed to write audit entry: %w", err))
	}
	return nil
}

// price loads the catalog and runs validation and pricing
func (s *OrderService) price(ctx context.Context, order models.Order) (models.Order, error) {
	_, span := util.StartSpan(ctx, "OrderService.price")
	defer span.End()

	products, err := s.catalog.GetAllProducts()
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to load products: %w", err)
	}
	states, err := s.catalog.GetAllStates()
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to load states: %w", err)
	}
	return PriceOrder(order, Catalog{Products: products, States: states})
}

func (s *OrderService) getOrder(date time.Time, orderNumber int) (models.Order, error) {
	orders, ok, err := s.orders.GetAllOrders(date)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get orders: %w", err)
	}
	if !ok {
		return models.Order{}, noOrdersErr(date)
	}
	order, ok := orders[orderNumber]
	if !ok {
		return models.Order{}, newError(KindInvalidOrderNumber, "order number %d does not exist on %s", orderNumber, isoDate(date))
	}
	return order, nil
}

// mapStoreErr turns the store's not-found sentinels into order errors; the
// order can vanish between the lookup and the write if files change on disk.
func (s *OrderService) mapStoreErr(date time.Time, orderNumber int, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNoOrders):
		return noOrdersErr(date)
	case errors.Is(err, store.ErrOrderNotFound):
		return newError(KindInvalidOrderNumber, "order number %d does not exist on %s", orderNumber, isoDate(date))
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func (s *OrderService) writeAudit(eventType string, date time.Time, order models.Order) error {
	event := models.AuditEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: s.now(),
		OrderDate: date,
		Order:     &order,
	}
	if err := s.audit.WriteEntry(event); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// fail records err on the span, counts it and logs it at a level matching
// its category. It returns err unchanged.
func (s *OrderService) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if kind := KindOf(err); kind != 0 {
		util.OrdersRejectedTotal.WithLabelValues(kind.String()).Inc()
		s.logger.Debug("Order operation rejected",
			zap.String("op", op),
			zap.String("reason", kind.String()),
			zap.Error(err))
		return err
	}

	util.PersistenceFailuresTotal.WithLabelValues(op).Inc()
	s.logger.Error("Order operation failed", zap.String("op", op), zap.Error(err))
	return err
}

func observe(op string, start time.Time) {
	util.OrderOperationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func noOrdersErr(date time.Time) error {
	return newError(KindInvalidDate, "no orders exist for %s", isoDate(date))
}

func isoDate(date time.Time) string {
	return date.Format("2006-01-02")
}
