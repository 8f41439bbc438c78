package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flooring-orders/internal/models"
	"flooring-orders/internal/store"
	"flooring-orders/internal/util"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	util.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

var (
	today    = time.Date(2026, time.October, 17, 15, 4, 5, 0, time.Local)
	tomorrow = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
)

type recordingAudit struct {
	events []models.AuditEvent
}

func (a *recordingAudit) WriteEntry(event models.AuditEvent) error {
	a.events = append(a.events, event)
	return nil
}

type testEnv struct {
	svc    *OrderService
	orders *store.OrderStore
	audit  *recordingAudit
	root   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	writeTestFile(t, filepath.Join(root, "Data", "Products.txt"),
		store.ProductHeader+"\nCarpet,2.25,2.10\nLaminate,1.75,2.10\nTile,3.50,4.15\nWood,5.15,4.75\n")
	writeTestFile(t, filepath.Join(root, "Data", "Taxes.txt"),
		store.TaxHeader+"\nTX,Texas,4.45\nWA,Washington,9.25\nKY,Kentucky,6.00\n")

	orders, err := store.NewOrderStore(
		filepath.Join(root, "Orders"),
		filepath.Join(root, "Backup", "DataExport.txt"),
		filepath.Join(root, "Data", "OrderNumber.seq"),
	)
	require.NoError(t, err)

	catalog := store.NewCatalogStore(filepath.Join(root, "Data", "Products.txt"), filepath.Join(root, "Data", "Taxes.txt"))
	audit := &recordingAudit{}

	svc := NewOrderService(orders, catalog, audit)
	svc.SetClock(func() time.Time { return today })

	return &testEnv{svc: svc, orders: orders, audit: audit, root: root}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func shrek() models.PartialOrder {
	return models.NewPartialOrder("Shrek", "TX", "Tile", decimal.RequireFromString("100.00"))
}

func TestCreateOrder_DoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, shrek())
	require.NoError(t, err)
	assert.Equal(t, 0, order.OrderNumber)
	assert.Equal(t, "799.04", order.Total.StringFixed(2))

	_, ok, err := env.orders.GetAllOrders(tomorrow)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, env.audit.events)
}

func TestAddOrder_FutureDateRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddOrder(ctx, today, shrek())
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = env.svc.AddOrder(ctx, today.AddDate(0, 0, -3), shrek())
	assert.ErrorIs(t, err, ErrInvalidDate)

	order, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)
	assert.Equal(t, 1, order.OrderNumber)
	assert.Equal(t, "34.04", order.Tax.StringFixed(2))

	require.Len(t, env.audit.events, 1)
	event := env.audit.events[0]
	assert.Equal(t, models.EventTypeOrderAdded, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, today, event.Timestamp)
	assert.Equal(t, 1, event.Order.OrderNumber)
}

func TestAddOrder_DateCheckedBeforeValidation(t *testing.T) {
	env := newTestEnv(t)

	partial := shrek()
	partial.State = "ZZ"
	_, err := env.svc.AddOrder(context.Background(), today, partial)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = env.svc.AddOrder(context.Background(), tomorrow, partial)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestAddOrder_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bad := shrek()
	bad.CustomerName = "Ca$h M0ney"
	_, err := env.svc.AddOrder(ctx, tomorrow, bad)
	assert.ErrorIs(t, err, ErrInvalidCustomerName)

	good := shrek()
	good.CustomerName = "Joe Ma."
	_, err = env.svc.AddOrder(ctx, tomorrow, good)
	assert.NoError(t, err)

	small := shrek()
	small.Area = decimal.NewNullDecimal(decimal.RequireFromString("99.99"))
	_, err = env.svc.AddOrder(ctx, tomorrow, small)
	assert.ErrorIs(t, err, ErrInvalidArea)
}

func TestAddOrder_RejectionCounted(t *testing.T) {
	env := newTestEnv(t)
	before := testutil.ToFloat64(util.OrdersRejectedTotal.WithLabelValues(KindInvalidDate.String()))

	_, err := env.svc.AddOrder(context.Background(), today, shrek())
	require.Error(t, err)

	after := testutil.ToFloat64(util.OrdersRejectedTotal.WithLabelValues(KindInvalidDate.String()))
	assert.Equal(t, before+1, after)
}

func TestGetOrder_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetOrder(ctx, tomorrow, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)

	added, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	_, err = env.svc.GetOrder(ctx, tomorrow, added.OrderNumber+10)
	assert.ErrorIs(t, err, ErrInvalidOrderNumber)

	got, err := env.svc.GetOrder(ctx, tomorrow, added.OrderNumber)
	require.NoError(t, err)
	assert.True(t, added.Equal(got))
}

func TestGetAllOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetAllOrders(ctx, tomorrow)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)
	_, err = env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	orders, err := env.svc.GetAllOrders(ctx, tomorrow)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Contains(t, orders, 1)
	assert.Contains(t, orders, 2)
}

func TestEditOrder_MergesAndReprices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	added, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	previous, err := env.svc.EditOrder(ctx, tomorrow, added.OrderNumber, models.PartialOrder{
		State: "WA",
		Area:  decimal.NewNullDecimal(decimal.RequireFromString("200")),
	})
	require.NoError(t, err)
	assert.True(t, added.Equal(previous))

	edited, err := env.svc.GetOrder(ctx, tomorrow, added.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "Shrek", edited.CustomerName)
	assert.Equal(t, "WA", edited.State)
	assert.Equal(t, "Tile", edited.ProductType)
	assert.Equal(t, "9.25", edited.TaxRate.StringFixed(2))
	assert.Equal(t, "700.00", edited.MaterialCost.StringFixed(2))
	assert.Equal(t, "830.00", edited.LaborCost.StringFixed(2))
	// 9.25% of 1530.00 = 141.525
	assert.Equal(t, "141.53", edited.Tax.StringFixed(2))
	assert.Equal(t, "1671.53", edited.Total.StringFixed(2))

	require.Len(t, env.audit.events, 2)
	assert.Equal(t, models.EventTypeOrderEdited, env.audit.events[1].EventType)
}

func TestEditOrder_BlankPartialKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	added, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	_, err = env.svc.EditOrder(ctx, tomorrow, added.OrderNumber, models.PartialOrder{})
	require.NoError(t, err)

	got, err := env.svc.GetOrder(ctx, tomorrow, added.OrderNumber)
	require.NoError(t, err)
	assert.True(t, added.Equal(got))
}

func TestEditOrder_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.EditOrder(ctx, tomorrow, 1, models.PartialOrder{State: "WA"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	added, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	_, err = env.svc.EditOrder(ctx, tomorrow, 99, models.PartialOrder{State: "WA"})
	assert.ErrorIs(t, err, ErrInvalidOrderNumber)

	_, err = env.svc.EditOrder(ctx, tomorrow, added.OrderNumber, models.PartialOrder{ProductType: "Marble"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	// A rejected edit leaves the stored order untouched.
	got, err := env.svc.GetOrder(ctx, tomorrow, added.OrderNumber)
	require.NoError(t, err)
	assert.True(t, added.Equal(got))
}

func TestEditOrder_PastDateAllowed(t *testing.T) {
	env := newTestEnv(t)
	past := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	writeTestFile(t, filepath.Join(env.root, "Orders", store.OrderFileName(past)),
		store.OrderHeader+"\n5,Joe Ma,KY,6.00,Tile,100.00,3.50,4.15,350.00,415.00,45.90,810.90\n")

	_, err := env.svc.EditOrder(context.Background(), past, 5, models.PartialOrder{CustomerName: "Joe Mama"})
	require.NoError(t, err)
}

func TestRemoveOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.RemoveOrder(ctx, tomorrow, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)

	added, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	_, err = env.svc.RemoveOrder(ctx, tomorrow, 7)
	assert.ErrorIs(t, err, ErrInvalidOrderNumber)

	removed, err := env.svc.RemoveOrder(ctx, tomorrow, added.OrderNumber)
	require.NoError(t, err)
	assert.True(t, added.Equal(removed))

	_, err = env.svc.GetAllOrders(ctx, tomorrow)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.NoFileExists(t, filepath.Join(env.root, "Orders", store.OrderFileName(tomorrow)))

	next, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)
	assert.Equal(t, added.OrderNumber+1, next.OrderNumber)

	require.Len(t, env.audit.events, 3)
	assert.Equal(t, models.EventTypeOrderRemoved, env.audit.events[1].EventType)
}

func TestExportData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddOrder(ctx, tomorrow, shrek())
	require.NoError(t, err)

	require.NoError(t, env.svc.ExportData(ctx))

	data, err := os.ReadFile(filepath.Join(env.root, "Backup", "DataExport.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, store.ExportHeader, lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",10-18-2026"), lines[1])

	require.Len(t, env.audit.events, 2)
	assert.Equal(t, models.EventTypeDataExported, env.audit.events[1].EventType)
	assert.Nil(t, env.audit.events[1].Order)
}

func TestAuditFailureIsPersistenceError(t *testing.T) {
	env := newTestEnv(t)
	env.svc.audit = store.NewAuditLog(t.TempDir())

	order, err := env.svc.AddOrder(context.Background(), tomorrow, shrek())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.True(t, store.IsAuditFailure(err))
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, 1, order.OrderNumber)
}

func TestCatalogFailureIsPersistenceError(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.Remove(filepath.Join(env.root, "Data", "Taxes.txt")))

	_, err := env.svc.CreateOrder(context.Background(), shrek())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.False(t, IsRecoverable(err))

	_, err = env.svc.GetAllStates(context.Background())
	assert.ErrorIs(t, err, store.ErrPersistence)
}
