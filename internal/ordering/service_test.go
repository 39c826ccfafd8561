package ordering

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/listing"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbfile := filepath.Join(t.TempDir(), "ordering_test.db")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on", dbfile)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// seedVariants stores a product with n variants and returns the variant ids.
func seedVariants(t *testing.T, db *gorm.DB, n int) []int64 {
	t.Helper()
	product := domain.Product{Name: fmt.Sprintf("Fixture-%d", n), Brand: "Acme", Type: "Mug", Origin: "US"}
	require.NoError(t, db.Create(&product).Error)

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		variant := domain.Variant{ProductId: product.ID, Color: "red", Specification: "12oz", Size: "small"}
		require.NoError(t, db.Create(&variant).Error)
		ids = append(ids, variant.ID)
	}
	return ids
}

func strptr(s string) *string { return &s }

func mustCreateOrder(t *testing.T, svc *OrderService, name string, details ...DetailInput) *domain.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateOrderInput{
		Name: name, Email: "buyer@example.com", Address: "1 Main St", TotalQuantity: 3,
		Details: details,
	})
	require.NoError(t, err)
	return order
}

func TestCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 2)

	created := mustCreateOrder(t, svc, "Jordan",
		DetailInput{VariantId: variants[0], Quantity: 2},
		DetailInput{VariantId: variants[1], Quantity: 1},
	)
	require.NotZero(t, created.ID)
	require.Len(t, created.Details, 2)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", got.Name)
	require.Len(t, got.Details, 2)
	// referenced variant rides along for display
	require.NotNil(t, got.Details[0].Variant)
	assert.Equal(t, variants[0], got.Details[0].Variant.ID)
}

func TestGetNotFound(t *testing.T) {
	svc := NewOrderService(newTestDB(t))
	_, err := svc.Get(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUnknownVariantWritesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 1)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Name: "Jordan", Email: "buyer@example.com", Address: "1 Main St", TotalQuantity: 2,
		Details: []DetailInput{
			{VariantId: variants[0], Quantity: 1},
			{VariantId: 9999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)

	var count int64
	db.Model(&domain.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateReconcilesDetailSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 3)

	order := mustCreateOrder(t, svc, "Jordan",
		DetailInput{VariantId: variants[0], Quantity: 2},
		DetailInput{VariantId: variants[1], Quantity: 1},
	)
	keepID := order.Details[0].ID
	dropID := order.Details[1].ID

	qty := 7
	updated, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{
		TotalQuantity: &qty,
		Details: []DetailInput{
			{ID: &keepID, VariantId: variants[2], Quantity: 5},
			{VariantId: variants[1], Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.TotalQuantity)
	assert.Equal(t, "Jordan", updated.Name)
	require.Len(t, updated.Details, 2)

	byID := map[int64]domain.OrderDetail{}
	for _, d := range updated.Details {
		byID[d.ID] = d
	}
	require.Contains(t, byID, keepID)
	assert.Equal(t, variants[2], byID[keepID].VariantId)
	assert.Equal(t, 5, byID[keepID].Quantity)
	assert.NotContains(t, byID, dropID)
}

func TestUpdateUnknownDetailRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 1)

	order := mustCreateOrder(t, svc, "Jordan",
		DetailInput{VariantId: variants[0], Quantity: 2},
	)
	unknown := int64(8888)

	_, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{
		Name: strptr("Casey"),
		Details: []DetailInput{
			{ID: &unknown, VariantId: variants[0], Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrDetailNotFound)

	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", got.Name)
	require.Len(t, got.Details, 1)
	assert.Equal(t, 2, got.Details[0].Quantity)
}

func TestUpdateForeignDetailRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 1)

	mine := mustCreateOrder(t, svc, "Mine", DetailInput{VariantId: variants[0], Quantity: 1})
	other := mustCreateOrder(t, svc, "Other", DetailInput{VariantId: variants[0], Quantity: 1})
	foreign := other.Details[0].ID

	_, err := svc.Update(context.Background(), mine.ID, UpdateOrderInput{
		Details: []DetailInput{
			{ID: &foreign, VariantId: variants[0], Quantity: 9},
		},
	})
	assert.ErrorIs(t, err, ErrDetailNotFound)
}

func TestUpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 1)

	_, err := svc.Update(context.Background(), 999, UpdateOrderInput{
		Details: []DetailInput{{VariantId: variants[0], Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesDetailsKeepsVariants(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 2)

	order := mustCreateOrder(t, svc, "Jordan",
		DetailInput{VariantId: variants[0], Quantity: 1},
		DetailInput{VariantId: variants[1], Quantity: 1},
	)

	require.NoError(t, svc.Delete(context.Background(), order.ID))

	var details int64
	db.Model(&domain.OrderDetail{}).Where("order_id = ?", order.ID).Count(&details)
	assert.Zero(t, details)

	var survivors int64
	db.Model(&domain.Variant{}).Count(&survivors)
	assert.EqualValues(t, 2, survivors)
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewOrderService(newTestDB(t))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1111), ErrNotFound)
}

func TestListSearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	variants := seedVariants(t, db, 1)

	mustCreateOrder(t, svc, "Alice", DetailInput{VariantId: variants[0], Quantity: 1})
	second, err := svc.Create(context.Background(), CreateOrderInput{
		Name: "Bob", Email: "bob@corp.test", Address: "5 Alice Rd", TotalQuantity: 1,
		Details: []DetailInput{{VariantId: variants[0], Quantity: 1}},
	})
	require.NoError(t, err)

	page, err := svc.List(context.Background(), listing.Params{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	orders := page.Items.([]domain.Order)
	require.Len(t, orders, 2)
	// oldest first
	assert.Equal(t, "Alice", orders[0].Name)
	require.Len(t, orders[0].Details, 1)
	require.NotNil(t, orders[0].Details[0].Variant)

	// matches name or address
	search := "alice"
	page, err = svc.List(context.Background(), listing.Params{Search: &search})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	search = "bob@corp"
	page, err = svc.List(context.Background(), listing.Params{Search: &search, PerPage: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	orders = page.Items.([]domain.Order)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)
}
