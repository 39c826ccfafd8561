// Package ordering implements the order/order-detail aggregate: listing with
// search, transactional create and update with detail-set reconciliation, and
// cascade-backed deletion. Details reference catalog variants but never own
// them.
package ordering

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/listing"
	"github.com/talkincode/toughstore/internal/reconcile"
)

var (
	// ErrNotFound order id does not exist
	ErrNotFound = errors.New("order not found")
	// ErrDetailNotFound a submitted detail id is not one of the order's details
	ErrDetailNotFound = errors.New("order detail not found")
	// ErrVariantNotFound a detail references a variant id with no live row
	ErrVariantNotFound = errors.New("referenced variant not found")
)

// orderSearchColumns are the columns the list search term matches against.
var orderSearchColumns = []string{"name", "address", "email"}

// DetailInput is one submitted order line. A nil ID marks a new detail; a
// non-nil ID must reference one of the parent's current details. VariantId
// must reference an existing variant in either case.
type DetailInput struct {
	ID        *int64
	VariantId int64
	Quantity  int
}

// CreateOrderInput carries a fully specified new order.
type CreateOrderInput struct {
	Name          string
	Email         string
	Address       string
	TotalQuantity int
	Details       []DetailInput
}

// UpdateOrderInput carries a partial field update plus the full submitted
// detail set. Nil fields are left unchanged; the detail set is reconciled
// against storage (omitted ids are deleted).
type UpdateOrderInput struct {
	Name          *string
	Email         *string
	Address       *string
	TotalQuantity *int
	Details       []DetailInput
}

// OrderService orchestrates order persistence. All mutations run inside a
// single transaction so a failure leaves storage untouched.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// List returns one page of orders with details and their variants preloaded.
// Orders keep natural primary-key order so pagination is stable.
func (s *OrderService) List(ctx context.Context, params listing.Params) (*listing.Page, error) {
	params.Normalize()

	query := s.db.WithContext(ctx).Model(&domain.Order{})
	if params.Search != nil {
		query = listing.ApplySearch(query, *params.Search, orderSearchColumns...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count orders")
	}

	var orders []domain.Order
	if err := query.Preload("Details").Preload("Details.Variant").
		Order("id ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "query orders")
	}

	return &listing.Page{
		Items:       orders,
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}, nil
}

// Get loads an order with its details and their variants.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).
		Preload("Details").Preload("Details.Variant").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return &order, nil
}

// checkVariantRefs verifies every submitted detail points at a live variant.
// Runs before any transaction opens so no rows are written on failure.
func (s *OrderService) checkVariantRefs(ctx context.Context, details []DetailInput) error {
	ids := make([]int64, 0, len(details))
	seen := make(map[int64]bool, len(details))
	for _, d := range details {
		if !seen[d.VariantId] {
			seen[d.VariantId] = true
			ids = append(ids, d.VariantId)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "count referenced variants")
	}
	if count != int64(len(ids)) {
		return ErrVariantNotFound
	}
	return nil
}

// Create inserts the order and all submitted details in one transaction.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := s.checkVariantRefs(ctx, in.Details); err != nil {
		return nil, err
	}

	var created domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		order := domain.Order{
			Name:          strings.TrimSpace(in.Name),
			Email:         strings.TrimSpace(in.Email),
			Address:       strings.TrimSpace(in.Address),
			TotalQuantity: in.TotalQuantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Omit("Details").Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}

		for _, d := range in.Details {
			detail := domain.OrderDetail{
				OrderId:   order.ID,
				VariantId: d.VariantId,
				Quantity:  d.Quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return errors.Wrap(err, "create order detail")
			}
		}

		if err := tx.Preload("Details").Preload("Details.Variant").
			First(&created, order.ID).Error; err != nil {
			return errors.Wrap(err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies the partial field update and reconciles the detail set in
// one transaction. A submitted detail id that is not one of this order's
// details aborts the whole transaction with ErrDetailNotFound.
func (s *OrderService) Update(ctx context.Context, id int64, in UpdateOrderInput) (*domain.Order, error) {
	if err := s.checkVariantRefs(ctx, in.Details); err != nil {
		return nil, err
	}

	var updated domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "query order")
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			updates["email"] = strings.TrimSpace(*in.Email)
		}
		if in.Address != nil {
			updates["address"] = strings.TrimSpace(*in.Address)
		}
		if in.TotalQuantity != nil {
			updates["total_quantity"] = *in.TotalQuantity
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return errors.Wrap(err, "update order")
			}
		}

		if err := reconcileDetails(tx, order.ID, in.Details); err != nil {
			return err
		}

		if err := tx.Preload("Details").Preload("Details.Variant").
			First(&updated, order.ID).Error; err != nil {
			return errors.Wrap(err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// reconcileDetails synchronizes the stored detail set with the submission
// inside the caller's transaction.
func reconcileDetails(tx *gorm.DB, orderID int64, submitted []DetailInput) error {
	var existingIDs []int64
	if err := tx.Model(&domain.OrderDetail{}).
		Where("order_id = ?", orderID).
		Pluck("id", &existingIDs).Error; err != nil {
		return errors.Wrap(err, "pluck detail ids")
	}

	submittedIDs := make([]*int64, len(submitted))
	for i := range submitted {
		submittedIDs[i] = submitted[i].ID
	}

	plan, err := reconcile.Diff(existingIDs, submittedIDs)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownChild) {
			return ErrDetailNotFound
		}
		return err
	}

	if len(plan.Delete) > 0 {
		if err := tx.Where("order_id = ? AND id IN ?", orderID, plan.Delete).
			Delete(&domain.OrderDetail{}).Error; err != nil {
			return errors.Wrap(err, "delete removed details")
		}
	}

	now := time.Now()
	for _, i := range plan.Update {
		d := submitted[i]
		if err := tx.Model(&domain.OrderDetail{}).
			Where("id = ? AND order_id = ?", *d.ID, orderID).
			Updates(map[string]interface{}{
				"variant_id": d.VariantId,
				"quantity":   d.Quantity,
				"updated_at": now,
			}).Error; err != nil {
			return errors.Wrap(err, "update order detail")
		}
	}

	for _, i := range plan.Insert {
		d := submitted[i]
		detail := domain.OrderDetail{
			OrderId:   orderID,
			VariantId: d.VariantId,
			Quantity:  d.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return errors.Wrap(err, "create order detail")
		}
	}
	return nil
}

// Delete removes the order; the storage layer cascades detail deletion.
// Referenced variants are left untouched.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	var order domain.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "query order")
	}
	if err := s.db.WithContext(ctx).Delete(&order).Error; err != nil {
		return errors.Wrap(err, "delete order")
	}
	return nil
}
