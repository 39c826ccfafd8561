// Package catalog implements the product/variant aggregate: listing with
// search, transactional create and update with variant-set reconciliation,
// and cascade-backed deletion.
package catalog

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
	// ErrNotFound product id does not exist
	ErrNotFound = errors.New("product not found")
	// ErrVariantNotFound a submitted variant id is not one of the product's variants
	ErrVariantNotFound = errors.New("variant not found")
	// ErrNameTaken product name uniqueness violation
	ErrNameTaken = errors.New("product name already exists")
)

// productSearchColumns are the columns the list search term matches against.
var productSearchColumns = []string{"name", "brand", "type"}

// VariantInput is one submitted variant. A nil ID marks a new variant; a
// non-nil ID must reference one of the parent's current variants.
type VariantInput struct {
	ID            *int64
	Color         string
	Specification string
	Size          string
}

// CreateProductInput carries a fully specified new product.
type CreateProductInput struct {
	Name     string
	Brand    string
	Type     string
	Origin   string
	Variants []VariantInput
}

// UpdateProductInput carries a partial field update plus the full submitted
// variant set. Nil fields are left unchanged; the variant set is reconciled
// against storage (omitted ids are deleted).
type UpdateProductInput struct {
	Name     *string
	Brand    *string
	Type     *string
	Origin   *string
	Variants []VariantInput
}

// ProductService orchestrates product persistence. All mutations run inside a
// single transaction so a failure leaves storage untouched.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns one page of products with variants preloaded, newest first.
func (s *ProductService) List(ctx context.Context, params listing.Params) (*listing.Page, error) {
	params.Normalize()

	query := s.db.WithContext(ctx).Model(&domain.Product{})
	if params.Search != nil {
		query = listing.ApplySearch(query, *params.Search, productSearchColumns...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count products")
	}

	var products []domain.Product
	if err := query.Preload("Variants").
		Order("id DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}

	return &listing.Page{
		Items:       products,
		Total:       total,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}, nil
}

// Get loads a product with its variants.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Preload("Variants").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &product, nil
}

// NameTaken reports whether another product already uses the given name.
// excludeID skips the product being updated so an unchanged name passes.
func (s *ProductService) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&domain.Product{}).Where("name = ?", strings.TrimSpace(name))
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "count products by name")
	}
	return count > 0, nil
}

// Create inserts the product and all submitted variants in one transaction.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	taken, err := s.NameTaken(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}

	var created domain.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		product := domain.Product{
			Name:      strings.TrimSpace(in.Name),
			Brand:     strings.TrimSpace(in.Brand),
			Type:      in.Type,
			Origin:    strings.TrimSpace(in.Origin),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Omit("Variants").Create(&product).Error; err != nil {
			return errors.Wrap(err, "create product")
		}

		for _, v := range in.Variants {
			variant := domain.Variant{
				ProductId:     product.ID,
				Color:         v.Color,
				Specification: v.Specification,
				Size:          v.Size,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return errors.Wrap(err, "create variant")
			}
		}

		if err := tx.Preload("Variants").First(&created, product.ID).Error; err != nil {
			return errors.Wrap(err, "reload product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies the partial field update and reconciles the variant set in
// one transaction: submitted variants with ids are updated, id-less ones
// inserted, and stored variants omitted from the submission deleted. A
// submitted id that is not one of this product's variants aborts the whole
// transaction with ErrVariantNotFound.
func (s *ProductService) Update(ctx context.Context, id int64, in UpdateProductInput) (*domain.Product, error) {
	if in.Name != nil {
		taken, err := s.NameTaken(ctx, *in.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNameTaken
		}
	}

	var updated domain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "query product")
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Brand != nil {
			updates["brand"] = strings.TrimSpace(*in.Brand)
		}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		if in.Origin != nil {
			updates["origin"] = strings.TrimSpace(*in.Origin)
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return errors.Wrap(err, "update product")
			}
		}

		if err := reconcileVariants(tx, product.ID, in.Variants); err != nil {
			return err
		}

		if err := tx.Preload("Variants").First(&updated, product.ID).Error; err != nil {
			return errors.Wrap(err, "reload product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// reconcileVariants synchronizes the stored variant set with the submission
// inside the caller's transaction.
func reconcileVariants(tx *gorm.DB, productID int64, submitted []VariantInput) error {
	var existingIDs []int64
	if err := tx.Model(&domain.Variant{}).
		Where("product_id = ?", productID).
		Pluck("id", &existingIDs).Error; err != nil {
		return errors.Wrap(err, "pluck variant ids")
	}

	submittedIDs := make([]*int64, len(submitted))
	for i := range submitted {
		submittedIDs[i] = submitted[i].ID
	}

	plan, err := reconcile.Diff(existingIDs, submittedIDs)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownChild) {
			return ErrVariantNotFound
		}
		return err
	}

	if len(plan.Delete) > 0 {
		if err := tx.Where("product_id = ? AND id IN ?", productID, plan.Delete).
			Delete(&domain.Variant{}).Error; err != nil {
			return errors.Wrap(err, "delete removed variants")
		}
	}

	now := time.Now()
	for _, i := range plan.Update {
		v := submitted[i]
		if err := tx.Model(&domain.Variant{}).
			Where("id = ? AND product_id = ?", *v.ID, productID).
			Updates(map[string]interface{}{
				"color":         v.Color,
				"specification": v.Specification,
				"size":          v.Size,
				"updated_at":    now,
			}).Error; err != nil {
			return errors.Wrap(err, "update variant")
		}
	}

	for _, i := range plan.Insert {
		v := submitted[i]
		variant := domain.Variant{
			ProductId:     productID,
			Color:         v.Color,
			Specification: v.Specification,
			Size:          v.Size,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return errors.Wrap(err, "create variant")
		}
	}
	return nil
}

// Delete removes the product; the storage layer cascades variant deletion.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "query product")
	}
	if err := s.db.WithContext(ctx).Delete(&product).Error; err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}
