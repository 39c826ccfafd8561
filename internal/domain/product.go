package domain

import "time"

// Product catalog entry. Every product owns at least one variant; variants are
// reconciled as a set on update and removed with the product on delete.
type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex" json:"name" form:"name"`
	Brand     string    `gorm:"size:200;index" json:"brand" form:"brand"`
	Type      string    `gorm:"size:32;index" json:"type" form:"type"` // one of ProductTypes
	Origin    string    `gorm:"size:200" json:"origin" form:"origin"`
	Variants  []Variant `gorm:"foreignKey:ProductId;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// Variant a concrete purchasable variation of a product
type Variant struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductId     int64     `gorm:"index" json:"product_id"`
	Color         string    `gorm:"size:64" json:"color" form:"color"`
	Specification string    `gorm:"size:200" json:"specification" form:"specification"`
	Size          string    `gorm:"size:16" json:"size" form:"size"` // one of VariantSizes
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Variant) TableName() string {
	return "variants"
}

// ProductTypes is the closed set of accepted product categories.
var ProductTypes = []string{"Mug", "Jug", "Cup", "Glass", "Plate"}

// VariantSizes is the closed set of accepted variant sizes.
var VariantSizes = []string{"small", "medium", "large"}
