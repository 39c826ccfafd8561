package domain

import "time"

// Order customer order aggregate. Details are owned by the order and removed
// with it; the variants they point at are referenced, never owned.
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string        `gorm:"size:200;index" json:"name" form:"name"`
	Email         string        `gorm:"size:200;index" json:"email" form:"email"`
	Address       string        `gorm:"size:500" json:"address" form:"address"`
	TotalQuantity int           `json:"total_quantity" form:"total_quantity"`
	Details       []OrderDetail `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"details"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderDetail a single line of an order pointing at an existing variant
type OrderDetail struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderId   int64     `gorm:"index" json:"order_id"`
	VariantId int64     `gorm:"index" json:"variant_id" form:"variant_id"`
	Quantity  int       `json:"quantity" form:"quantity"`
	Variant   *Variant  `gorm:"foreignKey:VariantId" json:"variant,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (OrderDetail) TableName() string {
	return "order_details"
}
