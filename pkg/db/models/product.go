package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical storefront listing. Products referenced by
// historical orders are deactivated, never deleted.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string          `gorm:"column:sku;uniqueIndex;not null"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	Brand         string          `gorm:"column:brand;not null;default:'Midas Technical Solutions'"`
	Category      string          `gorm:"column:category;not null"`
	Condition     string          `gorm:"column:condition;not null;default:'new'"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	WeightGrams   *int            `gorm:"column:weight_grams"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	Images        []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
