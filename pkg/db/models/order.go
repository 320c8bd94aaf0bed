package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the local record of a storefront or marketplace order. Marketplace
// orders carry the external id so the status sync job can match them.
type Order struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketplaceOrderID *string         `gorm:"column:marketplace_order_id;uniqueIndex"`
	Status             string          `gorm:"column:status;not null;default:'pending'"`
	Total              decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
