package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// InventoryChange is an append-only audit record of stock mutations. Rows are
// never updated or deleted.
type InventoryChange struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity  int              `gorm:"column:quantity;not null"`
	Source    enums.SyncSource `gorm:"column:source;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
