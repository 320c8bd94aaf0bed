package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelMapping associates a local product with its identifier on the
// marketplace. At most one external id per product per channel; the row is
// created on publish and removed on unpublish.
type ChannelMapping struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_channel_mappings_product_channel"`
	Channel             string    `gorm:"column:channel;not null;default:'fourseller';uniqueIndex:idx_channel_mappings_product_channel"`
	FourSellerProductID string    `gorm:"column:fourseller_product_id;not null;index"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}
