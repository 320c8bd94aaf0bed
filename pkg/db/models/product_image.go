package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores listing imagery metadata used by the channel payload
// builder and the image optimization job.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	Alt       *string   `gorm:"column:alt"`
	SizeBytes int64     `gorm:"column:size_bytes;not null;default:0"`
	Optimized bool      `gorm:"column:optimized;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
