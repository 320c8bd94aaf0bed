package models

import (
	"time"

	"github.com/google/uuid"
)

// BackupMarker records that a backup run completed. The dump itself is taken
// out of band; the marker gives operators a queryable trail.
type BackupMarker struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Label     string    `gorm:"column:label;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
