package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// ChannelSyncLog records every marketplace API call, success or failure,
// keyed by action and entity so drift can be reconstructed later.
type ChannelSyncLog struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Action       enums.SyncAction  `gorm:"column:action;not null;index"`
	EntityID     *uuid.UUID        `gorm:"column:entity_id;type:uuid;index"`
	ExternalID   *string           `gorm:"column:external_id"`
	Outcome      enums.SyncOutcome `gorm:"column:outcome;not null"`
	HTTPStatus   int               `gorm:"column:http_status;not null;default:0"`
	ErrorMessage *string           `gorm:"column:error_message"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}
