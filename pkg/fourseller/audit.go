package fourseller

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// AuditLogger persists one row per logical marketplace call.
type AuditLogger interface {
	Record(ctx context.Context, entry models.ChannelSyncLog) error
}

type auditEntry struct {
	entityID   *uuid.UUID
	externalID string
}

func (c *Client) recordAudit(ctx context.Context, action enums.SyncAction, entry auditEntry, status int, callErr error) {
	if c.audit == nil {
		return
	}

	row := models.ChannelSyncLog{
		Action:     action,
		EntityID:   entry.entityID,
		Outcome:    enums.SyncOutcomeSuccess,
		HTTPStatus: status,
	}
	if entry.externalID != "" {
		external := entry.externalID
		row.ExternalID = &external
	}
	if callErr != nil {
		row.Outcome = enums.SyncOutcomeFailed
		msg := callErr.Error()
		row.ErrorMessage = &msg
	}

	// An audit failure must never mask the API result.
	if err := c.audit.Record(ctx, row); err != nil {
		c.logger.Error(ctx, "failed to record channel sync log", err)
	}
}

// GormAuditLog writes channel sync logs through GORM.
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog builds the default audit logger.
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Record appends the entry.
func (g *GormAuditLog) Record(ctx context.Context, entry models.ChannelSyncLog) error {
	return g.db.WithContext(ctx).Create(&entry).Error
}
