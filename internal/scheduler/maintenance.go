package scheduler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/midastechnical/storefront-sync/pkg/db/models"
)

// MaintenanceRepository backs the housekeeping task handlers.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// CreateBackupMarker records that a backup run completed.
func (r *MaintenanceRepository) CreateBackupMarker(ctx context.Context, label string) error {
	return r.db.WithContext(ctx).Create(&models.BackupMarker{Label: label}).Error
}

// FlagOversizedImages marks images above the size threshold as candidates for
// optimization and returns how many were flagged.
func (r *MaintenanceRepository) FlagOversizedImages(ctx context.Context, thresholdBytes int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("size_bytes > ? AND optimized = ?", thresholdBytes, true).
		Update("optimized", false)
	return result.RowsAffected, result.Error
}

// ReactivateInStock re-enables products that regained stock.
func (r *MaintenanceRepository) ReactivateInStock(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock_quantity > 0", false).
		Update("is_active", true)
	return result.RowsAffected, result.Error
}

// DeactivateOutOfStock hides products with no stock left.
func (r *MaintenanceRepository) DeactivateOutOfStock(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock_quantity = 0", true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

type rollupRow struct {
	Day        time.Time
	OrderCount int
	Revenue    decimal.Decimal
}

// RefreshSalesRollups recomputes the daily order aggregates since the cutoff
// and upserts them into the rollup table.
func (r *MaintenanceRepository) RefreshSalesRollups(ctx context.Context, since time.Time) (int, error) {
	var rows []rollupRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS revenue").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		rollup := models.SalesRollup{
			Day:        row.Day,
			OrderCount: row.OrderCount,
			Revenue:    row.Revenue,
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "day"}},
				DoUpdates: clause.AssignmentColumns([]string{"order_count", "revenue"}),
			}).
			Create(&rollup).Error
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// RewriteSitemap replaces the sitemap entries with the active catalog.
func (r *MaintenanceRepository) RewriteSitemap(ctx context.Context) (int, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "sku").
		Where("is_active = ?", true).
		Find(&products).Error
	if err != nil {
		return 0, err
	}

	entries := make([]models.SitemapEntry, 0, len(products)+1)
	entries = append(entries, models.SitemapEntry{Path: "/", Priority: 1.0})
	for _, product := range products {
		entries = append(entries, models.SitemapEntry{
			Path:     "/products/" + product.ID.String(),
			Priority: 0.8,
		})
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SitemapEntry{}).Error; err != nil {
			return err
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
