package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRollup is the daily aggregate refreshed by the analytics task.
type SalesRollup struct {
	Day        time.Time       `gorm:"column:day;type:date;primaryKey"`
	OrderCount int             `gorm:"column:order_count;not null;default:0"`
	Revenue    decimal.Decimal `gorm:"column:revenue;type:numeric(14,2);not null"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
