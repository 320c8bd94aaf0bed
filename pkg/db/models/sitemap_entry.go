package models

import "time"

// SitemapEntry backs the generated sitemap; the SEO task rewrites the set
// from the active product catalog.
type SitemapEntry struct {
	Path      string    `gorm:"column:path;primaryKey"`
	Priority  float64   `gorm:"column:priority;not null;default:0.5"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
