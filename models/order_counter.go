package models

import "time"

// OrderCounter stores the last issued sequence value for one calendar day.
// Rows are created lazily on the first issuance of a day and never deleted;
// count only increases, and it is mutated exclusively by the repository's
// atomic increment statement.
type OrderCounter struct {
	DayKey    string    `gorm:"primaryKey;size:16" json:"day_key"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (OrderCounter) TableName() string { return "order_counters" }
