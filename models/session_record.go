package models

import "time"

// SessionRecord adalah satu-satunya baris persisted session milik device ini.
// Tiga slot pertama (table id, token, order marker) selalu dibaca dan ditulis
// lewat store.SessionStore; tidak ada komponen lain yang menyentuh tabel ini.
type SessionRecord struct {
	ID                uint    `gorm:"primaryKey"`
	CurrentTableID    *uint   `gorm:"column:current_table_id"`
	SessionToken      *string `gorm:"type:varchar(255)"`
	ActiveOrderMarker *uint   `gorm:"column:active_order_marker"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
