package models

import "time"

// CartLine adalah satu baris cart yang dipersist untuk reload survival.
// LineID sintetis membedakan item identik dengan notes berbeda.
type CartLine struct {
	ID        uint    `gorm:"primaryKey"`
	LineID    string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	MenuID    uint    `gorm:"not null"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"`
	ImageUrl  string  `gorm:"type:varchar(255)"`
	Quantity  int     `gorm:"not null"`
	Notes     string  `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
