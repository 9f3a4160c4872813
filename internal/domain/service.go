package domain

import "time"

// SalonService represents a bookable service in the merchant's catalog
type SalonService struct {
	ID              int64
	MerchantID      int64
	Name            string
	DurationMinutes int
	Price           int64 // минорные единицы
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
