package domain

import "time"

type MenuItem struct {
	ID          int64
	Name        string
	Description string
	Category    string
	PriceCents  int64
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
