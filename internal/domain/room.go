package domain

import "time"

type RoomType struct {
	ID          int64
	Name        string
	Description string
}

type Room struct {
	ID          int64
	Number      string
	RoomTypeID  int64
	Name        string
	Description string
	Capacity    int
	PriceCents  int64
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
