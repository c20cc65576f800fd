package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

type Booking struct {
	ID              int64
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Token           string
	Status          BookingStatus
	TotalCents      int64
	GuestName       string
	Email           string
	SpecialRequests string
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
