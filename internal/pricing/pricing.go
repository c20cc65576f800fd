package pricing

import (
	"errors"
	"time"
)

const dayLayout = "2006-01-02"

var (
	ErrInvalidDateRange  = errors.New("check-out must be after check-in")
	ErrInvalidGuestCount = errors.New("guest count must be positive")
)

// Nights returns the number of calendar nights between check-in and
// check-out. Both arguments are truncated to calendar dates first, so
// time-of-day never changes the result. Zero or negative means the stay
// is not billable.
func Nights(checkIn, checkOut time.Time) int {
	in := toDate(checkIn)
	out := toDate(checkOut)
	return int(out.Sub(in) / (24 * time.Hour))
}

// TotalCents prices a stay. Negative night counts clamp to zero so the
// result is never negative for a non-negative rate.
func TotalCents(nightlyRateCents int64, nights int) int64 {
	if nights < 0 {
		nights = 0
	}
	return nightlyRateCents * int64(nights)
}

// AvailabilityQuery carries what the persistence layer needs to decide
// whether a room is free over the half-open range [CheckIn, CheckOut).
// Dates are ISO calendar dates with no time component.
type AvailabilityQuery struct {
	RoomID   int64
	CheckIn  string
	CheckOut string
}

func NewAvailabilityQuery(roomID int64, checkIn, checkOut time.Time) AvailabilityQuery {
	return AvailabilityQuery{
		RoomID:   roomID,
		CheckIn:  toDate(checkIn).Format(dayLayout),
		CheckOut: toDate(checkOut).Format(dayLayout),
	}
}

// Stay is a booking request before it has touched any external system.
type Stay struct {
	RoomID           int64
	CheckIn          time.Time
	CheckOut         time.Time
	Guests           int
	NightlyRateCents int64
	SpecialRequests  string
}

// Validate normalizes both dates to calendar-day precision and rejects
// stays that cannot be billed. Callers run it before any lock, database
// or broker call so invalid input never costs a round-trip.
func (s Stay) Validate() (Stay, error) {
	s.CheckIn = toDate(s.CheckIn)
	s.CheckOut = toDate(s.CheckOut)
	if Nights(s.CheckIn, s.CheckOut) <= 0 {
		return Stay{}, ErrInvalidDateRange
	}
	if s.Guests <= 0 {
		return Stay{}, ErrInvalidGuestCount
	}
	return s, nil
}

func (s Stay) Nights() int {
	return Nights(s.CheckIn, s.CheckOut)
}

func (s Stay) TotalCents() int64 {
	return TotalCents(s.NightlyRateCents, s.Nights())
}

// ParseDate parses an ISO calendar date such as "2024-01-05".
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dayLayout, raw)
}

func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
