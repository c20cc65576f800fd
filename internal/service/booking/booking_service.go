package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/kafka"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/pricing"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrRoomHeld      = errors.New("room is currently held by another guest")
	ErrTooManyGuests = errors.New("guest count exceeds room capacity")
	ErrNotPending    = errors.New("booking is not pending")
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, token string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireStayLock(ctx context.Context, roomID int64, checkIn, checkOut string, ttl time.Duration) (bool, error)
	ReleaseStayLock(ctx context.Context, roomID int64, checkIn, checkOut string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	rooms              repository.RoomRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	confirmationTTL    time.Duration
}

type CreateBookingInput struct {
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	GuestName       string
	Email           string
	SpecialRequests string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL, confirmationTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		rooms:           rooms,
		cache:           cache,
		producer:        producer,
		bookingTopic:    bookingTopic,
		holdTTL:         holdTTL,
		confirmationTTL: confirmationTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the stay, takes a short hold on the room and
// writes a pending booking. Validation runs before the lock, the lock
// before the database; the database transaction has the final word on
// availability.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	stay, err := pricing.Stay{
		RoomID:          input.RoomID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		Guests:          input.Guests,
		SpecialRequests: input.SpecialRequests,
	}.Validate()
	if err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}

	room, err := s.rooms.GetByID(ctx, stay.RoomID)
	if err != nil {
		return nil, err
	}
	if stay.Guests > room.Capacity {
		return nil, ErrTooManyGuests
	}
	stay.NightlyRateCents = room.PriceCents

	query := pricing.NewAvailabilityQuery(stay.RoomID, stay.CheckIn, stay.CheckOut)

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireStayLock(ctx, query.RoomID, query.CheckIn, query.CheckOut, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRoomHeld
		}
		locked = true
	}

	expiresIn := s.confirmationTTL
	if expiresIn == 0 {
		expiresIn = s.holdTTL
	}

	booking := &domain.Booking{
		RoomID:          stay.RoomID,
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Guests:          stay.Guests,
		Token:           uuid.NewString(),
		TotalCents:      stay.TotalCents(),
		GuestName:       input.GuestName,
		Email:           input.Email,
		SpecialRequests: stay.SpecialRequests,
		ExpiresAt:       time.Now().Add(expiresIn),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseStayLock(ctx, query.RoomID, query.CheckIn, query.CheckOut)
		}
		return nil, err
	}

	booking.Status = domain.BookingStatusPending
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, ErrNotPending
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_confirmed", updated)
	s.releaseStayLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", updated)
	s.releaseStayLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, "booking_expired", &expired[i])
		s.releaseStayLock(ctx, &expired[i])
	}
	return expired, nil
}

func (s *BookingService) releaseStayLock(ctx context.Context, b *domain.Booking) {
	if s.cache == nil {
		return
	}
	query := pricing.NewAvailabilityQuery(b.RoomID, b.CheckIn, b.CheckOut)
	_ = s.cache.ReleaseStayLock(ctx, query.RoomID, query.CheckIn, query.CheckOut)
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	query := pricing.NewAvailabilityQuery(b.RoomID, b.CheckIn, b.CheckOut)
	event := kafka.BookingEvent{
		Type:       eventType,
		Token:      b.Token,
		RoomID:     b.RoomID,
		CheckIn:    query.CheckIn,
		CheckOut:   query.CheckOut,
		Guests:     b.Guests,
		Email:      b.Email,
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		ExpiresAt:  b.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, b.Token, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, b.Token, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.Token, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %s: %v", eventType, b.Token, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
