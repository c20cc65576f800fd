package rooms

import (
	"context"
	"time"

	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/pricing"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
)

type RoomUseCase interface {
	List(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
}

type Cache interface {
	GetRooms(ctx context.Context) ([]domain.Room, error)
	SetRooms(ctx context.Context, rooms []domain.Room) error
}

// AvailabilityChecker answers whether a room is free over a date range.
// The Postgres booking repository is the production implementation.
type AvailabilityChecker interface {
	IsRoomAvailable(ctx context.Context, q pricing.AvailabilityQuery) (bool, error)
}

type RoomService struct {
	repo         repository.RoomRepository
	availability AvailabilityChecker
	cache        Cache
}

func NewRoomService(repo repository.RoomRepository, availability AvailabilityChecker, cache Cache) *RoomService {
	return &RoomService{repo: repo, availability: availability, cache: cache}
}

func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRooms(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRooms(ctx, rooms)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return s.repo.GetByID(ctx, id)
}

// CheckAvailability rejects non-billable date ranges before asking the
// backend, so an invalid range never costs a query.
func (s *RoomService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	if pricing.Nights(checkIn, checkOut) <= 0 {
		return false, pricing.ErrInvalidDateRange
	}
	return s.availability.IsRoomAvailable(ctx, pricing.NewAvailabilityQuery(roomID, checkIn, checkOut))
}

var _ RoomUseCase = (*RoomService)(nil)
