package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/pricing"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, token, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) IsRoomAvailable(ctx context.Context, q pricing.AvailabilityQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireStayLock(ctx context.Context, roomID int64, checkIn, checkOut string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseStayLock(ctx context.Context, roomID int64, checkIn, checkOut string) error {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := pricing.ParseDate(raw)
	assert.NoError(t, err)
	return d
}

func standardRoom() *domain.Room {
	return &domain.Room{
		ID:         4,
		Number:     "204",
		Name:       "Standard Double",
		Capacity:   2,
		PriceCents: 15000,
	}
}

func validInput(t *testing.T) CreateBookingInput {
	return CreateBookingInput{
		RoomID:    4,
		CheckIn:   date(t, "2024-01-05"),
		CheckOut:  date(t, "2024-01-10"),
		Guests:    2,
		GuestName: "Ada Guest",
		Email:     "guest@example.com",
	}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, mockProducer, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	input := validInput(t)

	mockRooms.On("GetByID", ctx, int64(4)).Return(standardRoom(), nil).Once()
	mockCache.On("AcquireStayLock", ctx, int64(4), "2024-01-05", "2024-01-10", time.Minute).Return(true, nil).Once()
	mockBookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, domain.BookingStatusPending, created.Status)
	assert.Equal(t, input.RoomID, created.RoomID)
	assert.Equal(t, input.Guests, created.Guests)
	assert.Equal(t, input.Email, created.Email)
	assert.NotEmpty(t, created.Token)
	// 5 nights at 15000 cents
	assert.Equal(t, int64(75000), created.TotalCents)

	mockRooms.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()

	testCases := []struct {
		name        string
		mutate      func(*CreateBookingInput)
		expectedErr error
	}{
		{
			name: "reversed date range",
			mutate: func(in *CreateBookingInput) {
				in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn
			},
			expectedErr: pricing.ErrInvalidDateRange,
		},
		{
			name: "same-day stay",
			mutate: func(in *CreateBookingInput) {
				in.CheckOut = in.CheckIn
			},
			expectedErr: pricing.ErrInvalidDateRange,
		},
		{
			name: "zero guests",
			mutate: func(in *CreateBookingInput) {
				in.Guests = 0
			},
			expectedErr: pricing.ErrInvalidGuestCount,
		},
		{
			name: "missing email",
			mutate: func(in *CreateBookingInput) {
				in.Email = ""
			},
			expectedErr: ErrEmailRequired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(t)
			tc.mutate(&input)

			created, err := service.CreateBooking(ctx, input)

			assert.Nil(t, created)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}

	// Invalid input must be rejected before any lock or database call.
	mockRooms.AssertNotCalled(t, "GetByID")
	mockCache.AssertNotCalled(t, "AcquireStayLock")
	mockBookings.AssertNotCalled(t, "CreatePending")
}

func TestBookingService_CreateBooking_TooManyGuests(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	input := validInput(t)
	input.Guests = 3

	mockRooms.On("GetByID", ctx, int64(4)).Return(standardRoom(), nil).Once()

	created, err := service.CreateBooking(ctx, input)

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrTooManyGuests)

	mockCache.AssertNotCalled(t, "AcquireStayLock")
	mockBookings.AssertNotCalled(t, "CreatePending")
}

func TestBookingService_CreateBooking_RoomHeld(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	input := validInput(t)

	mockRooms.On("GetByID", ctx, int64(4)).Return(standardRoom(), nil).Once()
	mockCache.On("AcquireStayLock", ctx, int64(4), "2024-01-05", "2024-01-10", time.Minute).Return(false, nil).Once()

	created, err := service.CreateBooking(ctx, input)

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrRoomHeld)

	mockCache.AssertExpectations(t)
	mockBookings.AssertNotCalled(t, "CreatePending")
}

func TestBookingService_CreateBooking_RepositoryErrorReleasesLock(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	input := validInput(t)

	mockRooms.On("GetByID", ctx, int64(4)).Return(standardRoom(), nil).Once()
	mockCache.On("AcquireStayLock", ctx, int64(4), "2024-01-05", "2024-01-10", time.Minute).Return(true, nil).Once()
	mockCache.On("ReleaseStayLock", ctx, int64(4), "2024-01-05", "2024-01-10").Return(nil).Once()
	mockBookings.On("CreatePending", ctx, mock.Anything).Return(repository.ErrRoomUnavailable).Once()

	created, err := service.CreateBooking(ctx, input)

	assert.Nil(t, created)
	assert.ErrorIs(t, err, repository.ErrRoomUnavailable)

	mockCache.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, mockProducer, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	token := "booking-token-123"

	pending := &domain.Booking{
		ID:       1,
		RoomID:   4,
		CheckIn:  date(t, "2024-01-05"),
		CheckOut: date(t, "2024-01-10"),
		Guests:   2,
		Token:    token,
		Status:   domain.BookingStatusPending,
		Email:    "guest@example.com",
	}
	confirmed := *pending
	confirmed.Status = domain.BookingStatusConfirmed

	mockBookings.On("GetByToken", ctx, token).Return(pending, nil).Once()
	mockBookings.On("UpdateStatus", ctx, token, domain.BookingStatusConfirmed).Return(&confirmed, nil).Once()
	mockCache.On("ReleaseStayLock", ctx, int64(4), "2024-01-05", "2024-01-10").Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", token, mock.Anything).Return(nil).Once()

	updated, err := service.ConfirmBooking(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, updated.Status)

	mockBookings.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_ConfirmBooking_NotPending(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}

	service := NewBookingService(mockBookings, mockRooms, nil, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	token := "booking-token-123"

	cancelled := &domain.Booking{
		Token:  token,
		Status: domain.BookingStatusCancelled,
	}

	mockBookings.On("GetByToken", ctx, token).Return(cancelled, nil).Once()

	updated, err := service.ConfirmBooking(ctx, token)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrNotPending)
	mockBookings.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_CancelBooking_IdempotentWhenAlreadyCancelled(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}

	service := NewBookingService(mockBookings, mockRooms, nil, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	token := "booking-token-123"

	cancelled := &domain.Booking{
		Token:  token,
		Status: domain.BookingStatusCancelled,
	}

	mockBookings.On("GetByToken", ctx, token).Return(cancelled, nil).Once()

	result, err := service.CancelBooking(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, cancelled, result)
	mockBookings.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, mockProducer, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	token := "booking-token-123"

	pending := &domain.Booking{
		ID:       1,
		RoomID:   4,
		CheckIn:  date(t, "2024-01-05"),
		CheckOut: date(t, "2024-01-10"),
		Token:    token,
		Status:   domain.BookingStatusPending,
		Email:    "guest@example.com",
	}
	cancelled := *pending
	cancelled.Status = domain.BookingStatusCancelled

	mockBookings.On("GetByToken", ctx, token).Return(pending, nil).Once()
	mockBookings.On("UpdateStatus", ctx, token, domain.BookingStatusCancelled).Return(&cancelled, nil).Once()
	mockCache.On("ReleaseStayLock", ctx, int64(4), "2024-01-05", "2024-01-10").Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", token, mock.Anything).Return(nil).Once()

	updated, err := service.CancelBooking(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)

	mockBookings.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_ExpirePendingBookings(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookings, mockRooms, mockCache, mockProducer, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()

	expired := []domain.Booking{
		{ID: 1, RoomID: 4, CheckIn: date(t, "2024-01-05"), CheckOut: date(t, "2024-01-10"), Token: "t1", Status: domain.BookingStatusExpired},
		{ID: 2, RoomID: 7, CheckIn: date(t, "2024-02-01"), CheckOut: date(t, "2024-02-03"), Token: "t2", Status: domain.BookingStatusExpired},
	}

	mockBookings.On("ExpirePendingBefore", ctx, mock.AnythingOfType("time.Time")).Return(expired, nil).Once()
	mockCache.On("ReleaseStayLock", ctx, int64(4), "2024-01-05", "2024-01-10").Return(nil).Once()
	mockCache.On("ReleaseStayLock", ctx, int64(7), "2024-02-01", "2024-02-03").Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "t1", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_topic", "t2", mock.Anything).Return(nil).Once()

	result, err := service.ExpirePendingBookings(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)

	mockBookings.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_ExpirePendingBookings_RepositoryError(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockRooms := &MockRoomRepository{}

	service := NewBookingService(mockBookings, mockRooms, nil, nil, "booking_topic", time.Minute, time.Hour)

	ctx := context.Background()
	expectedErr := errors.New("database error")
	mockBookings.On("ExpirePendingBefore", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Booking(nil), expectedErr).Once()

	result, err := service.ExpirePendingBookings(ctx)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
}
