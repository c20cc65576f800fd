package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/pricing"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	RoomID          int64  `json:"room_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	GuestName       string `json:"guest_name"`
	Email           string `json:"email"`
	SpecialRequests string `json:"special_requests"`
}

type bookingResponse struct {
	Token      string `json:"token"`
	Status     string `json:"status"`
	RoomID     int64  `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
	TotalCents int64  `json:"total_cents"`
	Email      string `json:"email"`
	ExpiresAt  string `json:"expires_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PUT("/:token", h.confirm)
	router.DELETE("/:token", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := pricing.ParseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be a YYYY-MM-DD date"})
		return
	}
	checkOut, err := pricing.ParseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be a YYYY-MM-DD date"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		GuestName:       req.GuestName,
		Email:           req.Email,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrRoomUnavailable), errors.Is(err, booking.ErrRoomHeld):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	query := pricing.NewAvailabilityQuery(b.RoomID, b.CheckIn, b.CheckOut)
	return bookingResponse{
		Token:      b.Token,
		Status:     string(b.Status),
		RoomID:     b.RoomID,
		CheckIn:    query.CheckIn,
		CheckOut:   query.CheckOut,
		Guests:     b.Guests,
		TotalCents: b.TotalCents,
		Email:      b.Email,
		ExpiresAt:  b.ExpiresAt.Format(time.RFC3339),
	}
}
