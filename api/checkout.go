package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/cart"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/service/checkout"
)

type CheckoutHandler struct {
	carts   *cart.Store
	service checkout.CheckoutUseCase
}

type checkoutRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	PromoCode string `json:"promo_code"`
}

type checkoutResponse struct {
	Token      string `json:"token"`
	Status     string `json:"status"`
	TotalCents int64  `json:"total_cents"`
	PaymentURL string `json:"payment_url"`
}

func NewCheckoutHandler(carts *cart.Store, service checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:token", h.get)
	router.PUT("/:token", h.markPaid)
}

// create snapshots the session cart, hands it to the checkout service and
// clears the cart only after the order is persisted.
func (h *CheckoutHandler) create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ErrEmptyCart.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), checkout.CreateOrderInput{
		Lines:        h.carts.Get(sid).Lines(),
		CustomerName: req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PromoCode:    req.PromoCode,
	})
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, checkout.ErrEmptyCart) && !errors.Is(err, checkout.ErrEmailRequired) && !errors.Is(err, checkout.ErrInvalidPromoCode) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.carts.Reset(sid)

	c.JSON(http.StatusCreated, toCheckoutResponse(order))
}

func (h *CheckoutHandler) get(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(order))
}

func (h *CheckoutHandler) markPaid(c *gin.Context) {
	order, err := h.service.MarkPaid(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, checkout.ErrNotPendingPayment) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponse(order))
}

func toCheckoutResponse(order *domain.Order) checkoutResponse {
	return checkoutResponse{
		Token:      order.Token,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		PaymentURL: order.PaymentURL,
	}
}
