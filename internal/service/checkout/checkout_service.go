package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/cart"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/kafka"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrEmailRequired     = errors.New("email is required")
	ErrInvalidPromoCode  = errors.New("promo code is not valid")
	ErrNotPendingPayment = errors.New("order is not awaiting payment")
)

type CheckoutUseCase interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, token string) (*domain.Order, error)
	MarkPaid(ctx context.Context, token string) (*domain.Order, error)
}

type PromoValidator interface {
	IsValid(ctx context.Context, code string) bool
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CheckoutService struct {
	orders             repository.OrderRepository
	promo              PromoValidator
	producer           Producer
	orderTopic         string
	notificationsTopic string
	paymentURL         string
}

// CreateOrderInput carries a snapshot of the cart plus the customer
// contact fields. The snapshot is taken by the caller; the service never
// reaches back into session state.
type CreateOrderInput struct {
	Lines        []cart.Line
	CustomerName string
	Email        string
	Phone        string
	PromoCode    string
}

type CheckoutServiceOption func(*CheckoutService)

func WithNotificationsTopic(topic string) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.notificationsTopic = topic
	}
}

func NewCheckoutService(
	orders repository.OrderRepository,
	promo PromoValidator,
	producer Producer,
	orderTopic, paymentURL string,
	opts ...CheckoutServiceOption,
) *CheckoutService {
	service := &CheckoutService{
		orders:     orders,
		promo:      promo,
		producer:   producer,
		orderTopic: orderTopic,
		paymentURL: paymentURL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder turns a cart snapshot into a persisted order and a payment
// redirect URL. Totals are recomputed from the snapshot lines; nothing
// the client sends is trusted for money. Validation, including the promo
// code, runs strictly before the order row is written.
func (s *CheckoutService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if input.PromoCode != "" {
		if s.promo == nil || !s.promo.IsValid(ctx, input.PromoCode) {
			return nil, ErrInvalidPromoCode
		}
	}

	var total int64
	lines := make([]domain.OrderLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, domain.OrderLine{
			MenuItemID: l.ID,
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Quantity:   l.Quantity,
		})
		total += l.PriceCents * int64(l.Quantity)
	}

	order := &domain.Order{
		Token:        uuid.NewString(),
		Lines:        lines,
		TotalCents:   total,
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Status:       domain.OrderStatusPendingPayment,
	}
	order.PaymentURL = fmt.Sprintf("%s?order=%s", s.paymentURL, order.Token)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, "order_created", order)
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, token string) (*domain.Order, error) {
	return s.orders.GetByToken(ctx, token)
}

// MarkPaid is the payment-return callback. Only an order still awaiting
// payment can transition to PAID.
func (s *CheckoutService) MarkPaid(ctx context.Context, token string) (*domain.Order, error) {
	current, err := s.orders.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.OrderStatusPendingPayment {
		return nil, ErrNotPendingPayment
	}

	updated, err := s.orders.UpdateStatus(ctx, token, domain.OrderStatusPaid)
	if err != nil {
		return nil, err
	}
	// UpdateStatus returns the order row only; carry the lines over.
	updated.Lines = current.Lines

	s.publish(ctx, "order_paid", updated)
	return updated, nil
}

func (s *CheckoutService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.producer == nil || s.orderTopic == "" {
		return
	}
	event := kafka.OrderEvent{
		Type:       eventType,
		Token:      order.Token,
		Email:      order.Email,
		TotalCents: order.TotalCents,
		Items:      len(order.Lines),
	}
	if err := s.producer.Publish(ctx, s.orderTopic, order.Token, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for order %s: %v", eventType, order.Token, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, order.Token, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for order %s: %v", eventType, order.Token, err)
		}
	}
}

var _ CheckoutUseCase = (*CheckoutService)(nil)
