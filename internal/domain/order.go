package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

type OrderLine struct {
	MenuItemID string
	Name       string
	PriceCents int64
	Quantity   int
}

type Order struct {
	ID           int64
	Token        string
	Lines        []OrderLine
	TotalCents   int64
	CustomerName string
	Email        string
	Phone        string
	Status       OrderStatus
	PaymentURL   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
