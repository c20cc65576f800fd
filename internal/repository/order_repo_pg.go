package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByToken(ctx context.Context, token string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, token string, status domain.OrderStatus) (*domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (token, total_cents, customer_name, email, phone, status, payment_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		order.Token, order.TotalCents, order.CustomerName, order.Email, order.Phone, order.Status, order.PaymentURL).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, `INSERT INTO order_items (order_id, menu_item_id, name, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, line.MenuItemID, line.Name, line.PriceCents, line.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) GetByToken(ctx context.Context, token string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, token, total_cents, customer_name, email, phone, status, payment_url, created_at, updated_at FROM orders WHERE token=$1`, token)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Token, &o.TotalCents, &o.CustomerName, &o.Email, &o.Phone, &o.Status, &o.PaymentURL, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT menu_item_id, name, price_cents, quantity FROM order_items WHERE order_id=$1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.MenuItemID, &line.Name, &line.PriceCents, &line.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	return &o, rows.Err()
}

func (r *PGOrderRepository) UpdateStatus(ctx context.Context, token string, status domain.OrderStatus) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `UPDATE orders SET status=$1, updated_at=now() WHERE token=$2 RETURNING id, token, total_cents, customer_name, email, phone, status, payment_url, created_at, updated_at`, status, token)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Token, &o.TotalCents, &o.CustomerName, &o.Email, &o.Phone, &o.Status, &o.PaymentURL, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
