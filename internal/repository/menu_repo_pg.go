package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
)

type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type PGMenuRepository struct {
	db *pgxpool.Pool
}

func NewMenuRepository(db *pgxpool.Pool) MenuRepository {
	return &PGMenuRepository{db: db}
}

func (r *PGMenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, category, price_cents, image_url, available, created_at, updated_at FROM menu_items WHERE available ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Category, &item.PriceCents, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PGMenuRepository) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, category, price_cents, image_url, available, created_at, updated_at FROM menu_items WHERE id=$1`, id)
	var item domain.MenuItem
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Category, &item.PriceCents, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

var _ MenuRepository = (*PGMenuRepository)(nil)
