package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tushar365/reportappmedghor/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProductUsageRepository interface {
	TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error)
	GetByName(ctx context.Context, name string) (*models.ProductUsage, error)
}

type productUsageRepo struct {
	db Database
}

func NewProductUsageRepo(db Database) ProductUsageRepository {
	return &productUsageRepo{db: db}
}

// TopProducts returns the most used products, most recent first among ties.
func (r *productUsageRepo) TopProducts(ctx context.Context, limit int) ([]*models.ProductUsage, error) {
	query := `
		SELECT id, product_name, last_rate, usage_count, last_used
		FROM product_usage
		ORDER BY usage_count DESC, last_used DESC, id ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query product usage: %w", err)
	}
	defer rows.Close()

	var usages []*models.ProductUsage
	for rows.Next() {
		u := &models.ProductUsage{}
		if err := rows.Scan(&u.ID, &u.ProductName, &u.LastRate, &u.UsageCount, &u.LastUsed); err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}
	return usages, rows.Err()
}

func (r *productUsageRepo) GetByName(ctx context.Context, name string) (*models.ProductUsage, error) {
	query := `
		SELECT id, product_name, last_rate, usage_count, last_used
		FROM product_usage
		WHERE product_name = $1
	`
	u := &models.ProductUsage{}
	err := r.db.QueryRow(ctx, query, name).Scan(&u.ID, &u.ProductName, &u.LastRate, &u.UsageCount, &u.LastUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
