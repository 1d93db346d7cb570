package database

import (
	"context"
	"fmt"
	"time"

	"go-profiwatch-automation/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository archives delivered orders in Postgres. The archive is an audit
// trail, not part of the dedup path: the JSON processed-order set stays the
// authority for "already delivered".
type Repository struct {
	db *pgxpool.Pool
}

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id           BIGSERIAL PRIMARY KEY,
	order_id     TEXT UNIQUE NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT,
	client_name  TEXT,
	location     TEXT,
	budget       TEXT,
	date_posted  TEXT,
	link         TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Connection poolers in transaction mode choke on prepared statements,
	// so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if _, err := pool.Exec(ctx, ordersSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ensure orders table: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SaveOrder archives a delivered order. Re-archiving the same order id is a
// no-op.
func (r *Repository) SaveOrder(ctx context.Context, order scraper.Order) error {
	description := order.MainInfo
	if order.AdditionalInfo != "" {
		if description != "" {
			description += "\n\n"
		}
		description += order.AdditionalInfo
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO orders (order_id, title, description, client_name, location, budget, date_posted, link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (order_id) DO NOTHING`,
		order.ID, order.Title, description, order.ClientName,
		order.Location, order.Budget, order.DatePosted, order.Link,
	)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	return nil
}

// CountOrders returns the number of archived orders.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM orders").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
