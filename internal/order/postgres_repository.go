package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Line items are stored as a JSONB document carrying the kind
// discriminant, preserving the tagged union across the wire.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `
	order_id, user_id, order_date, payment_method, delivery_address,
	type, status, items, created_at, updated_at
`

// Get retrieves an order by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// List returns all orders ordered by order date.
func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date, order_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByUser returns all orders placed by a user ordered by order date.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY order_date, order_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListByDateRange returns orders with order date in [start, end] inclusive.
func (r *PostgresRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_date >= $1 AND order_date <= $2
		ORDER BY order_date, order_id
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// Create inserts a new order.
func (r *PostgresRepository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.OrderDate,
		order.PaymentMethod,
		order.DeliveryAddress,
		string(order.Type),
		string(order.Status),
		items,
		order.CreatedAt,
		order.UpdatedAt,
	)
	return err
}

// Update updates an existing order.
func (r *PostgresRepository) Update(ctx context.Context, order *Order) error {
	query := `
		UPDATE orders SET
			payment_method = $2,
			delivery_address = $3,
			status = $4,
			items = $5,
			updated_at = $6
		WHERE order_id = $1
	`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, query,
		order.ID,
		order.PaymentMethod,
		order.DeliveryAddress,
		string(order.Status),
		items,
		order.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o          Order
		orderType  string
		status     string
		itemsJSON  []byte
	)

	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderDate,
		&o.PaymentMethod,
		&o.DeliveryAddress,
		&orderType,
		&status,
		&itemsJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Type = Type(orderType)
	o.Status = Status(status)
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
