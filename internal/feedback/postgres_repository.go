package feedback

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// A unique index on (user_id, abo_box_id) enforces one feedback per
// user per box.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL feedback repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new feedback entry.
func (r *PostgresRepository) Create(ctx context.Context, feedback *Feedback) error {
	query := `
		INSERT INTO feedback (feedback_id, user_id, abo_box_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.UserID,
		feedback.AboBoxID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (user_id, abo_box_id)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateFeedback
		}
		return err
	}
	return nil
}

// GetByUserAndBox retrieves a user's feedback for a box.
func (r *PostgresRepository) GetByUserAndBox(ctx context.Context, userID, aboBoxID string) (*Feedback, error) {
	query := `
		SELECT feedback_id, user_id, abo_box_id, rating, comment, created_at
		FROM feedback
		WHERE user_id = $1 AND abo_box_id = $2
	`

	var f Feedback
	err := r.pool.QueryRow(ctx, query, userID, aboBoxID).Scan(
		&f.ID, &f.UserID, &f.AboBoxID, &f.Rating, &f.Comment, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByAboBox returns all feedback for a box, oldest first.
func (r *PostgresRepository) ListByAboBox(ctx context.Context, aboBoxID string) ([]Feedback, error) {
	query := `
		SELECT feedback_id, user_id, abo_box_id, rating, comment, created_at
		FROM feedback
		WHERE abo_box_id = $1
		ORDER BY created_at, feedback_id
	`

	rows, err := r.pool.Query(ctx, query, aboBoxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.AboBoxID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
