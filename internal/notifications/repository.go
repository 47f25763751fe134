package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles notification persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a notification.
func (r *Repository) Create(ctx context.Context, n *models.Notification) error {
	const q = `INSERT INTO notifications (title, body, audience, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, n.Title, n.Body, n.Audience, n.CreatedBy).
		Scan(&n.ID, &n.CreatedAt)
}

// GetByID returns a notification by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	const q = `SELECT id, title, body, audience, created_by, created_at, delivered_at
		FROM notifications WHERE id = $1`
	var n models.Notification
	err := r.pool.QueryRow(ctx, q, id).Scan(&n.ID, &n.Title, &n.Body, &n.Audience, &n.CreatedBy, &n.CreatedAt, &n.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns notifications visible to a role, newest first.
func (r *Repository) List(ctx context.Context, role string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	audiences := []string{"all"}
	switch role {
	case "student":
		audiences = append(audiences, "students")
	case "faculty", "admin":
		audiences = append(audiences, "faculty")
	}
	const q = `SELECT id, title, body, audience, created_by, created_at, delivered_at
		FROM notifications WHERE audience = ANY($1) ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, q, audiences, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Audience, &n.CreatedBy, &n.CreatedAt, &n.DeliveredAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkDelivered stamps delivered_at once the dispatch job has run.
func (r *Repository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE notifications SET delivered_at = $1 WHERE id = $2 AND delivered_at IS NULL`
	_, err := r.pool.Exec(ctx, q, time.Now(), id)
	return err
}
