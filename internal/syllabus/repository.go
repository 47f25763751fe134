package syllabus

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles syllabus persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a syllabus repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a syllabus entry.
func (r *Repository) Create(ctx context.Context, e *models.SyllabusEntry) error {
	const q = `INSERT INTO syllabus (branch, semester, subject, title, url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Branch, e.Semester, e.Subject, e.Title, e.URL, e.UploadedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// ListForCohort returns syllabus entries for a branch/semester.
func (r *Repository) ListForCohort(ctx context.Context, branch string, semester int) ([]models.SyllabusEntry, error) {
	const q = `SELECT id, branch, semester, subject, title, url, uploaded_by, created_at, updated_at
		FROM syllabus WHERE branch = $1 AND semester = $2 ORDER BY subject`
	rows, err := r.pool.Query(ctx, q, branch, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.SyllabusEntry
	for rows.Next() {
		var e models.SyllabusEntry
		if err := rows.Scan(&e.ID, &e.Branch, &e.Semester, &e.Subject, &e.Title, &e.URL, &e.UploadedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete removes a syllabus entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM syllabus WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
