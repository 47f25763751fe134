package faculty

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles faculty roster persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a faculty repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const facultyColumns = `id, user_id, name, email, department, designation, created_at, updated_at`

// Create inserts a new faculty member.
func (r *Repository) Create(ctx context.Context, f *models.Faculty) error {
	const q = `INSERT INTO faculty (user_id, name, email, department, designation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, f.UserID, f.Name, f.Email, f.Department, f.Designation).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID returns a faculty member by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error) {
	const q = `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1`
	var f models.Faculty
	err := r.pool.QueryRow(ctx, q, id).Scan(&f.ID, &f.UserID, &f.Name, &f.Email, &f.Department, &f.Designation, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns all faculty, optionally filtered by department.
func (r *Repository) List(ctx context.Context, department string) ([]models.Faculty, error) {
	base := `SELECT ` + facultyColumns + ` FROM faculty`
	var args []interface{}
	var cond string
	if department != "" {
		cond = " WHERE department = $1"
		args = append(args, department)
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Faculty
	for rows.Next() {
		var f models.Faculty
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Email, &f.Department, &f.Designation, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update updates mutable faculty fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, department, designation string) error {
	const q = `UPDATE faculty SET name = $1, department = $2, designation = $3, updated_at = NOW() WHERE id = $4`
	_, err := r.pool.Exec(ctx, q, name, department, designation, id)
	return err
}

// Delete removes a faculty member by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM faculty WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
