package students

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles student roster persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a student repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const studentColumns = `id, user_id, name, registration_number, email, branch, semester, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.RegistrationNumber, &s.Email, &s.Branch, &s.Semester, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new student.
func (r *Repository) Create(ctx context.Context, s *models.Student) error {
	const q = `INSERT INTO students (user_id, name, registration_number, email, branch, semester)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.UserID, s.Name, s.RegistrationNumber, s.Email, s.Branch, s.Semester).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a student by numeric ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return scanStudent(r.pool.QueryRow(ctx, q, id))
}

// GetByRegistrationNumber returns a student by registration number.
func (r *Repository) GetByRegistrationNumber(ctx context.Context, regNo string) (*models.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE registration_number = $1`
	return scanStudent(r.pool.QueryRow(ctx, q, regNo))
}

// List returns students, optionally filtered by branch and semester.
func (r *Repository) List(ctx context.Context, branch string, semester int) ([]models.Student, error) {
	base := `SELECT ` + studentColumns + ` FROM students`
	var args []interface{}
	var cond string
	if branch != "" {
		cond = " WHERE branch = $1"
		args = append(args, branch)
	}
	if semester > 0 {
		if cond == "" {
			cond = " WHERE semester = $1"
		} else {
			cond += " AND semester = $2"
		}
		args = append(args, semester)
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY registration_number", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Update updates mutable student fields.
func (r *Repository) Update(ctx context.Context, id int64, name, email, branch string, semester int) error {
	const q = `UPDATE students SET name = $1, email = $2, branch = $3, semester = $4, updated_at = NOW() WHERE id = $5`
	_, err := r.pool.Exec(ctx, q, name, email, branch, semester, id)
	return err
}

// Delete removes a student by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM students WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
