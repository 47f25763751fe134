package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles assignment and submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an assignment repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new assignment.
func (r *Repository) Create(ctx context.Context, a *models.Assignment) error {
	const q = `INSERT INTO assignments (subject, branch, semester, title, description, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.Subject, a.Branch, a.Semester, a.Title, a.Description, a.DueDate, a.CreatedBy).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an assignment by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	const q = `SELECT id, subject, branch, semester, title, description, due_date, created_by, created_at, updated_at
		FROM assignments WHERE id = $1`
	var a models.Assignment
	err := r.pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Subject, &a.Branch, &a.Semester, &a.Title, &a.Description, &a.DueDate, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assignments for a branch/semester, newest first.
func (r *Repository) List(ctx context.Context, branch string, semester int) ([]models.Assignment, error) {
	base := `SELECT id, subject, branch, semester, title, description, due_date, created_by, created_at, updated_at FROM assignments`
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
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.Subject, &a.Branch, &a.Semester, &a.Title, &a.Description, &a.DueDate, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete removes an assignment by ID. Submissions cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM assignments WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// UpsertSubmission records a submission, replacing a previous one from the same student.
func (r *Repository) UpsertSubmission(ctx context.Context, s *models.Submission) error {
	const q = `INSERT INTO assignment_submissions (assignment_id, student_id, s3_key, file_name, content_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignment_id, student_id)
		DO UPDATE SET s3_key = EXCLUDED.s3_key, file_name = EXCLUDED.file_name,
			content_type = EXCLUDED.content_type, submitted_at = NOW(),
			marks = NULL, feedback = NULL, evaluated_at = NULL
		RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, q, s.AssignmentID, s.StudentID, s.S3Key, s.FileName, s.ContentType).
		Scan(&s.ID, &s.SubmittedAt)
}

// GetSubmission returns a submission by ID.
func (r *Repository) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	const q = `SELECT id, assignment_id, student_id, s3_key, file_name, content_type, submitted_at, marks, feedback, evaluated_at
		FROM assignment_submissions WHERE id = $1`
	var s models.Submission
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.S3Key, &s.FileName, &s.ContentType, &s.SubmittedAt, &s.Marks, &s.Feedback, &s.EvaluatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSubmissions returns all submissions for an assignment.
func (r *Repository) ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]models.Submission, error) {
	const q = `SELECT id, assignment_id, student_id, s3_key, file_name, content_type, submitted_at, marks, feedback, evaluated_at
		FROM assignment_submissions WHERE assignment_id = $1 ORDER BY submitted_at DESC`
	rows, err := r.pool.Query(ctx, q, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.S3Key, &s.FileName, &s.ContentType, &s.SubmittedAt, &s.Marks, &s.Feedback, &s.EvaluatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Evaluate records marks and feedback for a submission.
func (r *Repository) Evaluate(ctx context.Context, id uuid.UUID, marks int, feedback string) error {
	const q = `UPDATE assignment_submissions SET marks = $1, feedback = $2, evaluated_at = $3 WHERE id = $4`
	_, err := r.pool.Exec(ctx, q, marks, feedback, time.Now(), id)
	return err
}
