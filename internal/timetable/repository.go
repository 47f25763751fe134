package timetable

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Repository handles timetable persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a timetable repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const slotColumns = `id, branch, semester, day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), subject, class_type, room, faculty_name, created_at, updated_at`

// Create inserts a timetable slot.
func (r *Repository) Create(ctx context.Context, s *models.TimetableSlot) error {
	const q = `INSERT INTO timetable_slots (branch, semester, day_of_week, start_time, end_time, subject, class_type, room, faculty_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.Branch, s.Semester, s.DayOfWeek, s.StartTime, s.EndTime, s.Subject, s.ClassType, s.Room, s.FacultyName).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListForCohort returns the weekly grid for a branch/semester ordered by day and start time.
func (r *Repository) ListForCohort(ctx context.Context, branch string, semester int) ([]models.TimetableSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM timetable_slots
		WHERE branch = $1 AND semester = $2
		ORDER BY day_of_week, start_time`
	rows, err := r.pool.Query(ctx, q, branch, semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.TimetableSlot
	for rows.Next() {
		var s models.TimetableSlot
		if err := rows.Scan(&s.ID, &s.Branch, &s.Semester, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.Subject, &s.ClassType, &s.Room, &s.FacultyName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete removes a timetable slot.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM timetable_slots WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
