package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// RecordRow is one row of GET /attendance/by-date-subject, shaped for
// rehydrating a faculty client's roster when editing a finalized session.
type RecordRow struct {
	StudentID    int64     `json:"studentId"`
	Attendance   bool      `json:"attendance"`
	AttendanceID uuid.UUID `json:"attendance_id"`
}

// Repository handles finalized attendance persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FinalizeBatch writes a complete roster decision in one transaction:
// all rows or none. Rows carrying a prior record ID update that record;
// the rest upsert on (student_id, subject, date, class_type), which keeps
// a repeated finalize from duplicating records.
func (r *Repository) FinalizeBatch(ctx context.Context, batch Batch, markedBy *uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin finalize tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const update = `UPDATE attendance_records
		SET present = $1, marked_by = $2, updated_at = NOW()
		WHERE id = $3`
	const upsert = `INSERT INTO attendance_records (student_id, subject, date, class_type, present, marked_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, subject, date, class_type)
		DO UPDATE SET present = EXCLUDED.present, marked_by = EXCLUDED.marked_by, updated_at = NOW()`

	for _, rec := range batch.Records {
		present := rec.Status == "present"
		if rec.AttendanceRecordID != nil {
			if _, err := tx.Exec(ctx, update, present, markedBy, *rec.AttendanceRecordID); err != nil {
				return fmt.Errorf("update record %s: %w", rec.AttendanceRecordID, err)
			}
			continue
		}
		if _, err := tx.Exec(ctx, upsert, rec.StudentID, batch.Subject, batch.Date, batch.ClassType, present, markedBy); err != nil {
			return fmt.Errorf("upsert record for student %d: %w", rec.StudentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit finalize tx: %w", err)
	}
	return nil
}

// Exists reports whether attendance was already finalized for the class
// occurrence.
func (r *Repository) Exists(ctx context.Context, subject, date, classType string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE subject = $1 AND date = $2 AND class_type = $3)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, subject, date, classType).Scan(&exists)
	return exists, err
}

// ListByDateSubject returns the finalized records for a date and subject.
func (r *Repository) ListByDateSubject(ctx context.Context, date, subject string) ([]RecordRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id, present, id FROM attendance_records
		 WHERE date = $1 AND subject = $2 ORDER BY student_id`,
		date, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []RecordRow
	for rows.Next() {
		var row RecordRow
		if err := rows.Scan(&row.StudentID, &row.Attendance, &row.AttendanceID); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// StudentSummary returns a student's finalized records, optionally
// restricted to a subject.
func (r *Repository) StudentSummary(ctx context.Context, studentID int64, subject string) ([]models.AttendanceRecord, error) {
	q := `SELECT id, student_id, subject, to_char(date, 'YYYY-MM-DD'), class_type, present, marked_by, created_at, updated_at
		FROM attendance_records WHERE student_id = $1`
	args := []interface{}{studentID}
	if subject != "" {
		q += ` AND subject = $2`
		args = append(args, subject)
	}
	q += ` ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Subject, &rec.Date, &rec.ClassType, &rec.Present, &rec.MarkedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
