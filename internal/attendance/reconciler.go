package attendance

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// Row is one student's attendance state in an open reconciliation session.
// IsPending is true only while the presence originated from a live push
// that has not yet been included in a finalized submission.
type Row struct {
	StudentID          int64      `json:"studentId"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registrationNumber"`
	IsPresent          bool       `json:"isPresent"`
	IsPending          bool       `json:"isPending"`
	RecordID           *uuid.UUID `json:"attendanceRecordId,omitempty"`
}

// FinalizeRecord is one row of a finalize batch.
type FinalizeRecord struct {
	StudentID          int64      `json:"studentId"`
	Status             string     `json:"status"` // present or absent
	AttendanceRecordID *uuid.UUID `json:"attendanceRecordId,omitempty"`
}

// Batch is the complete roster decision for one class occurrence.
type Batch struct {
	Subject   string           `json:"subject"`
	Date      string           `json:"date"`
	ClassType string           `json:"classType"`
	Records   []FinalizeRecord `json:"records"`
}

// Submitter performs the authoritative finalize write. The backend decides
// create vs update; repeating an unchanged batch must be safe.
type Submitter interface {
	SubmitAttendance(ctx context.Context, batch Batch) error
}

// Reconciler owns the pending view of one class session's roster and
// mediates between manual toggles, live pushed scans, and the one finalize
// submission. A single faculty view owns one Reconciler; state is never
// shared across clients except through the backend.
type Reconciler struct {
	subject   string
	date      string
	classType string
	submitter Submitter

	mu        sync.Mutex
	order     []int64
	rows      map[int64]*Row
	submitted bool
}

// NewReconciler builds a reconciliation session over the given roster, all
// rows starting absent and non-pending.
func NewReconciler(subject, date, classType string, roster []models.Student, submitter Submitter) *Reconciler {
	r := &Reconciler{
		subject:   subject,
		date:      date,
		classType: classType,
		submitter: submitter,
		rows:      make(map[int64]*Row, len(roster)),
	}
	for _, s := range roster {
		r.order = append(r.order, s.ID)
		r.rows[s.ID] = &Row{
			StudentID:          s.ID,
			Name:               s.Name,
			RegistrationNumber: s.RegistrationNumber,
		}
	}
	return r
}

// SeedExisting rehydrates rows from previously finalized records so an
// already-taken session can be edited; such rows route to the update path
// on the next finalize.
func (r *Reconciler) SeedExisting(records []RecordRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		row, ok := r.rows[rec.StudentID]
		if !ok {
			continue
		}
		row.IsPresent = rec.Attendance
		id := rec.AttendanceID
		row.RecordID = &id
	}
}

// Toggle flips a student's presence. Manual edits are immediate, not
// provisional, so IsPending is left untouched. Returns false when the
// student is not on the roster.
func (r *Reconciler) Toggle(studentID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[studentID]
	if !ok {
		return false
	}
	row.IsPresent = !row.IsPresent
	return true
}

// ApplyScanEvent marks the matching row present and pending. Events for
// students outside the roster are ignored without error: the roster may
// have been filtered since the scan. Events carrying a different subject
// or date belong to another session and are ignored too.
func (r *Reconciler) ApplyScanEvent(ev models.ScanEvent) {
	if ev.Subject != "" && ev.Subject != r.subject {
		return
	}
	if ev.Date != "" && ev.Date != r.date {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[ev.StudentID]
	if !ok {
		return
	}
	row.IsPresent = true
	row.IsPending = true
}

// Rows returns a snapshot of the roster in stable order.
func (r *Reconciler) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.rows[id])
	}
	return out
}

// Submitted reports whether a finalize has succeeded for this session.
func (r *Reconciler) Submitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitted
}

// Finalize sends one batch containing every row's decision. On success all
// pending flags clear and the session is marked submitted; on failure the
// roster state is left unchanged so the operator can retry.
// Safe to call again with an unchanged roster.
func (r *Reconciler) Finalize(ctx context.Context) error {
	r.mu.Lock()
	batch := Batch{
		Subject:   r.subject,
		Date:      r.date,
		ClassType: r.classType,
		Records:   make([]FinalizeRecord, 0, len(r.order)),
	}
	for _, id := range r.order {
		row := r.rows[id]
		status := "absent"
		if row.IsPresent {
			status = "present"
		}
		batch.Records = append(batch.Records, FinalizeRecord{
			StudentID:          id,
			Status:             status,
			AttendanceRecordID: row.RecordID,
		})
	}
	r.mu.Unlock()

	if err := r.submitter.SubmitAttendance(ctx, batch); err != nil {
		return fmt.Errorf("finalize attendance: %w", err)
	}

	r.mu.Lock()
	for _, row := range r.rows {
		row.IsPending = false
	}
	r.submitted = true
	r.mu.Unlock()
	return nil
}
