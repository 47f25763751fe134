package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is one finalized per-student attendance decision for a
// {subject, date, class type} occurrence. Unique on that triple plus the
// student, so repeated finalize calls upsert instead of duplicating.
type AttendanceRecord struct {
	ID        uuid.UUID  `json:"id"`
	StudentID int64      `json:"student_id"`
	Subject   string     `json:"subject"`
	Date      string     `json:"date"` // YYYY-MM-DD
	ClassType string     `json:"class_type"`
	Present   bool       `json:"present"`
	MarkedBy  *uuid.UUID `json:"marked_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ScanEvent is a provisional attendance mark produced when a student's scan
// is accepted. It is pushed to watching faculty clients and is never
// authoritative until a finalize submission includes the student.
type ScanEvent struct {
	StudentID          int64  `json:"studentId"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Subject            string `json:"subject"`
	Date               string `json:"date"`
	ClassType          string `json:"type"`
}
