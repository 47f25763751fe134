package models

import (
	"time"

	"github.com/google/uuid"
)

// TimetableSlot is one recurring class occurrence in a cohort's weekly grid.
type TimetableSlot struct {
	ID          uuid.UUID `json:"id"`
	Branch      string    `json:"branch"`
	Semester    int       `json:"semester"`
	DayOfWeek   int       `json:"day_of_week"` // 0 = Sunday
	StartTime   string    `json:"start_time"`  // HH:MM
	EndTime     string    `json:"end_time"`
	Subject     string    `json:"subject"`
	ClassType   string    `json:"class_type"`
	Room        string    `json:"room"`
	FacultyName string    `json:"faculty_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SyllabusEntry points at the syllabus document for a subject.
type SyllabusEntry struct {
	ID         uuid.UUID  `json:"id"`
	Branch     string     `json:"branch"`
	Semester   int        `json:"semester"`
	Subject    string     `json:"subject"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	UploadedBy *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Notification is a campus-wide or role-scoped notice.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Audience    string     `json:"audience"` // all, students, faculty
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
