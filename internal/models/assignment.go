package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is a piece of work set for a branch/semester cohort.
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	Subject     string     `json:"subject"`
	Branch      string     `json:"branch"`
	Semester    int        `json:"semester"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Submission is a student's uploaded answer to an assignment. The file
// itself lives in S3 under S3Key; marks and feedback are added on evaluation.
type Submission struct {
	ID          uuid.UUID  `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentID   int64      `json:"student_id"`
	S3Key       string     `json:"-"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	SubmittedAt time.Time  `json:"submitted_at"`
	Marks       *int       `json:"marks,omitempty"`
	Feedback    *string    `json:"feedback,omitempty"`
	EvaluatedAt *time.Time `json:"evaluated_at,omitempty"`
}
