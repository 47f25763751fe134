package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is one roster entry. Students are keyed by a numeric ID because
// that is what the QR scan wire format carries.
type Student struct {
	ID                 int64      `json:"id"`
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registration_number"`
	Email              string     `json:"email"`
	Branch             string     `json:"branch"`
	Semester           int        `json:"semester"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Faculty is one faculty roster entry.
type Faculty struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Department  string     `json:"department"`
	Designation string     `json:"designation"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
