package qrsession

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Validation failures, distinct so a scanning client can tell a student to
// rescan ("expired") apart from a broken code ("invalid format").
var (
	ErrInvalidFormat = errors.New("invalid QR code format")
	ErrInvalidType   = errors.New("invalid QR code type")
	ErrExpired       = errors.New("QR code has expired")
)

// MissingFieldsError reports which required payload fields were absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "invalid QR code: missing " + strings.Join(e.Fields, ", ")
}

// wirePayload mirrors Payload with pointer fields so absent keys are
// distinguishable from zero values.
type wirePayload struct {
	Subject            *string `json:"subject"`
	Branch             *string `json:"branch"`
	Semester           *int    `json:"semester"`
	Date               *string `json:"date"`
	Type               *string `json:"type"`
	Timestamp          *int64  `json:"timestamp"`
	SessionID          string  `json:"sessionId"`
	IsFacultyGenerated bool    `json:"isFacultyGenerated"`
}

// Decode parses raw scanned text into a payload. Unparsable input yields
// ErrInvalidFormat; a failed decode is not terminal for the caller's
// capture loop, only a skipped frame.
func Decode(raw []byte) (*Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, ErrInvalidFormat
	}

	var missing []string
	if w.Subject == nil || *w.Subject == "" {
		missing = append(missing, "subject")
	}
	if w.Branch == nil || *w.Branch == "" {
		missing = append(missing, "branch")
	}
	if w.Semester == nil {
		missing = append(missing, "semester")
	}
	if w.Date == nil || *w.Date == "" {
		missing = append(missing, "date")
	}
	if w.Type == nil || *w.Type == "" {
		missing = append(missing, "type")
	}
	if w.Timestamp == nil {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	p := Payload{
		ClassInfo: ClassInfo{
			Subject:  *w.Subject,
			Branch:   *w.Branch,
			Semester: *w.Semester,
			Date:     *w.Date,
			Type:     *w.Type,
		},
		Timestamp:          *w.Timestamp,
		SessionID:          w.SessionID,
		IsFacultyGenerated: w.IsFacultyGenerated,
	}
	return &p, nil
}

// Validate checks the discriminator tag and the freshness window against
// the given instant. The window is half-open: a payload aged exactly
// FreshnessWindow is already expired.
func Validate(p *Payload, now time.Time) error {
	if !p.IsFacultyGenerated {
		return ErrInvalidType
	}
	if p.Age(now) >= FreshnessWindow {
		return ErrExpired
	}
	return nil
}

// DecodeAndValidate runs Decode then Validate; the scan intake path on
// both the student client and the server uses this single entry point.
func DecodeAndValidate(raw []byte, now time.Time) (*Payload, error) {
	p, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(p, now); err != nil {
		return nil, err
	}
	return p, nil
}
