// Package qrsession implements the rolling QR attendance session payload:
// encoding on the faculty side and decode/validation on the scanning side.
package qrsession

import (
	"encoding/json"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// FreshnessWindow is how long a payload stays scannable after generation.
	// It equals the encoder refresh interval, so in steady state at most one
	// valid payload exists at a given instant.
	FreshnessWindow = 30 * time.Second

	// RefreshInterval is how often the encoder emits a fresh payload.
	RefreshInterval = FreshnessWindow
)

// ClassInfo identifies the class occurrence a session is opened for.
type ClassInfo struct {
	Subject  string `json:"subject"`
	Branch   string `json:"branch"`
	Semester int    `json:"semester"`
	Date     string `json:"date"` // YYYY-MM-DD
	Type     string `json:"type"` // Lecture, Lab, ...
}

// Payload is one time-boxed attendance session descriptor. Payloads are
// value objects: a regeneration supersedes the previous payload, it never
// mutates it.
type Payload struct {
	ClassInfo
	Timestamp          int64  `json:"timestamp"` // epoch millis at encoding time
	SessionID          string `json:"sessionId"`
	IsFacultyGenerated bool   `json:"isFacultyGenerated"`
}

// NewPayload builds a payload for the class at the given instant. The
// session ID incorporates the generation timestamp so two consecutive
// payloads are distinguishable even when scanned in quick succession.
func NewPayload(class ClassInfo, now time.Time) Payload {
	ts := now.UnixMilli()
	return Payload{
		ClassInfo:          class,
		Timestamp:          ts,
		SessionID:          fmt.Sprintf("%s-%s-%d", class.Subject, class.Date, ts),
		IsFacultyGenerated: true,
	}
}

// Encode returns the JSON wire form of the payload.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Age returns how long ago the payload was generated.
func (p Payload) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(p.Timestamp))
}

// PNG renders the encoded payload as a scannable QR code image of the
// given pixel size.
func (p Payload) PNG(size int) ([]byte, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, size)
}
