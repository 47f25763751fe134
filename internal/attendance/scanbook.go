package attendance

import (
	"sync"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// SessionKey identifies one class occurrence's provisional scan set.
type SessionKey struct {
	Subject   string
	Date      string
	ClassType string
}

// ScanBook holds the provisional scans per open session, deduplicated per
// student. Scans live only in memory: the finalize submission is the single
// authoritative write, so nothing here ever touches PostgreSQL.
type ScanBook struct {
	mu       sync.Mutex
	sessions map[SessionKey]map[int64]models.ScanEvent
}

// NewScanBook creates an empty scan book.
func NewScanBook() *ScanBook {
	return &ScanBook{sessions: make(map[SessionKey]map[int64]models.ScanEvent)}
}

// Record registers a scan and reports whether it is new for the session.
// A repeat scan by the same student is not an error, just not new.
func (b *ScanBook) Record(key SessionKey, ev models.ScanEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	scans, ok := b.sessions[key]
	if !ok {
		scans = make(map[int64]models.ScanEvent)
		b.sessions[key] = scans
	}
	if _, dup := scans[ev.StudentID]; dup {
		return false
	}
	scans[ev.StudentID] = ev
	return true
}

// Pending returns the provisional scans recorded for a session.
func (b *ScanBook) Pending(key SessionKey) []models.ScanEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	scans := b.sessions[key]
	out := make([]models.ScanEvent, 0, len(scans))
	for _, ev := range scans {
		out = append(out, ev)
	}
	return out
}

// Clear drops a session's provisional scans, typically after a successful
// finalize or when the session is abandoned.
func (b *ScanBook) Clear(key SessionKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, key)
}
