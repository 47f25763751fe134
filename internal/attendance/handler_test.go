package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

type fakeStore struct {
	batches   []Batch
	exists    bool
	existsErr error
	finalErr  error
	records   []RecordRow
}

func (f *fakeStore) FinalizeBatch(_ context.Context, batch Batch, _ *uuid.UUID) error {
	if f.finalErr != nil {
		return f.finalErr
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeStore) Exists(context.Context, string, string, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) ListByDateSubject(context.Context, string, string) ([]RecordRow, error) {
	return f.records, nil
}

func (f *fakeStore) StudentSummary(context.Context, int64, string) ([]models.AttendanceRecord, error) {
	return nil, nil
}

type fakeDirectory struct {
	students map[int64]models.Student
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return &s, nil
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) BroadcastCampusEvent(kind string, _ interface{}) {
	f.events = append(f.events, kind)
}

func newTestHandler() (*Handler, *fakeStore, *fakeBroadcaster) {
	gin.SetMode(gin.TestMode)
	store := &fakeStore{}
	hub := &fakeBroadcaster{}
	dir := &fakeDirectory{students: map[int64]models.Student{
		42: {ID: 42, Name: "Asha Rao", RegistrationNumber: "CS-042", Branch: "CS", Semester: 6},
	}}
	h := NewHandler(store, dir, NewScanBook(), hub, zap.NewNop())
	return h, store, hub
}

func scanBody(t *testing.T, ts int64, studentID int64) []byte {
	t.Helper()
	body := fmt.Sprintf(
		`{"subject":"DBMS","branch":"CS","semester":6,"date":"2024-02-01","type":"Lecture","timestamp":%d,"sessionId":"DBMS-2024-02-01-%d","isFacultyGenerated":true,"studentId":%d}`,
		ts, ts, studentID)
	return []byte(body)
}

func doPost(h gin.HandlerFunc, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	h(c)
	return w
}

func TestSubmitScanAcceptsFreshPayload(t *testing.T) {
	h, _, hub := newTestHandler()

	w := doPost(h.SubmitScan, scanBody(t, time.Now().UnixMilli(), 42))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			NewScans []models.ScanEvent `json:"newScans"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.NewScans, 1)
	assert.Equal(t, int64(42), resp.Data.NewScans[0].StudentID)
	assert.Equal(t, "Asha Rao", resp.Data.NewScans[0].Name)
	assert.Equal(t, []string{"attendance_scan"}, hub.events)
}

func TestSubmitScanDeduplicatesRepeatScan(t *testing.T) {
	h, _, hub := newTestHandler()
	ts := time.Now().UnixMilli()

	doPost(h.SubmitScan, scanBody(t, ts, 42))
	w := doPost(h.SubmitScan, scanBody(t, ts, 42))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			NewScans []models.ScanEvent `json:"newScans"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.NewScans, "repeat scan is not new")
	assert.Len(t, hub.events, 1, "only the first scan is pushed")
}

func TestSubmitScanRejectsExpiredPayload(t *testing.T) {
	h, _, hub := newTestHandler()

	stale := time.Now().Add(-31 * time.Second).UnixMilli()
	w := doPost(h.SubmitScan, scanBody(t, stale, 42))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "QR code has expired")
	assert.Empty(t, hub.events)
}

func TestSubmitScanRejectsMalformedAndIncomplete(t *testing.T) {
	h, _, _ := newTestHandler()

	w := doPost(h.SubmitScan, []byte("not a payload"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid QR code format")

	w = doPost(h.SubmitScan, []byte(fmt.Sprintf(
		`{"branch":"CS","semester":6,"date":"2024-02-01","type":"Lecture","timestamp":%d,"isFacultyGenerated":true,"studentId":42}`,
		time.Now().UnixMilli())))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing subject")
}

func TestSubmitScanRejectsNonFacultyPayload(t *testing.T) {
	h, _, _ := newTestHandler()

	body := []byte(fmt.Sprintf(
		`{"subject":"DBMS","branch":"CS","semester":6,"date":"2024-02-01","type":"Lecture","timestamp":%d,"isFacultyGenerated":false,"studentId":42}`,
		time.Now().UnixMilli()))
	w := doPost(h.SubmitScan, body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid QR code type")
}

func TestSubmitScanUnknownStudent(t *testing.T) {
	h, _, _ := newTestHandler()

	w := doPost(h.SubmitScan, scanBody(t, time.Now().UnixMilli(), 999))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinalizeWritesBatchAndClearsBook(t *testing.T) {
	h, store, _ := newTestHandler()

	// Seed a provisional scan for the session being finalized.
	key := SessionKey{Subject: "DBMS", Date: "2024-02-01", ClassType: "Lecture"}
	h.book.Record(key, models.ScanEvent{StudentID: 42})
	require.Len(t, h.book.Pending(key), 1)

	body, _ := json.Marshal(Batch{
		Subject:   "DBMS",
		Date:      "2024-02-01",
		ClassType: "Lecture",
		Records: []FinalizeRecord{
			{StudentID: 42, Status: "present"},
			{StudentID: 43, Status: "absent"},
		},
	})
	w := doPost(h.Finalize, body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0].Records, 2)
	assert.Empty(t, h.book.Pending(key), "provisional scans cleared after finalize")
}

func TestFinalizeRejectsBadStatus(t *testing.T) {
	h, store, _ := newTestHandler()

	body := []byte(`{"subject":"DBMS","date":"2024-02-01","classType":"Lecture","records":[{"studentId":42,"status":"late"}]}`)
	w := doPost(h.Finalize, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.batches)
}

func TestFinalizeFailurePreservesBook(t *testing.T) {
	h, store, _ := newTestHandler()
	store.finalErr = errors.New("db down")

	key := SessionKey{Subject: "DBMS", Date: "2024-02-01", ClassType: "Lecture"}
	h.book.Record(key, models.ScanEvent{StudentID: 42})

	body := []byte(`{"subject":"DBMS","date":"2024-02-01","classType":"Lecture","records":[{"studentId":42,"status":"present"}]}`)
	w := doPost(h.Finalize, body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, h.book.Pending(key), 1, "failed finalize leaves provisional state for retry")
}

func TestCheckDegradesToFalseOnError(t *testing.T) {
	h, store, _ := newTestHandler()
	store.existsErr = errors.New("db down")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?date=2024-02-01&subject=DBMS&type=Lecture", nil)
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":false`)
}
