package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

type fakeSubmitter struct {
	batches []Batch
	err     error
}

func (f *fakeSubmitter) SubmitAttendance(_ context.Context, batch Batch) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, batch)
	return nil
}

func testRoster() []models.Student {
	return []models.Student{
		{ID: 42, Name: "Asha Rao", RegistrationNumber: "CS-042", Branch: "CS", Semester: 6},
		{ID: 43, Name: "Vikram Joshi", RegistrationNumber: "CS-043", Branch: "CS", Semester: 6},
		{ID: 44, Name: "Meera Pillai", RegistrationNumber: "CS-044", Branch: "CS", Semester: 6},
	}
}

func TestPendingThenConfirmedLifecycle(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), sub)

	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})

	rows := r.Rows()
	require.Len(t, rows, 3)
	assert.True(t, rows[0].IsPresent)
	assert.True(t, rows[0].IsPending)
	assert.False(t, rows[1].IsPresent)

	require.NoError(t, r.Finalize(context.Background()))
	assert.True(t, r.Submitted())

	rows = r.Rows()
	assert.True(t, rows[0].IsPresent, "presence survives finalize")
	assert.False(t, rows[0].IsPending, "pending cleared by finalize")
}

func TestManualToggleDoesNotSetPending(t *testing.T) {
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), &fakeSubmitter{})

	require.True(t, r.Toggle(43))
	rows := r.Rows()
	assert.True(t, rows[1].IsPresent)
	assert.False(t, rows[1].IsPending, "manual edits are immediate, not provisional")

	require.True(t, r.Toggle(43))
	assert.False(t, r.Rows()[1].IsPresent)

	assert.False(t, r.Toggle(999), "unknown student")
}

func TestScanEventForUnknownOrForeignSessionIgnored(t *testing.T) {
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), &fakeSubmitter{})

	// Student not on the (possibly filtered) roster: not an error.
	r.ApplyScanEvent(models.ScanEvent{StudentID: 999, Subject: "DBMS", Date: "2024-02-01"})
	// Different subject or date: another session's event.
	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "OS", Date: "2024-02-01"})
	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-02"})

	for _, row := range r.Rows() {
		assert.False(t, row.IsPresent)
		assert.False(t, row.IsPending)
	}
}

func TestFinalizeBatchShapeAndIdempotence(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), sub)

	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	r.Toggle(44)

	require.NoError(t, r.Finalize(context.Background()))
	require.NoError(t, r.Finalize(context.Background()))

	require.Len(t, sub.batches, 2)
	assert.Equal(t, sub.batches[0], sub.batches[1], "unchanged roster resubmits the identical batch")

	batch := sub.batches[0]
	assert.Equal(t, "DBMS", batch.Subject)
	assert.Equal(t, "2024-02-01", batch.Date)
	assert.Equal(t, "Lecture", batch.ClassType)
	require.Len(t, batch.Records, 3)
	assert.Equal(t, "present", batch.Records[0].Status)
	assert.Equal(t, "absent", batch.Records[1].Status)
	assert.Equal(t, "present", batch.Records[2].Status)
}

func TestFinalizeFailureLeavesRosterUnchanged(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("network down")}
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), sub)

	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	before := r.Rows()

	err := r.Finalize(context.Background())
	require.Error(t, err)
	assert.False(t, r.Submitted())
	assert.Equal(t, before, r.Rows(), "no partial application on failure")

	// Clearing the fault lets the same call succeed on retry.
	sub.err = nil
	require.NoError(t, r.Finalize(context.Background()))
	assert.True(t, r.Submitted())
}

func TestSeedExistingRoutesUpdatePath(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), sub)

	recID := uuid.New()
	r.SeedExisting([]RecordRow{
		{StudentID: 42, Attendance: true, AttendanceID: recID},
		{StudentID: 999, Attendance: true, AttendanceID: uuid.New()}, // not on roster
	})

	rows := r.Rows()
	assert.True(t, rows[0].IsPresent)
	assert.False(t, rows[0].IsPending, "rehydrated rows are confirmed, not pending")
	require.NotNil(t, rows[0].RecordID)

	require.NoError(t, r.Finalize(context.Background()))
	require.Len(t, sub.batches, 1)
	require.NotNil(t, sub.batches[0].Records[0].AttendanceRecordID)
	assert.Equal(t, recID, *sub.batches[0].Records[0].AttendanceRecordID)
	assert.Nil(t, sub.batches[0].Records[1].AttendanceRecordID)
}

func TestLastAppliedWinsBetweenToggleAndPush(t *testing.T) {
	r := NewReconciler("DBMS", "2024-02-01", "Lecture", testRoster(), &fakeSubmitter{})

	// Push marks present, a manual uncheck afterwards wins.
	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	r.Toggle(42)
	assert.False(t, r.Rows()[0].IsPresent)

	// A later push re-marks the student; no sequencing is attempted.
	r.ApplyScanEvent(models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	assert.True(t, r.Rows()[0].IsPresent)
}
