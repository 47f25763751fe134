package qrsession

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClass = ClassInfo{
	Subject:  "DBMS",
	Branch:   "CS",
	Semester: 6,
	Date:     "2024-02-01",
	Type:     "Lecture",
}

func TestDecodeRoundTrip(t *testing.T) {
	now := time.Now()
	p := NewPayload(testClass, now)

	raw, err := p.Encode()
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestDecodeInvalidFormat(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{trunca"} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", raw)
	}
}

func TestDecodeMissingFields(t *testing.T) {
	fields := []string{"subject", "branch", "semester", "date", "type", "timestamp"}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			raw, err := NewPayload(testClass, time.Now()).Encode()
			require.NoError(t, err)

			var m map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &m))
			delete(m, field)
			raw, err = json.Marshal(m)
			require.NoError(t, err)

			_, err = Decode(raw)
			var missing *MissingFieldsError
			require.ErrorAs(t, err, &missing)
			assert.Contains(t, missing.Fields, field)
			assert.Contains(t, err.Error(), "invalid QR code: missing")
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestValidateFreshnessBoundary(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{"just inside window", 29999 * time.Millisecond, nil},
		{"exactly at window", 30000 * time.Millisecond, ErrExpired},
		{"just outside window", 30001 * time.Millisecond, ErrExpired},
		{"fresh", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPayload(testClass, now.Add(-tt.age))
			err := Validate(&p, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTypeDiscriminator(t *testing.T) {
	now := time.Now()

	// A fresh, field-complete payload without the faculty tag is rejected.
	p := NewPayload(testClass, now)
	p.IsFacultyGenerated = false
	assert.ErrorIs(t, Validate(&p, now), ErrInvalidType)

	// The type check wins over staleness: an expired impostor still
	// reports the type error.
	stale := NewPayload(testClass, now.Add(-time.Minute))
	stale.IsFacultyGenerated = true
	assert.ErrorIs(t, Validate(&stale, now), ErrExpired)
	stale.IsFacultyGenerated = false
	assert.ErrorIs(t, Validate(&stale, now), ErrInvalidType)
}

func TestDecodeAndValidateAbsentDiscriminator(t *testing.T) {
	// isFacultyGenerated absent entirely: rejected as the wrong type even
	// though every other field is present and fresh.
	now := time.Now()
	raw := []byte(fmt.Sprintf(
		`{"subject":"DBMS","branch":"CS","semester":6,"date":"2024-02-01","type":"Lecture","timestamp":%d,"sessionId":"x"}`,
		now.UnixMilli()))
	_, err := DecodeAndValidate(raw, now)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestReplayRejectedAfterRotation(t *testing.T) {
	t0 := time.Now()
	p1 := NewPayload(testClass, t0)
	raw, err := p1.Encode()
	require.NoError(t, err)

	// A scan 5 seconds in is accepted.
	got, err := DecodeAndValidate(raw, t0.Add(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, p1.SessionID, got.SessionID)

	// By t0+31s the encoder has rotated; a replay of the old code is
	// rejected locally before any network call.
	_, err = DecodeAndValidate(raw, t0.Add(31*time.Second))
	assert.ErrorIs(t, err, ErrExpired)

	p2 := NewPayload(testClass, t0.Add(31*time.Second))
	assert.NotEqual(t, p1.SessionID, p2.SessionID)
}
