package qrsession

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderEmitsImmediatelyAndRotates(t *testing.T) {
	var mu sync.Mutex
	var emitted []Payload

	// Fake clock stepping one second per call so consecutive session IDs
	// always differ.
	base := time.Now()
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	enc := NewEncoder(testClass, func(p Payload) {
		mu.Lock()
		emitted = append(emitted, p)
		mu.Unlock()
	}, nil, WithInterval(10*time.Millisecond), WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		enc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(emitted) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("encoder did not stop on context cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	seen := make(map[string]bool)
	for _, p := range emitted {
		assert.True(t, p.IsFacultyGenerated)
		assert.Equal(t, testClass, p.ClassInfo)
		assert.False(t, seen[p.SessionID], "session id %q repeated", p.SessionID)
		seen[p.SessionID] = true
	}
}

func TestEncoderStopsEmittingAfterCancel(t *testing.T) {
	var mu sync.Mutex
	count := 0

	enc := NewEncoder(testClass, func(Payload) {
		mu.Lock()
		count++
		mu.Unlock()
	}, nil, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		enc.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 2
	}, time.Second, time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	afterCancel := count
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, afterCancel, count, "emissions continued after cancel")
	mu.Unlock()
}

func TestPayloadPNG(t *testing.T) {
	p := NewPayload(testClass, time.Now())
	png, err := p.PNG(256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
