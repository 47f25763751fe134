package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

type fakeConn struct {
	msgs   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		msgs:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.msgs:
		return 1, msg, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) push(t *testing.T, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(WSMessage{Event: event, Data: data})
	require.NoError(t, err)
	c.msgs <- raw
}

// scriptedDialer hands out fake connections and counts dials.
type scriptedDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (d *scriptedDialer) dial(context.Context, string) (WatcherConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := newFakeConn()
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *scriptedDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *scriptedDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

func newTestWatcher(t *testing.T, d *scriptedDialer) (*Watcher, *[]models.ScanEvent, *sync.Mutex) {
	t.Helper()
	var mu sync.Mutex
	var got []models.ScanEvent
	w := NewWatcher("ws://example/ws", "DBMS", "2024-02-01", func(ev models.ScanEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}, nil, WithDial(d.dial), WithReconnectDelay(10*time.Millisecond))
	return w, &got, &mu
}

func waitState(t *testing.T, w *Watcher, want WatcherState) {
	t.Helper()
	require.Eventually(t, func() bool { return w.State() == want },
		time.Second, time.Millisecond, "state never reached %s", want)
}

func TestWatcherDeliversOnlyMatchingScanEvents(t *testing.T) {
	d := &scriptedDialer{}
	w, got, mu := newTestWatcher(t, d)
	w.Start()
	defer w.Close()
	waitState(t, w, StateOpen)

	conn := d.conn(0)
	conn.push(t, "attendance_scan", models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	conn.push(t, "attendance_scan", models.ScanEvent{StudentID: 43, Subject: "OS", Date: "2024-02-01"})
	conn.push(t, "attendance_scan", models.ScanEvent{StudentID: 44, Subject: "DBMS", Date: "2024-02-09"})
	conn.push(t, "notification", map[string]string{"title": "holiday"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(*got) == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	assert.Equal(t, int64(42), (*got)[0].StudentID)
	mu.Unlock()
}

func TestWatcherMalformedMessageIsNonFatal(t *testing.T) {
	d := &scriptedDialer{}
	w, got, mu := newTestWatcher(t, d)
	w.Start()
	defer w.Close()
	waitState(t, w, StateOpen)

	conn := d.conn(0)
	conn.msgs <- []byte("{garbage")
	conn.push(t, "attendance_scan", models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(*got) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, StateOpen, w.State(), "a bad message does not close the channel")
}

func TestWatcherReconnectsAfterTransportDrop(t *testing.T) {
	d := &scriptedDialer{}
	w, got, mu := newTestWatcher(t, d)
	w.Start()
	defer w.Close()
	waitState(t, w, StateOpen)

	// Drop the transport: the watcher schedules a reconnect and comes back.
	d.conn(0).Close()
	require.Eventually(t, func() bool { return d.count() >= 2 }, time.Second, time.Millisecond)
	waitState(t, w, StateOpen)

	// The new connection delivers events as before.
	d.conn(d.count()-1).push(t, "attendance_scan", models.ScanEvent{StudentID: 42, Subject: "DBMS", Date: "2024-02-01"})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(*got) == 1
	}, time.Second, time.Millisecond)
}

func TestWatcherCloseStopsReconnects(t *testing.T) {
	d := &scriptedDialer{}
	w, _, _ := newTestWatcher(t, d)
	w.Start()
	waitState(t, w, StateOpen)

	w.Close()
	assert.Equal(t, StateClosed, w.State())

	dials := d.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, dials, d.count(), "no reconnect after deliberate teardown")

	// Closing again is a no-op.
	w.Close()
}
