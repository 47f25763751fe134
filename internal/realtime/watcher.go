package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
)

// WatcherState is the live channel connection state.
type WatcherState int

const (
	StateConnecting WatcherState = iota
	StateOpen
	StateClosed
)

func (s WatcherState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// reconnectDelay is the fixed pause before a dropped connection is
// re-dialed. No exponential growth.
const reconnectDelay = 5 * time.Second

// WatcherConn is the transport surface the watcher reads from. A gorilla
// *websocket.Conn satisfies it.
type WatcherConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// DialFunc opens a connection to the live channel.
type DialFunc func(ctx context.Context, url string) (WatcherConn, error)

// Watcher is the faculty-side live channel client: a pure receiver that
// delivers attendance scan events for one watched session. The connection
// runs Connecting -> Open -> Closed, and Closed re-dials after a fixed
// delay until Close tears the watcher down for good.
type Watcher struct {
	url     string
	subject string
	date    string
	onScan  func(models.ScanEvent)
	dial    DialFunc
	delay   time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	state  WatcherState
	closed bool
	conn   WatcherConn
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WithDial overrides the transport dialer (tests).
func WithDial(dial DialFunc) WatcherOption {
	return func(w *Watcher) { w.dial = dial }
}

// WithReconnectDelay overrides the fixed reconnect delay (tests).
func WithReconnectDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.delay = d }
}

// NewWatcher creates a watcher for one open session. Scan events whose
// subject+date do not match are another session's traffic and are dropped.
func NewWatcher(url, subject, date string, onScan func(models.ScanEvent), logger *zap.Logger, opts ...WatcherOption) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		url:     url,
		subject: subject,
		date:    date,
		onScan:  onScan,
		dial:    gorillaDial,
		delay:   reconnectDelay,
		logger:  logger,
		state:   StateClosed,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func gorillaDial(ctx context.Context, url string) (WatcherConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return conn, err
}

// Start launches the connection loop. Call Close to stop it.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		if w.isClosed() {
			return
		}
		w.setState(StateConnecting)

		conn, err := w.dial(ctx, w.url)
		if err != nil {
			w.logger.Warn("live channel dial failed", zap.Error(err))
			w.setState(StateClosed)
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			_ = conn.Close()
			return
		}
		w.conn = conn
		w.mu.Unlock()
		w.setState(StateOpen)

		w.readLoop(conn)

		_ = conn.Close()
		w.setState(StateClosed)
		if w.isClosed() {
			return
		}
		if !w.sleep(ctx) {
			return
		}
	}
}

// readLoop delivers matching scan events until the transport drops.
// A malformed message is a non-fatal notice, not a closure.
func (w *Watcher) readLoop(conn WatcherConn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !w.isClosed() {
				w.logger.Warn("live channel closed", zap.Error(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			w.logger.Warn("live channel message unreadable", zap.Error(err))
			continue
		}
		if msg.Event != "attendance_scan" {
			continue
		}
		var ev models.ScanEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			w.logger.Warn("scan event unreadable", zap.Error(err))
			continue
		}
		if ev.Subject != w.subject || ev.Date != w.date {
			continue
		}
		w.onScan(ev)
	}
}

// sleep waits the reconnect delay; false means the watcher was torn down.
func (w *Watcher) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.delay):
		return true
	}
}

// Close tears the watcher down: the connection is closed and no further
// reconnect is scheduled. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	conn := w.conn
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if cancel != nil {
		<-w.done
	}
	w.setState(StateClosed)
}

// State returns the current connection state.
func (w *Watcher) State() WatcherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watcher) setState(s WatcherState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Watcher) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
