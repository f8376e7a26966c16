package otel

// Goroutine safety:
// The drain goroutine is the sole reader of l.ch and the sole writer to l.w.
// Emit may run from any goroutine, including concurrently with Close.

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// writerChanSize is the capacity of the async write channel.
const writerChanSize = 4096

// Logger serializes events as JSONL via an async background writer.
// It implements Sink. Events that cannot be queued are counted, not blocked on.
type Logger struct {
	sessionID string
	ch        chan []byte
	w         io.Writer
	dropped   atomic.Uint64 // full channel, encode failure or write error
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		sessionID: NewSessionID(),
		ch:        make(chan []byte, writerChanSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger creates a Logger that discards output.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// NewSessionID returns 16 random hex characters.
func NewSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (l *Logger) drain() {
	defer close(l.done)
	for line := range l.ch {
		if _, err := l.w.Write(line); err != nil {
			l.dropped.Add(1)
		}
	}
}

// Emit queues e for writing. Sets Time (if zero) and SessionID.
// A send racing Close is recovered and counted as dropped.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	select {
	case l.ch <- data:
	default:
		l.dropped.Add(1)
	}
}

// SessionID returns the process-wide session identifier.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Close flushes pending events and stops the drain goroutine. It returns the
// number of dropped events. Safe to call more than once.
func (l *Logger) Close() uint64 {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done
	})
	return l.dropped.Load()
}

// Info emits an info-level event on s.
func Info(s Sink, kind EventKind, comp, msg string) {
	s.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event on s.
func Warn(s Sink, kind EventKind, comp, msg string) {
	s.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event on s. A nil err logs an empty Err.
func Error(s Sink, kind EventKind, comp string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: msg})
}
