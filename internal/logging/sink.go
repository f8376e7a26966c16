package logging

import (
	"github.com/charmbracelet/log"

	"github.com/abelbrown/courtside/internal/otel"
)

// sink renders otel events as log lines.
type sink struct {
	l *log.Logger
}

// Sink returns an otel.Sink that writes each event to l. Debug-level events
// and events without a level are logged at debug.
func Sink(l *log.Logger) otel.Sink {
	return sink{l: l}
}

func (s sink) Emit(e otel.Event) {
	kv := make([]any, 0, 16)
	if e.Comp != "" {
		kv = append(kv, "comp", e.Comp)
	}
	if e.Source != "" {
		kv = append(kv, "source", e.Source)
	}
	if e.RunID != "" {
		kv = append(kv, "run", e.RunID)
	}
	if e.Count != 0 {
		kv = append(kv, "count", e.Count)
	}
	if e.Dur > 0 {
		kv = append(kv, "dur", e.Dur)
	}
	if e.Status != 0 {
		kv = append(kv, "status", e.Status)
	}
	if e.Err != "" {
		kv = append(kv, "err", e.Err)
	}
	for k, v := range e.Extra {
		kv = append(kv, k, v)
	}

	msg := string(e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	s.l.Log(levelOf(e.Level), msg, kv...)
}

func levelOf(l otel.Level) log.Level {
	switch l {
	case otel.LevelInfo:
		return log.InfoLevel
	case otel.LevelWarn:
		return log.WarnLevel
	case otel.LevelError:
		return log.ErrorLevel
	default:
		return log.DebugLevel
	}
}
