package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "JSONL event log viewer",
	Long: `Print the tail of the event log written by 'courtside serve' when
log.events_file is set.

Examples:
  courtside events --tail 20
  courtside events --kind adapter. --level warn
  courtside events -f --comp server`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().String("file", "", "event log path (default log.events_file)")
	eventsCmd.Flags().Int("tail", 50, "number of recent lines to show")
	eventsCmd.Flags().BoolP("follow", "f", false, "follow mode (like tail -f)")
	eventsCmd.Flags().String("kind", "", "filter by event kind prefix (e.g. 'adapter.')")
	eventsCmd.Flags().String("level", "", "minimum level: debug, info, warn, error")
	eventsCmd.Flags().String("comp", "", "filter by component name")
	eventsCmd.Flags().String("source", "", "filter by adapter name")
	eventsCmd.Flags().Bool("json", false, "output raw JSON lines")
}

// eventRecord mirrors otel.Event for decoding. Decoding into a local type
// keeps the viewer working across schema changes.
type eventRecord struct {
	Time   time.Time `json:"t"`
	Level  string    `json:"level"`
	Kind   string    `json:"kind"`
	Comp   string    `json:"comp"`
	RunID  string    `json:"run"`
	DurMs  float64   `json:"dur_ms"`
	Count  int       `json:"count"`
	Source string    `json:"source"`
	Status int       `json:"status"`
	Err    string    `json:"err"`
	Msg    string    `json:"msg"`
}

// eventFilter selects records for display.
type eventFilter struct {
	kind, level, comp, source string
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < levelRank(f.level) {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.source != "" && ev.Source != f.source {
		return false
	}
	return true
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func formatEvent(ev eventRecord) string {
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-24s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Msg != "" {
		parts = append(parts, ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Source != "" {
		parts = append(parts, fmt.Sprintf("src=%q", ev.Source))
	}
	if ev.Status > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", ev.Status))
	}
	if ev.RunID != "" {
		parts = append(parts, "run="+ev.RunID)
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}

func runEvents(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	tail, _ := flags.GetInt("tail")
	follow, _ := flags.GetBool("follow")
	rawJSON, _ := flags.GetBool("json")
	var filter eventFilter
	filter.kind, _ = flags.GetString("kind")
	filter.level, _ = flags.GetString("level")
	filter.comp, _ = flags.GetString("comp")
	filter.source, _ = flags.GetString("source")

	if path == "" {
		path = os.ExpandEnv(cfg.Log.EventsFile)
	}
	if path == "" {
		return errors.New("no event log: set log.events_file or pass --file")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("event log not found at %s (run 'courtside serve' with log.events_file set): %w", path, err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	emit := func(l parsedLine) {
		if rawJSON {
			fmt.Fprintln(out, string(l.raw))
			return
		}
		fmt.Fprintln(out, formatEvent(l.ev))
	}

	reader := bufio.NewReader(f)
	for _, l := range readTailLines(reader, tail, filter.match) {
		emit(l)
	}
	if !follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pending []byte
	for {
		line, err := reader.ReadBytes('\n')
		pending = append(pending, line...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if l, ok := parseLine(pending); ok && filter.match(l.ev) {
			emit(l)
		}
		pending = pending[:0]
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

func parseLine(b []byte) (parsedLine, bool) {
	b = trimLine(b)
	if len(b) == 0 {
		return parsedLine{}, false
	}
	var ev eventRecord
	if json.Unmarshal(b, &ev) != nil {
		return parsedLine{}, false
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return parsedLine{ev: ev, raw: raw}, true
}

// readTailLines reads r to EOF and returns the last n lines matching the
// filter. A trailing line without a newline is consumed.
func readTailLines(r *bufio.Reader, n int, match func(eventRecord) bool) []parsedLine {
	if n <= 0 {
		n = 1
	}
	ring := make([]parsedLine, 0, n)
	for {
		line, err := r.ReadBytes('\n')
		if l, ok := parseLine(line); ok && match(l.ev) {
			if len(ring) < n {
				ring = append(ring, l)
			} else {
				copy(ring, ring[1:])
				ring[n-1] = l
			}
		}
		if err != nil {
			return ring
		}
	}
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
