package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/courtside/internal/client"
	"github.com/abelbrown/courtside/internal/feeds"
	"github.com/abelbrown/courtside/internal/otel"
)

// Defaults for Options.
const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultLoadTimeout     = 60 * time.Second
)

// Section indexes, in tab order.
const (
	SectionNews = iota
	SectionScores
	SectionSchedule
	sectionCount
)

var sectionTitles = [sectionCount]string{"Latest News", "Final Scores", "Upcoming Games"}

// Loader is the load path the App drives. *client.Loader implements it.
type Loader interface {
	Load(ctx context.Context) client.Result
	Refresh(ctx context.Context) client.Result
}

// Options configures an App.
type Options struct {
	Loader   Loader
	Guard    *client.Guard    // nil allocates one
	Interval time.Duration    // silent reload period; zero means DefaultRefreshInterval
	Timeout  time.Duration    // per load; zero means DefaultLoadTimeout
	Ring     *otel.RingBuffer // client events for the debug overlay; nil disables it
	Now      func() time.Time
}

// App is the root Bubble Tea model.
// App does not talk to the endpoint itself; loads run as commands and
// report back through Loaded.
type App struct {
	loader   Loader
	guard    *client.Guard
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	ring     *otel.RingBuffer

	result  client.Result
	loaded  bool
	section int
	cursor  [sectionCount]int
	width   int
	height  int
	ready   bool
	spinner spinner.Model
	debug   bool
}

// NewApp creates an App from opts.
func NewApp(opts Options) App {
	if opts.Guard == nil {
		opts.Guard = &client.Guard{}
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultRefreshInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoadTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StatusBarKey
	return App{
		loader:   opts.Loader,
		guard:    opts.Guard,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		now:      opts.Now,
		ring:     opts.Ring,
		spinner:  s,
	}
}

// Init starts the first load, the refresh tick and the spinner.
func (a App) Init() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	return tea.Batch(a.load(false), a.tick(), a.spinner.Tick)
}

// load returns a command that runs one load or refresh under the guard. It
// returns nil when another load is in flight; the request is dropped.
func (a App) load(refresh bool) tea.Cmd {
	if a.loader == nil || !a.guard.TryAcquire() {
		return nil
	}
	loader, guard, timeout := a.loader, a.guard, a.timeout
	return func() tea.Msg {
		defer guard.Release()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if refresh {
			return Loaded{Result: loader.Refresh(ctx), Refresh: true}
		}
		return Loaded{Result: loader.Load(ctx)}
	}
}

func (a App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return RefreshTick{}
	})
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case Loaded:
		a.result = msg.Result
		a.loaded = true
		for i := range a.cursor {
			if n := len(a.sectionItems(i)); a.cursor[i] >= n {
				a.cursor[i] = max(n-1, 0)
			}
		}
		return a, nil

	case RefreshTick:
		return a, tea.Batch(a.load(false), a.tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// Key bindings
var keys = struct {
	Quit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Jump    key.Binding
	Down    key.Binding
	Up      key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Refresh key.Binding
	Debug   key.Binding
}{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Next:    key.NewBinding(key.WithKeys("tab", "right", "l")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	Jump:    key.NewBinding(key.WithKeys("1", "2", "3")),
	Down:    key.NewBinding(key.WithKeys("j", "down")),
	Up:      key.NewBinding(key.WithKeys("k", "up")),
	Top:     key.NewBinding(key.WithKeys("g", "home")),
	Bottom:  key.NewBinding(key.WithKeys("G", "end")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Debug:   key.NewBinding(key.WithKeys("D")),
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(a.sectionItems(a.section))

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Next):
		a.section = (a.section + 1) % sectionCount
	case key.Matches(msg, keys.Prev):
		a.section = (a.section + sectionCount - 1) % sectionCount
	case key.Matches(msg, keys.Jump):
		a.section = int(msg.String()[0] - '1')

	case key.Matches(msg, keys.Down):
		if a.cursor[a.section] < n-1 {
			a.cursor[a.section]++
		}
	case key.Matches(msg, keys.Up):
		if a.cursor[a.section] > 0 {
			a.cursor[a.section]--
		}
	case key.Matches(msg, keys.Top):
		a.cursor[a.section] = 0
	case key.Matches(msg, keys.Bottom):
		if n > 0 {
			a.cursor[a.section] = n - 1
		}

	case key.Matches(msg, keys.Refresh):
		return a, a.load(true)

	case key.Matches(msg, keys.Debug):
		if a.ring != nil {
			a.debug = !a.debug
		}
	}

	return a, nil
}

func (a App) sectionItems(i int) []feeds.Item {
	switch i {
	case SectionScores:
		return a.result.Sections.Scores
	case SectionSchedule:
		return a.result.Sections.Schedule
	default:
		return a.result.Sections.News
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debug {
		return debugOverlay(a.ring, a.width, a.height-1, a.now()) + "\n" + debugStatusBar(a.width)
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	// Tabs, section header, detail line and status bar take four lines;
	// a warning takes one more.
	contentHeight := a.height - 4
	if a.result.Warning != "" {
		contentHeight--
	}

	if !a.loaded {
		b.WriteString(HelpStyle.Render(a.spinner.View() + " Loading NBA news..."))
		b.WriteString("\n")
	} else {
		b.WriteString(a.renderSection(contentHeight))
	}

	if a.result.Warning != "" {
		b.WriteString(WarningStyle.Width(a.width).Render(a.result.Warning))
		b.WriteString("\n")
	}
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for i, title := range sectionTitles {
		label := fmt.Sprintf("%d %s (%d)", i+1, title, len(a.sectionItems(i)))
		if i == a.section {
			tabs = append(tabs, ActiveTab.Render(label))
		} else {
			tabs = append(tabs, InactiveTab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (a App) renderSection(height int) string {
	var b strings.Builder
	b.WriteString(SectionHeader.Render(sectionTitles[a.section]))
	b.WriteString("\n")

	items := a.sectionItems(a.section)
	if len(items) == 0 {
		b.WriteString(HelpStyle.Render("No items to display. Press 'r' to refresh."))
		b.WriteString("\n")
		return b.String()
	}

	if height < 1 {
		height = 1
	}
	cursor := a.cursor[a.section]
	offset := 0
	if cursor >= height {
		offset = cursor - height + 1
	}

	now := a.now()
	for i := offset; i < len(items) && i < offset+height; i++ {
		b.WriteString(renderCard(items[i], i == cursor, a.width, now))
		b.WriteString("\n")
	}

	if sel := items[cursor]; sel.Link != "" {
		b.WriteString(MetaItem.Render("  " + sel.Link))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderStatusBar() string {
	var parts []string
	if a.guard.Busy() {
		parts = append(parts, a.spinner.View())
	}
	if a.result.Message != "" {
		parts = append(parts, StatusBarText.Render(a.result.Message))
	}
	if !a.result.Updated.IsZero() {
		parts = append(parts, StatusBarText.Render("Last updated: "+a.result.Updated.Local().Format(time.Kitchen)))
	}
	parts = append(parts,
		StatusBarKey.Render("r")+StatusBarText.Render(" refresh"),
		StatusBarKey.Render("tab")+StatusBarText.Render(" section"),
		StatusBarKey.Render("q")+StatusBarText.Render(" quit"),
	)
	return StatusBar.Width(a.width).Render(strings.Join(parts, "  "))
}

// Section returns the focused section index (for testing).
func (a App) Section() int {
	return a.section
}

// Cursor returns the cursor within the focused section (for testing).
func (a App) Cursor() int {
	return a.cursor[a.section]
}

// Result returns the last load result (for testing).
func (a App) Result() client.Result {
	return a.result
}
