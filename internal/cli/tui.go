package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/siteplan/pkg/pipeline"
)

// tickInterval is how often the progress view refreshes.
const tickInterval = 100 * time.Millisecond

// runFractions holds the completed fraction of each run. Runs write from
// their own goroutines; the view reads on every tick.
type runFractions []atomic.Uint64

func newRunFractions(n int) runFractions { return make(runFractions, n) }

func (f runFractions) set(run int, v float64) {
	if run >= 0 && run < len(f) {
		f[run].Store(math.Float64bits(v))
	}
}

func (f runFractions) get(run int) float64 {
	return math.Float64frombits(f[run].Load())
}

type tickMsg time.Time

type doneMsg struct {
	result *pipeline.Result
	err    error
}

// ProgressModel is the bubbletea model drawing one bar per run while an
// optimization executes.
type ProgressModel struct {
	fractions runFractions
	bar       progress.Model
	cancel    context.CancelFunc
	start     time.Time

	Result   *pipeline.Result
	Err      error
	quitting bool
}

// NewProgressModel creates a model for runs bars. cancel is called when the
// user interrupts.
func NewProgressModel(runs int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{
		fractions: newRunFractions(runs),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		cancel:    cancel,
		start:     time.Now(),
	}
}

// Report records progress for run. It never blocks.
func (m ProgressModel) Report(run int, fraction float64) {
	m.fractions.set(run, fraction)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Keep running until the runs report back; they stop at their next step.
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-24))
	case tickMsg:
		return m, tick()
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		if m.Result != nil {
			for i := range m.fractions {
				m.fractions.set(i, 1)
			}
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Optimizing"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s", time.Since(m.start).Round(100*time.Millisecond))))
	b.WriteString("\n\n")
	for i := range m.fractions {
		f := m.fractions.get(i)
		fmt.Fprintf(&b, "  %s %s %s\n",
			StyleDim.Render(fmt.Sprintf("run %2d", i+1)),
			m.bar.ViewAs(f),
			StyleNumber.Render(fmt.Sprintf("%3.0f%%", f*100)))
	}
	if m.quitting {
		b.WriteString("\n" + StyleWarning.Render("  stopping..."))
	} else {
		b.WriteString("\n" + StyleDim.Render("  q to stop"))
	}
	b.WriteString("\n")
	return b.String()
}
