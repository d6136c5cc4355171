package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bslcheck/internal/driver"
)

// maxRows bounds the file list; long runs show the files in flight and the
// most recently finished ones.
const maxRows = 12

type fileState uint8

const (
	stateQueued fileState = iota
	stateLoading
	stateCache
	stateAnalyzing
	stateDone
	stateCached
	stateFailed
)

func (s fileState) finished() bool {
	return s == stateDone || s == stateCached || s == stateFailed
}

// weight is the share of a file's work done in this state.
func (s fileState) weight() float64 {
	switch s {
	case stateLoading:
		return 0.1
	case stateCache:
		return 0.2
	case stateAnalyzing:
		return 0.5
	case stateDone, stateCached, stateFailed:
		return 1
	}
	return 0
}

func (s fileState) label() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateCache:
		return "cache"
	case stateAnalyzing:
		return "analyzing"
	case stateDone:
		return "done"
	case stateCached:
		return "cached"
	case stateFailed:
		return "error"
	}
	return "queued"
}

type fileItem struct {
	path     string
	state    fileState
	findings int
	elapsed  time.Duration
	// seq orders finished files for the scrolling window.
	seq int
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int
	finished int
	findings int
	cached   int
	failed   int
	width    int
	done     bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file analysis
// progress. Модель завершается, когда канал events закрыт.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// анализ не прерываем, только перестаём рисовать
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = "done: " + m.title
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const stateWidth = 10
	const findingsWidth = 14
	nameWidth := m.width - stateWidth - findingsWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, i := range m.visibleRows() {
		item := m.items[i]
		state := styleState(item.state).Render(fmt.Sprintf("%*s", stateWidth, item.state.label()))
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			state,
			runewidth.FillRight(truncate(item.path, nameWidth), nameWidth),
			findingsLabel(item)))
	}
	if hidden := len(m.items) - len(m.visibleRows()); hidden > 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("  … %d more file(s)", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	return b.String()
}

// summary: "3/10 files, 7 diagnostics, 2 cached, 1 failed".
func (m *progressModel) summary() string {
	parts := []string{
		fmt.Sprintf("%d/%d files", m.finished, len(m.items)),
		fmt.Sprintf("%d diagnostics", m.findings),
	}
	if m.cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", m.cached))
	}
	if m.failed > 0 {
		parts = append(parts, styleState(stateFailed).Render(fmt.Sprintf("%d failed", m.failed)))
	}
	return strings.Join(parts, ", ")
}

// visibleRows returns item indexes to draw: everything in flight first, then
// the latest finished files, capped at maxRows and kept in list order.
func (m *progressModel) visibleRows() []int {
	if len(m.items) <= maxRows {
		rows := make([]int, len(m.items))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	picked := make(map[int]bool, maxRows)
	for i, item := range m.items {
		if len(picked) == maxRows {
			break
		}
		if !item.state.finished() && item.state != stateQueued {
			picked[i] = true
		}
	}
	for len(picked) < maxRows {
		best, bestSeq := -1, 0
		for i, item := range m.items {
			if picked[i] || !item.state.finished() {
				continue
			}
			if item.seq > bestSeq {
				best, bestSeq = i, item.seq
			}
		}
		if best < 0 {
			break
		}
		picked[best] = true
	}
	for i := range m.items {
		if len(picked) == maxRows {
			break
		}
		picked[i] = true
	}
	rows := make([]int, 0, len(picked))
	for i := range m.items {
		if picked[i] {
			rows = append(rows, i)
		}
	}
	return rows
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.state.finished() {
		return nil
	}
	next := stateFor(ev.Stage, ev.Status)
	item.state = next
	if next.finished() {
		m.finished++
		item.seq = m.finished
		item.elapsed = ev.Elapsed
		item.findings = ev.Diagnostics
		m.findings += ev.Diagnostics
		switch next {
		case stateCached:
			m.cached++
		case stateFailed:
			m.failed++
		}
	}

	total := 0.0
	for _, it := range m.items {
		total += it.state.weight()
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func stateFor(stage driver.Stage, status driver.Status) fileState {
	switch status {
	case driver.StatusDone:
		if stage == driver.StageCache {
			return stateCached
		}
		return stateDone
	case driver.StatusError:
		return stateFailed
	case driver.StatusWorking:
		switch stage {
		case driver.StageLoad:
			return stateLoading
		case driver.StageCache:
			return stateCache
		case driver.StageAnalyze:
			return stateAnalyzing
		}
	}
	return stateQueued
}

func findingsLabel(item fileItem) string {
	if !item.state.finished() || item.state == stateFailed {
		return ""
	}
	ms := float64(item.elapsed) / float64(time.Millisecond)
	if item.findings == 0 {
		return lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("clean %.0fms", ms))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("%d found %.0fms", item.findings, ms))
}

func styleState(s fileState) lipgloss.Style {
	switch s {
	case stateDone, stateCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case stateFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case stateLoading, stateCache, stateAnalyzing:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
