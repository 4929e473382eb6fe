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

	"crust/internal/pipeline"
)

// stageInfo описывает, как стадия выглядит в списке файлов.
type stageInfo struct {
	label    string
	fraction float64
}

var stageTable = map[pipeline.Stage]stageInfo{
	pipeline.StageLex:     {"lexing", 0.1},
	pipeline.StageParse:   {"parsing", 0.3},
	pipeline.StageResolve: {"resolving", 0.6},
	pipeline.StageRun:     {"running", 0.9},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

const statusWidth = 10

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	bar        progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type fileItem struct {
	path    string
	status  string
	stage   pipeline.Stage
	elapsed time.Duration
}

func (it fileItem) finished() bool {
	return it.status == string(pipeline.StatusDone) || it.status == string(pipeline.StatusError)
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file pipeline progress.
// The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: string(pipeline.StatusQueued)}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
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
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-16, 20)
	for _, item := range m.items {
		fmt.Fprintf(&b, "  %s %s", statusStyle(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status)), truncate(item.path, nameWidth))
		if item.finished() && item.elapsed > 0 {
			b.WriteString(countStyle.Render(fmt.Sprintf("  %.1f ms", float64(item.elapsed)/float64(time.Millisecond))))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) header() string {
	title := m.title
	if m.stageLabel != "" {
		title = fmt.Sprintf("%s (%s)", title, m.stageLabel)
	}
	if m.done {
		title = "done: " + title
	} else {
		title = m.spinner.View() + " " + title
	}
	finished, failed := 0, 0
	for _, item := range m.items {
		if item.finished() {
			finished++
		}
		if item.status == string(pipeline.StatusError) {
			failed++
		}
	}
	counts := fmt.Sprintf(" %d/%d", finished, len(m.items))
	if failed > 0 {
		counts += fmt.Sprintf(", %d failed", failed)
	}
	return titleStyle.Render(title) + countStyle.Render(counts)
}

// next ждёт следующее событие; закрытый канал завершает модель.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.stageLabel = label
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = label
	item.stage = ev.Stage
	if ev.Elapsed > 0 {
		item.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

// percent: done/error считаются завершёнными, остальные по текущей стадии.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.finished() {
			total++
			continue
		}
		total += stageTable[item.stage].fraction
	}
	return total / float64(len(m.items))
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued, pipeline.StatusDone, pipeline.StatusError:
		return string(status)
	case pipeline.StatusWorking:
		return stageTable[stage].label
	}
	return ""
}

func statusStyle(status string) lipgloss.Style {
	switch pipeline.Status(status) {
	case pipeline.StatusDone:
		return doneStyle
	case pipeline.StatusError:
		return errorStyle
	case pipeline.StatusQueued:
		return queuedStyle
	}
	return workingStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
