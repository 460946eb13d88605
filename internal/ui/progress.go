// Package ui renders crawl progress with Bubble Tea.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"codecrawl/internal/crawler"
)

const (
	statusQueued    = "queued"
	statusTesting   = "testing"
	statusOK        = "ok"
	statusFaults    = "faults"
	statusBroken    = "broken"
	statusCancelled = "cancelled"
)

type progressModel struct {
	title     string
	events    <-chan crawler.Event
	spinner   spinner.Model
	prog      progress.Model
	items     []typeItem
	index     map[string]int
	faults    int
	width     int
	done      bool
	cancelled bool
	aborted   bool
}

type typeItem struct {
	name   string
	status string
	member string
	faults int
}

type eventMsg crawler.Event
type doneMsg struct{}

// NewProgressModel returns a model that tracks one row per type.
// It quits when events is closed.
func NewProgressModel(title string, types []string, events <-chan crawler.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]typeItem, 0, len(types))
	index := make(map[string]int, len(types))
	for i, name := range types {
		items = append(items, typeItem{name: name, status: statusQueued})
		index[name] = i
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
		cmd := m.applyEvent(crawler.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
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
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d faults)", m.title, m.faults)
	switch {
	case m.cancelled:
		header = "cancelled: " + header
	case m.done:
		header = "done: " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, item := range m.items {
		name := item.name
		if item.status == statusTesting && item.member != "" {
			name += "." + item.member
		}
		label := item.status
		if item.status == statusFaults {
			label = fmt.Sprintf("%d faults", item.faults)
		}
		b.WriteString("  ")
		b.WriteString(styleStatus(item.status).Render(fmt.Sprintf("%10s", label)))
		b.WriteString(" ")
		b.WriteString(truncate(name, nameWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(m.percent()))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
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

func (m *progressModel) applyEvent(ev crawler.Event) tea.Cmd {
	if ev.Kind == crawler.EventCancelled {
		m.cancelled = true
		for i := range m.items {
			if m.items[i].status == statusQueued || m.items[i].status == statusTesting {
				m.items[i].status = statusCancelled
			}
		}
		return nil
	}
	idx, ok := m.index[ev.Type]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	switch ev.Kind {
	case crawler.EventTypeBegin, crawler.EventInstanceCreated:
		item.status = statusTesting
	case crawler.EventMemberBegin:
		item.member = ev.Member
	case crawler.EventFault:
		m.faults++
		item.faults++
		if ev.Member == "" {
			item.status = statusBroken
		}
	case crawler.EventTypeEnd:
		item.member = ""
		switch {
		case item.status == statusBroken:
		case item.faults > 0:
			item.status = statusFaults
		default:
			item.status = statusOK
		}
		return m.prog.SetPercent(m.percent())
	}
	return nil
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 1
	}
	finished := 0
	for _, item := range m.items {
		switch item.status {
		case statusOK, statusFaults, statusBroken:
			finished++
		}
	}
	return float64(finished) / float64(len(m.items))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case statusOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case statusFaults, statusBroken:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case statusTesting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case statusCancelled:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// Aborted reports whether the user quit the UI before the crawl finished.
func Aborted(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.aborted
}
