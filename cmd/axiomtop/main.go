// Command axiomtop is a terminal dashboard over a running axiomd's HTTP
// control plane: a second, human-facing consumer of the same /api routes
// an autonomous caller uses, never touching world state directly. Grounded
// on go-mclib-client's tui.TUI (bubbletea Model with a polling Init/Update
// loop, lipgloss panel styling, a scrolling log viewport).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = 500 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "axiomd base address")
	flag.Parse()

	m := newModel(*addr)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("axiomtop:", err)
	}
}

type model struct {
	client *apiClient

	state     map[string]any
	perf      map[string]any
	events    []eventView
	lastErr   error
	afterSeq  uint64
	width     int
	height    int
}

func newModel(addr string) model {
	return model{client: newAPIClient(addr)}
}

func (m model) Init() tea.Cmd {
	return m.poll()
}

// pollMsg carries one refresh cycle's results back into Update.
type pollMsg struct {
	state  map[string]any
	perf   map[string]any
	events []eventView
	err    error
}

type eventView struct {
	Sequence uint64 `json:"sequence"`
	Name     string `json:"name"`
	Frame    uint64 `json:"frame"`
}

func (m model) poll() tea.Cmd {
	client, after := m.client, m.afterSeq
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		state, err := client.getJSON("/api/state")
		if err != nil {
			return pollMsg{err: err}
		}
		perf, err := client.getJSON("/api/perf")
		if err != nil {
			return pollMsg{err: err}
		}
		events, err := client.getEvents(after)
		if err != nil {
			return pollMsg{err: err}
		}
		return pollMsg{state: state, perf: perf, events: events}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case pollMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, m.poll()
		}
		m.lastErr = nil
		m.state = msg.state
		m.perf = msg.perf
		if len(msg.events) > 0 {
			m.events = append(m.events, msg.events...)
			if len(m.events) > 200 {
				m.events = m.events[len(m.events)-200:]
			}
			m.afterSeq = m.events[len(m.events)-1].Sequence
		}
		return m, m.poll()
	}
	return m, nil
}

func (m model) View() string {
	title := titleStyle.Render("axiomtop")

	var state strings.Builder
	for _, k := range []string{"frame", "entity_count", "command_depth"} {
		state.WriteString(labelStyle.Render(k+": ") + valueStyle.Render(fmt.Sprint(m.state[k])) + "\n")
	}
	statePanel := panelStyle.Render("state\n" + strings.TrimRight(state.String(), "\n"))

	var perf strings.Builder
	for _, k := range []string{"entity_count", "events_dropped"} {
		perf.WriteString(labelStyle.Render(k+": ") + valueStyle.Render(fmt.Sprint(m.perf[k])) + "\n")
	}
	perfPanel := panelStyle.Render("perf\n" + strings.TrimRight(perf.String(), "\n"))

	var events strings.Builder
	start := 0
	if len(m.events) > 12 {
		start = len(m.events) - 12
	}
	for _, e := range m.events[start:] {
		events.WriteString(fmt.Sprintf("#%d f=%d %s\n", e.Sequence, e.Frame, e.Name))
	}
	eventsPanel := panelStyle.Render("events\n" + strings.TrimRight(events.String(), "\n"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, statePanel, perfPanel)

	out := title + "\n" + body + "\n" + eventsPanel
	if m.lastErr != nil {
		out += "\n" + errStyle.Render("poll error: "+m.lastErr.Error())
	}
	return out + "\n" + labelStyle.Render("q/esc: quit")
}

// apiClient is a minimal HTTP client over axiomd's control plane, kept
// separate from the bubbletea model so it can be swapped in tests.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{base: base, http: &http.Client{Timeout: 2 * time.Second}}
}

func (c *apiClient) getJSON(path string) (map[string]any, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) getEvents(after uint64) ([]eventView, error) {
	url := fmt.Sprintf("%s/api/events?after=%d", c.base, after)
	resp, err := c.http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out []eventView
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
