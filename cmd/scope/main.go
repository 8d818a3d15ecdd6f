// Terminal live-traffic viewer.
// Polls a running flighttrack server and renders the current flight list
// as a table, for quick checks without opening the map UI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ucasa/flighttrack/pkg/model"
)

var (
	serverURL = flag.String("server", "http://localhost:8000", "flighttrack server base URL")
	bbox      = flag.String("bbox", "", "Optional bounding box: minLat,minLon,maxLat,maxLon")
	interval  = flag.Duration("interval", 10*time.Second, "Poll interval")
	maxRows   = flag.Int("rows", 30, "Maximum table rows to display")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	groundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type flightsMsg struct {
	flights []model.FlightState
	err     error
}

type tickMsg time.Time

type scopeModel struct {
	client   *http.Client
	flights  []model.FlightState
	lastPoll time.Time
	err      error
}

func tick() tea.Cmd {
	return tea.Tick(*interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m scopeModel) fetch() tea.Cmd {
	return func() tea.Msg {
		url := *serverURL + "/api/flights"
		if *bbox != "" {
			url += "?bbox=" + *bbox
		}

		resp, err := m.client.Get(url)
		if err != nil {
			return flightsMsg{err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return flightsMsg{err: fmt.Errorf("server returned status %d", resp.StatusCode)}
		}

		var parsed struct {
			Count   int                 `json:"count"`
			Flights []model.FlightState `json:"flights"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return flightsMsg{err: err}
		}
		return flightsMsg{flights: parsed.Flights}
	}
}

func (m scopeModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func (m scopeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}

	case tickMsg:
		return m, tea.Batch(m.fetch(), tick())

	case flightsMsg:
		m.lastPoll = time.Now()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.flights = msg.flights
		// Fastest traffic first
		sort.Slice(m.flights, func(i, j int) bool {
			return m.flights[i].Velocity > m.flights[j].Velocity
		})
	}
	return m, nil
}

func (m scopeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("✈  FLIGHT SCOPE"))
	b.WriteString(fmt.Sprintf("  %d aircraft", len(m.flights)))
	if !m.lastPoll.IsZero() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  (updated %s)", m.lastPoll.Format("15:04:05"))))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("⚠ %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s %-9s %9s %10s %7s %6s %5s",
		"ICAO24", "CALLSIGN", "LAT", "LON", "ALT", "SPD", "TRK")))
	b.WriteString("\n")

	rows := m.flights
	if len(rows) > *maxRows {
		rows = rows[:*maxRows]
	}
	for _, f := range rows {
		callsign := f.Callsign
		if callsign == "" {
			callsign = "-"
		}
		line := fmt.Sprintf("%-8s %-9s %9.4f %10.4f %7.0f %6.0f %5.0f",
			f.ICAO24, callsign, f.Latitude, f.Longitude, f.BaroAltitude, f.Velocity, f.TrueTrack)
		if f.OnGround {
			line = groundStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.flights) > *maxRows {
		b.WriteString(helpStyle.Render(fmt.Sprintf("… %d more\n", len(m.flights)-*maxRows)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r: refresh  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func main() {
	flag.Parse()

	m := scopeModel{
		client: &http.Client{Timeout: 15 * time.Second},
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
