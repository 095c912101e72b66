package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var hubTitles = map[graph.ViewMode]string{
	graph.ModeVibe:   "Vibe",
	graph.ModeArtist: "Artist",
}

// maxDetailSongs caps the song list of the detail panel.
const maxDetailSongs = 8

// =============================================================================
// ExploreModel - Interactive graph browser
// =============================================================================

// hubRow is one vibe or artist hub of the explore list.
type hubRow struct {
	Node   graph.Node
	Songs  int
	Size   float64
	Pinned bool
}

// SaveFunc persists the view state after every change.
type SaveFunc func(mode graph.ViewMode, pins graph.Positions) error

// ExploreModel is the bubbletea model of `vibegraph explore`. It lists the
// hubs of the current view, largest first, and drives a view.Controller:
// switching modes, clicking hubs and pinning them in place.
type ExploreModel struct {
	Ctrl     *view.Controller
	Rows     []hubRow
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.PlacedNode
	Err      error

	save SaveFunc
}

// NewExploreModel creates an explore model over ctrl. save may be nil.
func NewExploreModel(ctrl *view.Controller, save SaveFunc) ExploreModel {
	m := ExploreModel{Ctrl: ctrl, Height: 12, save: save}
	m.Rows = hubRows(ctrl)
	return m
}

// hubRows lists the secondary nodes of the current graph by descending
// song count, then label.
func hubRows(ctrl *view.Controller) []hubRow {
	counts := ctrl.Counts()
	size := ctrl.Sizer()
	pins := ctrl.Pins()

	var rows []hubRow
	for _, n := range ctrl.Graph().Nodes {
		if !n.IsSecondary() {
			continue
		}
		_, pinned := pins[n.ID]
		rows = append(rows, hubRow{Node: n, Songs: counts.Get(n.ID), Size: size(n.ID, n.Type), Pinned: pinned})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Songs != rows[j].Songs {
			return rows[i].Songs > rows[j].Songs
		}
		return rows[i].Node.Label < rows[j].Node.Label
	})
	return rows
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab", "m":
			m = m.setMode(m.Ctrl.Mode().Other())
		case "v":
			m = m.setMode(graph.ModeVibe)
		case "a":
			m = m.setMode(graph.ModeArtist)
		case "enter":
			m = m.click()
		case "p":
			m = m.togglePin()
		case "r":
			m.Ctrl.ClearPins()
			m = m.refresh(true)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// current returns the hub under the cursor.
func (m ExploreModel) current() (hubRow, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return hubRow{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m ExploreModel) setMode(mode graph.ViewMode) ExploreModel {
	if mode == m.Ctrl.Mode() {
		return m
	}
	if err := m.Ctrl.SetMode(mode); err != nil {
		m.Err = err
		return m
	}
	m.Cursor, m.Offset, m.Selected = 0, 0, nil
	return m.refresh(true)
}

func (m ExploreModel) click() ExploreModel {
	row, ok := m.current()
	if !ok {
		return m
	}
	pos := m.Ctrl.Layout().Positions[row.Node.ID]
	placed, err := m.Ctrl.Click(row.Node.ID, pos)
	if err != nil {
		m.Err = err
		return m
	}
	m.Selected = &placed
	return m
}

// togglePin pins the hub under the cursor at its current position, or
// releases an existing pin.
func (m ExploreModel) togglePin() ExploreModel {
	row, ok := m.current()
	if !ok {
		return m
	}
	if !m.Ctrl.Unpin(row.Node.ID) {
		pos := m.Ctrl.Layout().Positions[row.Node.ID]
		if err := m.Ctrl.DragEnd(row.Node.ID, pos); err != nil {
			m.Err = err
			return m
		}
	}
	return m.refresh(true)
}

// refresh rebuilds the rows and, when persist is set, saves the view state.
func (m ExploreModel) refresh(persist bool) ExploreModel {
	m.Rows = hubRows(m.Ctrl)
	if m.Cursor >= len(m.Rows) {
		m.Cursor = max(len(m.Rows)-1, 0)
	}
	if persist && m.save != nil {
		if err := m.save(m.Ctrl.Mode(), m.Ctrl.Pins()); err != nil {
			m.Err = fmt.Errorf("save session: %w", err)
		}
	}
	return m
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Vibegraph · %s view", m.Ctrl.Mode())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  p pin  r reset pins  tab switch view  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pin := ""
		if r.Pinned {
			pin = "pinned"
		}
		rows = append(rows, []string{cursor, swatch(r.Node.Color), r.Node.Label, fmt.Sprintf("%d", r.Songs), fmt.Sprintf("%.1f", r.Size), pin})
	}

	t := newTable(func(row, col int) lipgloss.Style {
		switch {
		case m.Offset+row == m.Cursor && col == 2:
			return listSelectedStyle
		case col == 3 || col == 4:
			return styleCount
		}
		return listNormalStyle
	}, "", "", hubTitles[m.Ctrl.Mode()], "Songs", "Size", "").Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s", m.Cursor+1, len(m.Rows), m.Ctrl)))
	b.WriteString("\n")

	if m.Selected != nil {
		b.WriteString("\n")
		b.WriteString(m.detail(*m.Selected))
	}
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// detail renders the clicked hub with the songs linked to it.
func (m ExploreModel) detail(n graph.PlacedNode) string {
	var b strings.Builder
	b.WriteString(swatch(n.Color) + " " + StyleHighlight.Render(n.Label))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s at (%.0f, %.0f)", n.Type, n.X, n.Y)))
	if n.Pinned {
		b.WriteString(listDimStyle.Render("  pinned"))
	}
	b.WriteString("\n")

	songs := m.linkedSongs(n.ID)
	for i, title := range songs {
		if i == maxDetailSongs {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("    … and %d more", len(songs)-maxDetailSongs)))
			b.WriteString("\n")
			break
		}
		b.WriteString("    " + listNormalStyle.Render(title) + "\n")
	}
	return b.String()
}

// linkedSongs returns the labels of the songs linked to a hub, sorted.
func (m ExploreModel) linkedSongs(hubID string) []string {
	var out []string
	for _, l := range m.Ctrl.Graph().Links {
		if l.Target != hubID {
			continue
		}
		if n, err := m.Ctrl.Node(l.Source); err == nil {
			out = append(out, n.Label)
		}
	}
	sort.Strings(out)
	return out
}
