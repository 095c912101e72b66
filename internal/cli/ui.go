package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/vibegraph/pkg/graph"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // titles, selection
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings, dangling references
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // names and values
	colorGray   = lipgloss.Color("245") // counts, headers
	colorDim    = lipgloss.Color("240") // borders, hints
)

var (
	// StyleTitle for view titles.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for the selected node.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for the server URL.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for hints and secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for file paths and names.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCount    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSwatch  = "●"
)

// =============================================================================
// Status lines
// =============================================================================

func status(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(iconSuccess, styleIconSuccess, format, args...) }

func printError(format string, args ...any) { status(iconError, styleIconError, format, args...) }

func printInfo(format string, args ...any) { status(iconInfo, styleIconInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(iconWarning, styleIconWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// =============================================================================
// Graph output
// =============================================================================

// statsLine summarizes a build, for example
// "94 nodes · 165 links · 2 dangling · cached". Zero counts are left out.
func statsLine(nodes, links, dangling int, cached bool) string {
	var parts []string
	if nodes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodes)))
	}
	if links > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d links", links)))
	}
	if dangling > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dangling", dangling)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(nodes, links, dangling int, cached bool) {
	fmt.Println(statsLine(nodes, links, dangling, cached))
}

// maxDanglingShown caps the references listed by printDangling.
const maxDanglingShown = 5

// printDangling lists the references the build could not resolve.
func printDangling(refs []graph.DanglingRef, policy graph.DanglingPolicy) {
	if len(refs) == 0 {
		return
	}
	printWarning("%d dangling references (%s)", len(refs), policy)
	for i, d := range refs {
		if i == maxDanglingShown {
			printDetail("… and %d more", len(refs)-maxDanglingShown)
			return
		}
		printDetail("%s %s %s", d.Song, iconArrow, d.Target)
	}
}

// swatch renders a dot in a catalogue color such as "#4A90E2".
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(iconSwatch)
}

// kindStyle colors a song, artist or vibe label like its graph node.
func kindStyle(kind string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(graph.DefaultColor(graph.NodeType(kind))))
}

// newTable returns the bordered table shared by search and explore. body
// styles the data cells; the header row always uses styleHeader.
func newTable(body func(row, col int) lipgloss.Style, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return body(row, col)
		})
}
