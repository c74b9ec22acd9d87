package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/obsexport/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, unresolved cells
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorGray   = lipgloss.Color("245") // Gray - headers
	colorDim    = lipgloss.Color("240") // Dim gray - imported cells, muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders notebook ids and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleMarkSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleMarkInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	markSuccess = "✓"
	markWarning = "!"
	markInfo    = "›"
	markFile    = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// status prints the progress of a command for humans. It writes to the log
// output so that exports written to stdout stay byte-exact.
type status struct{ w io.Writer }

func (c *CLI) status() status { return status{w: c.stderr} }

func (s status) mark(style lipgloss.Style, mark, msg string) {
	fmt.Fprintln(s.w, style.Render(mark)+" "+msg)
}

func (s status) success(format string, args ...any) {
	s.mark(styleMarkSuccess, markSuccess, fmt.Sprintf(format, args...))
}

func (s status) warn(format string, args ...any) {
	s.mark(StyleWarning, markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (s status) info(format string, args ...any) {
	s.mark(styleMarkInfo, markInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line.
func (s status) detail(format string, args ...any) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// written reports an output file and how many bytes went into it.
func (s status) written(path string, size int, appended bool) {
	verb := "wrote"
	if appended {
		verb = "appended"
	}
	fmt.Fprintf(s.w, "  %s %s %s\n", StyleDim.Render(markFile), path,
		StyleDim.Render(fmt.Sprintf("(%s %s)", verb, formatBytes(size))))
}

// stats prints the figures of an export on one line, e.g.
// "12 cells · 2 ignored · 48.2 KB · 85ms · fresh".
func (s status) stats(st pipeline.Stats, cached bool) {
	var parts []string
	if st.CellCount > 0 {
		parts = append(parts, fmt.Sprintf("%d cells", st.CellCount))
	}
	if st.Ignored > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored", st.Ignored))
	}
	if st.SourceBytes > 0 {
		parts = append(parts, formatBytes(st.SourceBytes))
	}
	if d := st.FetchTime + st.ParseTime + st.RenderTime; d > 0 {
		parts = append(parts, d.Round(time.Millisecond).String())
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(s.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep suggests a follow-up command.
func (s status) nextStep(description, cmd string) {
	fmt.Fprintln(s.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
