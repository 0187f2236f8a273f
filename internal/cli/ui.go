package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/energy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleValid     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleViolation = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconBest    = "★"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented, dimmed detail line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Layout Display
// =============================================================================

// statusLabel renders the VALID / VIOLATIONS badge for a report.
func statusLabel(r audit.Report) string {
	if r.Valid {
		return styleValid.Render("VALID")
	}
	return styleViolation.Render(fmt.Sprintf("VIOLATIONS: %d", r.Total))
}

// printStats prints layout statistics on a single line.
func printStats(buildings int, area, energy float64, best bool) {
	parts := []string{
		fmt.Sprintf("%d buildings", buildings),
		fmt.Sprintf("area %g", area),
		fmt.Sprintf("energy %.1f", energy),
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if best {
		line += " " + StyleSuccess.Render(iconBest)
	}
	fmt.Println(line)
}

// violationTable formats violations as a bordered table.
func violationTable(vs []audit.Violation, w energy.Weights) string {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		ids := make([]string, 0, 2)
		for _, id := range v.BuildingIDs() {
			ids = append(ids, fmt.Sprintf("#%d", id))
		}
		detail := ""
		if p, ok := v.(audit.Proximity); ok {
			detail = fmt.Sprintf("%.2fm", p.Distance)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			string(v.Kind()),
			strings.Join(ids, ", "),
			detail,
			fmt.Sprintf("%g", w.Penalty(v)),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Buildings", "Distance", "Penalty").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// printBreakdown prints the energy terms of a layout.
func printBreakdown(b energy.Breakdown) {
	for _, k := range audit.Kinds {
		if p, ok := b.Penalties[k]; ok {
			printKeyValue(string(k), StyleNumber.Render(fmt.Sprintf("%g", p)))
		}
	}
	printKeyValue("area reward", StyleNumber.Render(fmt.Sprintf("-%g", b.AreaReward)))
	printKeyValue("energy", StyleNumber.Render(fmt.Sprintf("%.1f", b.Total)))
}
