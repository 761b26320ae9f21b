package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives user-facing status lines. Tests replace it.
var stdout io.Writer = os.Stdout

// Palette (256-color codes).
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text: stats, details, the spinner message.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders paths the user will want to copy.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleSuccess     = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning     = lipgloss.NewStyle().Foreground(colorAmber)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
	statsSep    = " · "
)

// printSuccess prints "✓ msg".
func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints "! msg" with the message itself highlighted.
func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a file the run wrote.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printCommand prints the compositor invocation, as run or as it would run.
func printCommand(line string) {
	fmt.Fprintln(stdout, styleCommand.Render(line))
}

// printStats prints "N tiles · CxR grid · M filler".
func printStats(tiles, columns, rows, filler int) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d tiles", tiles)),
		StyleDim.Render(fmt.Sprintf("%dx%d grid", columns, rows)),
		StyleDim.Render(fmt.Sprintf("%d filler", filler)),
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(statsSep)))
}
