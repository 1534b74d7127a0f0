package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
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

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
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

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleIndex   = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleCell    = lipgloss.NewStyle().Width(10)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconSkipped = "–"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
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
// Run Report
// =============================================================================

// printReport prints one line per transition that did not simply complete,
// followed by a summary.
func printReport(r *pipeline.Report) {
	for _, t := range r.Transitions {
		idx := styleIndex.Render(fmt.Sprintf("%06d", t.Index))
		switch t.Status {
		case pipeline.StatusFailed:
			fmt.Println(styleIconError.Render(iconError) + " " + idx + StyleError.Render(string(errors.GetCode(t.Err))))
			printDetail("%s", errors.UserMessage(t.Err))
		case pipeline.StatusSkipped:
			fmt.Println(StyleDim.Render(iconSkipped) + " " + idx + StyleDim.Render("claimed by another worker"))
		case pipeline.StatusCanceled:
			fmt.Println(styleIconWarning.Render(iconWarning) + " " + idx + StyleWarning.Render("interrupted"))
		}
	}

	summary := fmt.Sprintf("%s complete · %s failed · %s skipped · %s frames rendered",
		StyleNumber.Render(strconv.Itoa(r.Count(pipeline.StatusComplete))),
		StyleNumber.Render(strconv.Itoa(r.Failed())),
		StyleNumber.Render(strconv.Itoa(r.Count(pipeline.StatusSkipped))),
		StyleNumber.Render(strconv.Itoa(r.Rendered())))
	if r.Failed() > 0 {
		printError("%s", summary)
		return
	}
	printSuccess("%s", summary)
}

// =============================================================================
// Status Table
// =============================================================================

// printStatus prints the rows of the status command. Complete transitions
// are only listed when all is set.
func printStatus(rows []transitionStatus, frames int, all bool) {
	var complete, partial, corrupt, absent int
	for _, r := range rows {
		switch {
		case r.complete(frames):
			complete++
			if !all {
				continue
			}
		case r.checkpoint == checkpoint.Corrupt:
			corrupt++
		case r.checkpoint == checkpoint.Absent && r.frames == 0:
			absent++
			if !all {
				continue
			}
		default:
			partial++
		}
		fmt.Println(statusLine(r, frames))
	}

	printKeyValue("Complete", strconv.Itoa(complete))
	printKeyValue("Partial", strconv.Itoa(partial))
	printKeyValue("Not started", strconv.Itoa(absent))
	printKeyValue("Corrupt", strconv.Itoa(corrupt))
	if corrupt > 0 {
		printWarning("corrupt checkpoints block their transitions")
		printNextStep("Clear them with", "stackmotion reset <index>")
	}
}

func statusLine(r transitionStatus, frames int) string {
	icon := styleIconInfo.Render(iconInfo)
	state := StyleDim.Render(r.checkpoint.String())
	switch {
	case r.complete(frames):
		icon = styleIconSuccess.Render(iconSuccess)
		state = StyleSuccess.Render(r.checkpoint.String())
	case r.checkpoint == checkpoint.Corrupt:
		icon = styleIconError.Render(iconError)
		state = StyleError.Render(r.checkpoint.String())
	}
	return icon + " " + styleIndex.Render(fmt.Sprintf("%06d", r.index)) +
		styleCell.Render(state) + StyleDim.Render(fmt.Sprintf("%d/%d frames", r.frames, frames))
}
