package log

import (
	"fmt"

	"wave-portal-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Height returns the number of viewport lines the log panel uses for a
// terminal of the given height.
func Height(termHeight int) int {
	// header, nav, title and borders
	reservedHeight := 10
	availableHeight := max(5, termHeight-reservedHeight)
	return min(availableHeight, min(termHeight/3, 15))
}

// Render renders the log panel below the page content
func Render(width, height int, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	logPanelHeight := Height(height)
	vp.Height = logPanelHeight

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(max(0, width-2)).
		Height(logPanelHeight + 2) // +2 for title and spacing

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
