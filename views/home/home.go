package home

import (
	"strings"

	"wave-portal-tui/styles"

	"github.com/charmbracelet/huh"
)

// Menu values
const (
	SelectPortal   = "portal"
	SelectSettings = "settings"
	SelectLog      = "log"
	SelectQuit     = "quit"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form
func CreateForm() *huh.Form {
	TempSelection = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Wave Portal", SelectPortal),
					huh.NewOption("RPC & Contract Settings", SelectSettings),
					huh.NewOption("Toggle Log Panel", SelectLog),
					huh.NewOption("Quit", SelectQuit),
				).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return styles.TitleStyle.Render("👋 Wave Portal") + "\n\n" + form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
