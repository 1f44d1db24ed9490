package styles

import "github.com/charmbracelet/lipgloss"

// Theme colors
var (
	CBg      = lipgloss.Color("#0B0F14") // near-black
	CPanel   = lipgloss.Color("#0F1720") // slightly lighter
	CBorder  = lipgloss.Color("#874BFD")
	CMuted   = lipgloss.Color("#8AA0B6")
	CText    = lipgloss.Color("#D6E2F0")
	CAccent  = lipgloss.Color("#7EE787") // green-ish
	CAccent2 = lipgloss.Color("#79C0FF") // blue-ish
	CWarn    = lipgloss.Color("#FFA657") // orange
	CError   = lipgloss.Color("#FF0000")

	// wave palette
	CWave       = lipgloss.Color("#F25D94") // pink, focused buttons
	CButton     = lipgloss.Color("#888B7E")
	CButtonText = lipgloss.Color("#FFF7DB")
	CConnected  = lipgloss.Color("#2F7D4A")
)

// Gradient endpoints for helpers.FadeString
const (
	WaveFadeFrom  = "#F25D94"
	WaveFadeTo    = "#EDFF82"
	TitleFadeFrom = "#7EE787"
	TitleFadeTo   = "#82CFFD"
)

// Shared styles
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)

	HotkeyKeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)

	// ButtonStyle is an idle button on the wave page and in dialogs
	ButtonStyle = lipgloss.NewStyle().
			Foreground(CButtonText).
			Background(CButton).
			Padding(0, 3)

	ActiveButtonStyle = ButtonStyle.
				Background(CWave).
				Underline(true)

	ConnectedButtonStyle = ButtonStyle.
				Background(CConnected)

	// WaveCardStyle frames one entry of the wave history
	WaveCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(CWave).
			PaddingLeft(1)
)

// Key renders a key with accent styling
func Key(s string) string {
	return HotkeyKeyStyle.Render(s)
}
