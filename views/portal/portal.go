// Package portal renders the wave page: greeting, wave and connect buttons,
// the message input and the wave history list.
package portal

import (
	"fmt"
	"strings"
	"time"

	"wave-portal-tui/helpers"
	"wave-portal-tui/history"
	"wave-portal-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Focus is the control that receives Enter.
type Focus int

const (
	FocusWave Focus = iota
	FocusConnect
	FocusMessage
)

// Next cycles focus forward.
func (f Focus) Next() Focus {
	return (f + 1) % 3
}

// Prev cycles focus backward.
func (f Focus) Prev() Focus {
	return (f + 2) % 3
}

// Props is everything the page needs from the controller.
type Props struct {
	Width         int
	Focus         Focus
	Connected     bool
	Connecting    bool
	Waving        bool
	Spinner       string
	Input         string
	Total         string
	HistoryLen    int
	HistoryLoaded bool
	LoadedAt      time.Time
	Live          bool
	Polling       bool
	CopiedMsg     string
}

var (
	buttonStyle       = styles.ButtonStyle.MarginRight(2)
	activeButtonStyle = styles.ActiveButtonStyle.MarginRight(2)
	connectedStyle    = styles.ConnectedButtonStyle.MarginRight(2)
)

// Render renders the page above the history list.
func Render(p Props, historyView string) string {
	header := lipgloss.NewStyle().Bold(true).Render("👋 " + helpers.FadeString("WELCOME!", styles.WaveFadeFrom, styles.WaveFadeTo))
	bio := lipgloss.NewStyle().Foreground(styles.CMuted).
		Render("Connect your Ethereum wallet and send a 👋 (wave) ✨")

	waveLabel := "Wave at Me"
	if p.Waving {
		waveLabel = p.Spinner + " Mining…"
	}
	wave := buttonStyle.Render(waveLabel)
	if p.Focus == FocusWave {
		wave = activeButtonStyle.Render(waveLabel)
	}

	var connect string
	switch {
	case p.Connected:
		connect = connectedStyle.Render("Wallet Connected")
	case p.Connecting:
		connect = buttonStyle.Render(p.Spinner + " Connecting…")
	case p.Focus == FocusConnect:
		connect = activeButtonStyle.Render("Connect Wallet")
	default:
		connect = buttonStyle.Render("Connect Wallet")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, wave, connect)

	inputBox := styles.PanelStyle.
		Padding(0, 1).
		Width(max(20, min(p.Width-8, 72)))
	if p.Focus == FocusMessage {
		inputBox = inputBox.BorderForeground(styles.CAccent2)
	}

	stats := lipgloss.NewStyle().Foreground(styles.CMuted).Render(statusLine(p))
	if p.CopiedMsg != "" {
		stats += "   " + lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(p.CopiedMsg)
	}

	return strings.Join([]string{
		header,
		bio,
		"",
		buttons,
		inputBox.Render(p.Input),
		stats,
		"",
		historyView,
	}, "\n")
}

func statusLine(p Props) string {
	parts := []string{"Total waves: " + p.Total}
	if p.HistoryLoaded {
		parts = append(parts, fmt.Sprintf("%d in history (loaded %s)", p.HistoryLen, helpers.LoadedAt(p.LoadedAt, false)))
	} else {
		parts = append(parts, "history not loaded")
	}
	switch {
	case p.Live && p.Polling:
		parts = append(parts, "live (polling)")
	case p.Live:
		parts = append(parts, "live")
	}
	return strings.Join(parts, " • ")
}

// RenderHistory renders records newest first as address/time/message blocks.
func RenderHistory(records []history.Record, width int) string {
	if len(records) == 0 {
		return lipgloss.NewStyle().Foreground(styles.CMuted).Render("No waves yet.")
	}

	card := styles.WaveCardStyle.Width(max(20, width-4))
	label := lipgloss.NewStyle().Foreground(styles.CMuted)
	value := lipgloss.NewStyle().Foreground(styles.CText)

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		msg := r.Message
		if msg == "" {
			msg = "(no message)"
		}
		blocks = append(blocks, card.Render(strings.Join([]string{
			label.Render("Address: ") + lipgloss.NewStyle().Foreground(styles.CAccent2).Render(r.Address),
			label.Render("Time:    ") + value.Render(helpers.WaveTime(r.Timestamp)),
			label.Render("Message: ") + value.Render(msg),
		}, "\n")))
	}
	return strings.Join(blocks, "\n")
}

// Nav returns the navigation bar for the wave page
func Nav(width int, focus Focus) string {
	var keys []string
	if focus == FocusMessage {
		keys = []string{
			styles.Key("Enter") + " wave",
			styles.Key("Tab") + " next",
			styles.Key("Esc") + " leave input",
		}
	} else {
		keys = []string{
			styles.Key("Tab") + " focus",
			styles.Key("Enter") + " press",
			styles.Key("w") + " wave",
			styles.Key("c") + " connect",
			styles.Key("i") + " message",
			styles.Key("r") + " reload",
			styles.Key("y") + " copy addr",
			styles.Key("↑/↓") + " scroll",
			styles.Key("s") + " settings",
			styles.Key("h") + " menu",
			styles.Key("l") + " log",
			styles.Key("q") + " quit",
		}
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}
