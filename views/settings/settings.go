package settings

import (
	"fmt"
	"strings"

	"wave-portal-tui/config"
	"wave-portal-tui/helpers"
	"wave-portal-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Settings modes
const (
	ModeList     = "list"
	ModeAdd      = "add"
	ModeEdit     = "edit"
	ModeContract = "contract"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode != ModeList {
		left = strings.Join([]string{
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("w") + " wallet/contract",
			styles.Key("h") + " home",
			styles.Key("l") + " log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC endpoint list followed by the wallet and contract
// settings.
func Render(cfg config.Config, selectedIdx int) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)
	lines := []string{styles.TitleStyle.Render("RPC Settings"), ""}

	if len(cfg.RPCURLs) == 0 {
		lines = append(lines, muted.Render("No RPC URLs configured."))
		lines = append(lines, "")
		lines = append(lines, muted.Render("Press ")+styles.Key("a")+muted.Render(" to add your first RPC URL."))
	} else {
		lines = append(lines, muted.Render("Configured RPC Endpoints:"))
		lines = append(lines, "")

		for i, rpc := range cfg.RPCURLs {
			var marker string
			if rpc.Active {
				marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			} else {
				marker = muted.Render("○ ")
			}

			nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
			urlStyle := muted

			if i == selectedIdx {
				nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
				urlStyle = urlStyle.Background(styles.CPanel)
				marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
			}

			lines = append(lines, marker+nameStyle.Render(rpc.Name))
			lines = append(lines, "  "+urlStyle.Render(rpc.URL))
			lines = append(lines, "")
		}
	}

	lines = append(lines, styles.TitleStyle.Render("Wallet & Contract"), "")
	lines = append(lines, row("Wallet RPC", orNone(cfg.WalletRPCURL)))
	lines = append(lines, row("Keystore", orNone(cfg.KeystoreDir)))
	lines = append(lines, row("Contract", helpers.ShortenAddr(cfg.ContractAddress)))
	lines = append(lines, row("Gas limit", fmt.Sprintf("%d", cfg.GasLimit)))
	lines = append(lines, row("Poll every", fmt.Sprintf("%ds", cfg.PollSeconds)))

	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	l := lipgloss.NewStyle().Foreground(styles.CMuted).Width(12).Render(label)
	return l + lipgloss.NewStyle().Foreground(styles.CText).Render(value)
}

func orNone(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
