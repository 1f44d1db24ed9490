package main

import (
	"strings"

	"wave-portal-tui/config"
	"wave-portal-tui/helpers"
	"wave-portal-tui/rpc"
	"wave-portal-tui/styles"
	"wave-portal-tui/views/home"
	logview "wave-portal-tui/views/log"
	"wave-portal-tui/views/portal"
	"wave-portal-tui/views/settings"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

var (
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 0).
			BorderTop(true).
			BorderLeft(true).
			BorderRight(true).
			BorderBottom(true)

	dialogButtonStyle = styles.ButtonStyle.MarginTop(1)

	dialogActiveButtonStyle = styles.ActiveButtonStyle.
				MarginTop(1).
				MarginRight(2)

	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Foreground(styles.CError).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
)

func (m *model) renderRPCDeleteDialog() string {
	msg := helpers.FadeString("Are you sure you want to delete the RPC endpoint "+m.deleteRPCDialogName+"?", styles.WaveFadeFrom, styles.WaveFadeTo)
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)

	var okButton, cancelButton string
	if m.deleteRPCDialogYesSelected {
		okButton = dialogActiveButtonStyle.Render("Yes")
		cancelButton = dialogButtonStyle.Render("No")
	} else {
		okButton = dialogButtonStyle.MarginRight(2).Render("Yes")
		cancelButton = dialogActiveButtonStyle.MarginRight(0).Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, buttons)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
	)
}

// renderAlertDialog is the modal shown when there is no wallet to talk to
func (m *model) renderAlertDialog() string {
	msg := helpers.FadeString(m.alertMsg, styles.WaveFadeFrom, styles.WaveFadeTo)
	body := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(
		lipgloss.NewStyle().Bold(true).Render(msg) + "\n\n" +
			hintStyle.Render("Set a wallet RPC URL or keystore in Settings (s → w)"),
	)
	button := dialogActiveButtonStyle.MarginRight(0).Render("OK")
	ui := lipgloss.JoinVertical(lipgloss.Center, body, button)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		dialogBoxStyle.Render(ui),
	)
}

func (m *model) renderPassphraseDialog() string {
	content := panelStyle.
		BorderForeground(cAccent2).
		Width(min(60, max(0, m.w-4))).
		Render(m.passForm.View() + "\n" + key("Enter") + " unlock   " + key("Esc") + " cancel")

	return appStyle.Render(lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		content,
	))
}

func (m *model) renderTxResultContent() string {
	content := styles.TitleStyle.Render("Wave Mined 👋") + "\n\n"

	if m.txResultError != "" {
		content = styles.TitleStyle.Render("Wave Failed") + "\n\n"
		content += errorStyle.Render("Error: "+m.txResultError) + "\n\n"
		content += "Transaction: " + m.txResultHash.Hex()
		content += "\n\n" + hintStyle.Render("Press ESC or Enter to close")
		return content
	}

	target := m.txResultURL
	if target == "" {
		target = m.txResultHash.Hex()
	}
	content += rpc.GenerateQRCode(target) + "\n"
	content += okStyle.Render("Transaction:") + "\n\n" + m.txResultHash.Hex()
	if m.txResultURL != "" {
		content += "\n" + hintStyle.Render(m.txResultURL)
	}
	content += "\n\n" + hintStyle.Render("Scan the QR code to open the transaction")
	content += "\n" + hintStyle.Render("Press y to copy the hash • ESC or Enter to close")

	if m.txCopiedMsg != "" {
		content += "\n" + okStyle.Render(m.txCopiedMsg)
	}
	return content
}

func (m *model) renderTxResultPanel() string {
	contentWidth := max(0, m.w-8)
	centeredContent := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(m.renderTxResultContent())
	content := panelStyle.Width(max(0, m.w-4)).Render(centeredContent)
	return appStyle.Render(lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		content,
	))
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // panel padding

	var addrDisplay string
	if m.account != zeroAddr {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.account.Hex()), styles.WaveFadeFrom, styles.WaveFadeTo))
		if m.balance != nil {
			addrDisplay += hotkeyStyle.Render("  " + helpers.FormatETH(m.balance) + " ETH")
		}
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: " + m.state.String())
	}

	var statusIcon, statusText string
	var statusColor lipgloss.Color

	switch {
	case m.rpcURL == "" && !m.rpcConnected:
		statusIcon, statusColor, statusText = "○", lipgloss.Color("#c01c28"), "No RPC"
	case m.rpcConnecting:
		statusIcon, statusColor, statusText = "○", lipgloss.Color("#c01c28"), "Connecting..."
	case !m.rpcConnected:
		statusIcon, statusColor, statusText = "○", lipgloss.Color("#c01c28"), "Connection Failed"
	default:
		statusIcon, statusColor, statusText = "●", cAccent, m.chainLabel()
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("wave portal", styles.TitleFadeFrom, styles.TitleFadeTo))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Account | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = addrDisplay +
			strings.Repeat(" ", max(1, leftPadding)) +
			titleText +
			strings.Repeat(" ", max(1, rightPadding)) +
			rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

func (m *model) portalProps() portal.Props {
	return portal.Props{
		Width:         max(0, m.w-6),
		Focus:         m.focus,
		Connected:     m.state == stateConnected,
		Connecting:    m.state == stateConnecting,
		Waving:        m.waving,
		Spinner:       m.spin.View(),
		Input:         m.input.View(),
		Total:         helpers.FormatCount(m.pendingTotal()),
		HistoryLen:    m.store.Len(),
		HistoryLoaded: m.historyLoaded,
		LoadedAt:      m.loadedAt,
		Live:          m.sub != nil,
		Polling:       m.sub != nil && m.sub.Polling(),
		CopiedMsg:     m.copiedMsg,
	}
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.showAlert {
		return m.renderAlertDialog()
	}
	if m.passForm != nil {
		return m.renderPassphraseDialog()
	}
	if m.showTxResultPanel {
		return m.renderTxResultPanel()
	}

	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent, nav string

	switch m.activePage {
	case config.PageHome:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(home.Render(m.homeForm))
		nav = home.Nav(m.w - 2)

	case config.PageSettings:
		if m.showRPCDeleteDialog {
			return m.renderRPCDeleteDialog()
		}
		settingsContent := settings.Render(m.cfg, m.selectedRPCIdx)
		if m.form != nil {
			title := "RPC Settings"
			if m.settingsMode == settings.ModeContract {
				title = "Wallet & Contract"
			}
			settingsContent = styles.TitleStyle.Render(title) + "\n\n" + m.form.View()
		}
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(settingsContent)
		nav = settings.Nav(m.w-2, m.settingsMode)

	default:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(portal.Render(m.portalProps(), m.historyVP.View()))
		nav = portal.Nav(m.w-2, m.focus)
	}

	sections := []string{headerPanel, pageContent, nav}
	if m.logEnabled {
		sections = append(sections, logview.Render(m.w, m.h, m.logViewport))
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func key(s string) string {
	return hotkeyKeyStyle.Render(s)
}
