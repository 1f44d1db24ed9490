package main

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"wave-portal-tui/config"
	"wave-portal-tui/contract"
	"wave-portal-tui/helpers"
	"wave-portal-tui/history"
	"wave-portal-tui/rpc"
	"wave-portal-tui/views/home"
	logview "wave-portal-tui/views/log"
	"wave-portal-tui/views/portal"
	"wave-portal-tui/views/settings"
	"wave-portal-tui/wallet"

	waveerr "wave-portal-tui/pkg/errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempRPCFormName  string
	tempRPCFormURL   string
	tempPassphrase   string
	tempWalletURL    string
	tempKeystoreDir  string
	tempContractAddr string
	tempGasLimit     string
)

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("Sepolia (Alchemy)"),

			huh.NewInput().
				Title("RPC URL").
				Description("wss:// endpoints push new waves, https:// endpoints are polled").
				Value(&tempRPCFormURL).
				Placeholder("wss://eth-sepolia.g.alchemy.com/v2/..."),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createEditRPCForm(idx int) {
	if idx < 0 || idx >= len(m.cfg.RPCURLs) {
		return
	}

	r := m.cfg.RPCURLs[idx]
	tempRPCFormName = r.Name
	tempRPCFormURL = r.URL

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Value(&tempRPCFormName).
				Placeholder("My Node"),

			huh.NewInput().
				Title("RPC URL").
				Value(&tempRPCFormURL).
				Placeholder("wss://..."),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createContractForm() {
	tempWalletURL = m.cfg.WalletRPCURL
	tempKeystoreDir = m.cfg.KeystoreDir
	tempContractAddr = m.cfg.ContractAddress
	tempGasLimit = strconv.FormatUint(m.cfg.GasLimit, 10)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Wallet RPC URL").
				Description("EIP-1193 wallet endpoint (Frame, dev node). Applies on restart").
				Value(&tempWalletURL).
				Placeholder("http://127.0.0.1:1248"),

			huh.NewInput().
				Title("Keystore directory").
				Description("Used when no wallet RPC URL is set. Applies on restart").
				Value(&tempKeystoreDir).
				Placeholder("~/.ethereum/keystore"),

			huh.NewInput().
				Title("WavePortal contract").
				Value(&tempContractAddr).
				Placeholder(contract.DefaultAddress).
				Validate(func(s string) error {
					if !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Gas limit").
				Description("Gas ceiling attached to every wave").
				Value(&tempGasLimit).
				Validate(func(s string) error {
					v, err := config.ParseGasLimit(strings.TrimSpace(s))
					if err != nil || v == 0 {
						return fmt.Errorf("gas limit must be a positive integer")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createPassphraseForm() {
	tempPassphrase = ""

	m.passForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Unlock keystore").
				Description("Passphrase for the first keystore account").
				EchoMode(huh.EchoModePassword).
				Value(&tempPassphrase),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.passForm.Init()
}

// saveConfig persists the current configuration
func (m *model) saveConfig() {
	if m.configPath == "" {
		return
	}
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", fmt.Sprintf("Saving config failed: %v", err))
	}
}

// isAppMsg reports messages that must reach the main switch even while a
// form has the keyboard.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case rpcConnectedMsg, authorizedMsg, accountsRequestedMsg, balanceMsg,
		historyLoadedMsg, subscribedMsg, newWaveMsg, subscriptionErrMsg,
		waveSubmittedMsg, waveMinedMsg, waveCountMsg,
		clipboardCopiedMsg, clearClipboardMsg, spinner.TickMsg, tea.WindowSizeMsg:
		return true
	}
	return false
}

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Forms get the keyboard first
	if m.passForm != nil && !isAppMsg(msg) {
		return m, m.updatePassphraseForm(msg)
	}
	if m.activePage == config.PageHome && m.homeForm != nil && !isAppMsg(msg) {
		return m, m.updateHomeForm(msg)
	}
	if m.activePage == config.PageSettings && m.form != nil && !isAppMsg(msg) {
		return m, m.updateSettingsForm(msg)
	}

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.layout()
		return m, nil

	case rpcConnectedMsg:
		return m, m.handleRPCConnected(msg)

	case authorizedMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Checking authorized accounts failed: %v", msg.err))
			return m, nil
		}
		if len(msg.accounts) == 0 {
			m.addLog("info", "No authorized account found")
			return m, nil
		}
		m.account = msg.accounts[0]
		m.state = stateConnected
		m.autoLoad = true
		m.addLog("success", fmt.Sprintf("Found an authorized account: `%s`", m.account.Hex()))
		return m, tea.Batch(fetchBalance(m.provider, m.account), m.startHistoryLoad())

	case accountsRequestedMsg:
		if msg.err != nil {
			m.state = stateDisconnected
			switch {
			case errors.Is(msg.err, waveerr.ErrProviderUnavailable):
				m.openAlert("Get a wallet!")
				m.addLog("error", "Wallet provider is unavailable")
			case errors.Is(msg.err, waveerr.ErrUserRejected):
				m.addLog("warning", "Connection request rejected in wallet")
			default:
				m.addLog("error", fmt.Sprintf("Connecting wallet failed: %v", msg.err))
			}
			return m, nil
		}
		if len(msg.accounts) == 0 {
			m.state = stateDisconnected
			m.addLog("warning", "Wallet returned no accounts")
			return m, nil
		}
		m.account = msg.accounts[0]
		m.state = stateConnected
		m.addLog("success", fmt.Sprintf("Connected: `%s`", m.account.Hex()))
		return m, tea.Batch(fetchBalance(m.provider, m.account), m.startLiveStream())

	case balanceMsg:
		if msg.err != nil {
			m.addLog("warning", fmt.Sprintf("Reading balance failed: %v", msg.err))
			return m, nil
		}
		if msg.account == m.account {
			m.balance = msg.wei
		}
		return m, nil

	case historyLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.historyLoading = false
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Loading wave history failed: %v", msg.err))
			return m, nil
		}
		m.store.ReplaceAll(msg.records)
		m.historyLoaded = true
		m.loadedAt = time.Now()
		m.pinnedBlock = msg.block
		m.total = msg.total
		m.refreshHistoryView()
		m.addLog("success", fmt.Sprintf("Loaded %d waves at block %d", len(msg.records), msg.block))
		if m.sub == nil && !m.subscribing && m.portal != nil {
			m.subscribing = true
			return m, subscribeWaves(m.portal, msg.block+1, m.gen)
		}
		return m, nil

	case subscribedMsg:
		if msg.gen != m.gen {
			if msg.sub != nil {
				msg.feed.close()
				msg.sub.Unsubscribe()
			}
			return m, nil
		}
		m.subscribing = false
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Subscribing to NewWave failed: %v", msg.err))
			return m, nil
		}
		if m.quitting || m.sub != nil {
			msg.feed.close()
			msg.sub.Unsubscribe()
			return m, nil
		}
		m.sub, m.feed = msg.sub, msg.feed
		if !m.historyLoaded && msg.start > 0 {
			m.pinnedBlock = msg.start - 1
		}
		mode := "push"
		if m.sub.Polling() {
			mode = "polling"
		}
		m.addLog("info", fmt.Sprintf("Listening for NewWave events from block %d (%s)", m.pinnedBlock+1, mode))
		return m, tea.Batch(waitForWave(m.feed), waitForSubErr(m.sub, m.feed))

	case newWaveMsg:
		if msg.feed != m.feed || m.feed == nil {
			return m, nil
		}
		ev := msg.ev
		if ev.Raw.BlockNumber != 0 && ev.Raw.BlockNumber <= m.pinnedBlock {
			m.addLog("debug", fmt.Sprintf("Skipping NewWave from block %d, already in history", ev.Raw.BlockNumber))
			return m, waitForWave(m.feed)
		}
		rec := history.NewRecord(ev.From.Hex(), ev.Timestamp, ev.Message)
		m.store.Append(rec)
		m.refreshHistoryView()
		m.addLog("info", fmt.Sprintf("NewWave from `%s`: %q", helpers.ShortenAddr(rec.Address), rec.Message))
		return m, waitForWave(m.feed)

	case subscriptionErrMsg:
		if msg.feed != m.feed || m.feed == nil {
			return m, nil
		}
		m.addLog("error", fmt.Sprintf("Live updates: %v (press r to reload)", msg.err))
		return m, waitForSubErr(m.sub, m.feed)

	case waveSubmittedMsg:
		if msg.err != nil {
			m.waving = false
			if errors.Is(msg.err, waveerr.ErrUserRejected) {
				m.addLog("warning", "Wave rejected in wallet")
			} else {
				m.addLog("error", fmt.Sprintf("Wave failed: %v", msg.err))
			}
			return m, nil
		}
		m.addLog("info", fmt.Sprintf("Retrieved total wave count... %s", helpers.FormatCount(msg.before)))
		m.addLog("info", fmt.Sprintf("Mining... %s", msg.tx.Hash().Hex()))
		if tx := msg.tx.Transaction(); tx != nil {
			m.addLog("debug", fmt.Sprintf("Sent nonce %d with gas limit %d", tx.Nonce(), tx.Gas()))
		}
		m.txResultHash = msg.tx.Hash()
		return m, waitMined(msg.tx)

	case waveMinedMsg:
		m.waving = false
		m.txResultHash = msg.hash
		m.txResultURL = rpc.ExplorerTxURL(m.chainID, msg.hash)
		m.showTxResultPanel = true
		if msg.err != nil {
			m.txResultError = msg.err.Error()
			m.addLog("error", fmt.Sprintf("Wave transaction %s failed: %v", contract.ShortHash(msg.hash), msg.err))
			return m, nil
		}
		m.txResultError = ""
		m.addLog("success", fmt.Sprintf("Mined -- %s", msg.hash.Hex()))
		if msg.receipt != nil && msg.receipt.BlockNumber != nil {
			m.addLog("debug", fmt.Sprintf("Included in block %s, gas used %d", msg.receipt.BlockNumber, msg.receipt.GasUsed))
		}
		if m.portal == nil {
			return m, nil
		}
		return m, fetchWaveCount(m.portal)

	case waveCountMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Reading wave count failed: %v", msg.err))
			return m, nil
		}
		m.total = msg.total
		m.addLog("info", fmt.Sprintf("Retrieved total wave count... %s", helpers.FormatCount(msg.total)))
		return m, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.addLog("error", fmt.Sprintf("Copy to clipboard failed: %v", msg.err))
			return m, nil
		}
		if msg.what == "hash" {
			m.txCopiedMsg = "✓ Copied to clipboard"
			m.txCopiedMsgTime = time.Now()
		} else {
			m.copiedMsg = "✓ Copied address to clipboard"
			m.copiedMsgTime = time.Now()
		}
		m.addLog("info", "Copied "+msg.what+" to clipboard")
		return m, clearClipboard()

	case clearClipboardMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		if time.Since(m.txCopiedMsgTime) >= 2*time.Second {
			m.txCopiedMsg = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.activePage == config.PagePortal && !m.showTxResultPanel && !m.showAlert {
			var cmd tea.Cmd
			m.historyVP, cmd = m.historyVP.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	default:
		if m.focus == portal.FocusMessage {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// busy reports whether anything on screen is spinning
func (m *model) busy() bool {
	return m.waving || m.rpcConnecting || m.state == stateConnecting
}

// layout sizes the viewports for the current window
func (m *model) layout() {
	m.logViewport.Width = max(0, m.w-6)
	m.logViewport.Height = logview.Height(m.h)

	// header panel, greeting, buttons, input and status lines, nav
	reserved := 22
	if m.logEnabled {
		reserved += m.logViewport.Height + 4
	}
	m.historyVP.Width = max(0, m.w-6)
	m.historyVP.Height = max(3, m.h-reserved)
	m.refreshHistoryView()
	m.updateLogViewport()
}

func (m *model) openAlert(msg string) {
	m.showAlert = true
	m.alertMsg = msg
}

// handleRPCConnected binds the contract to a freshly dialed chain
func (m *model) handleRPCConnected(msg rpcConnectedMsg) tea.Cmd {
	m.rpcConnecting = false
	if msg.err != nil {
		m.rpcConnected = false
		m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
		return nil
	}

	if m.chain != nil && m.chain != msg.client {
		m.chain.Close()
	}
	m.chain = msg.client
	m.chainID = msg.client.ChainID
	m.rpcConnected = true
	m.addLog("success", fmt.Sprintf("RPC connected to `%s` (chain id %s)", msg.client.URL, msg.client.ChainID))

	if ks, ok := m.provider.(*wallet.KeystoreProvider); ok {
		ks.SetBalanceReader(msg.client)
	}
	return m.bindContract()
}

// bindContract points the controller at the configured contract on the
// current chain, restarting history and the live stream when connected.
func (m *model) bindContract() tea.Cmd {
	if m.chain == nil {
		return nil
	}
	hadHistory := m.historyLoaded
	m.teardown()
	m.historyLoaded = false
	m.historyLoading = false

	c, err := contract.New(m.cfg.ContractAddress, m.contractABI, m.chain.Client, &contract.Options{
		GasLimit:     m.cfg.GasLimit,
		PollInterval: m.cfg.PollInterval(),
	})
	if err != nil {
		m.portal = nil
		m.addLog("error", fmt.Sprintf("Binding WavePortal contract failed: %v", err))
		return nil
	}
	m.portal = contractPortal{Client: c, forcePoll: !rpc.SupportsPush(m.chain.URL)}
	m.addLog("info", fmt.Sprintf("WavePortal at `%s` (gas limit %d)", c.Address().Hex(), c.GasLimit()))

	if m.state != stateConnected {
		return nil
	}
	cmds := []tea.Cmd{fetchBalance(m.provider, m.account)}
	if m.autoLoad || hadHistory {
		cmds = append(cmds, m.startHistoryLoad())
	} else {
		cmds = append(cmds, m.startLiveStream())
	}
	return tea.Batch(cmds...)
}

// -------------------- FORMS --------------------

func (m *model) updatePassphraseForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.cancelPassphrase()
		return nil
	}

	form, cmd := m.passForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.passForm = f

		if m.passForm.State == huh.StateCompleted {
			m.passphrase.put(tempPassphrase)
			tempPassphrase = ""
			m.passForm = nil
			m.addLog("info", "Unlocking keystore account…")
			return tea.Batch(requestAccounts(m.provider), m.spin.Tick)
		}

		if m.passForm.State == huh.StateAborted {
			m.cancelPassphrase()
			return nil
		}
	}
	return cmd
}

func (m *model) cancelPassphrase() {
	m.passForm = nil
	tempPassphrase = ""
	if m.passphrase != nil {
		m.passphrase.clear()
	}
	m.state = stateDisconnected
	m.addLog("warning", "Keystore unlock cancelled")
}

func (m *model) updateHomeForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.homeForm = nil
		m.activePage = config.PagePortal
		return nil
	}

	form, cmd := m.homeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.homeForm = f

		if m.homeForm.State == huh.StateCompleted {
			m.homeForm = nil
			switch home.TempSelection {
			case home.SelectSettings:
				m.activePage = config.PageSettings
				m.settingsMode = settings.ModeList
			case home.SelectLog:
				m.activePage = config.PagePortal
				m.toggleLog()
			case home.SelectQuit:
				return m.quit()
			default:
				m.activePage = config.PagePortal
			}
			return nil
		}

		if m.homeForm.State == huh.StateAborted {
			m.homeForm = nil
			m.activePage = config.PagePortal
			return nil
		}
	}
	return cmd
}

func (m *model) updateSettingsForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.settingsMode = settings.ModeList
		m.form = nil
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f

		if m.form.State == huh.StateCompleted {
			mode := m.settingsMode
			m.settingsMode = settings.ModeList
			m.form = nil
			return m.applySettingsForm(mode)
		}

		if m.form.State == huh.StateAborted {
			m.settingsMode = settings.ModeList
			m.form = nil
			return nil
		}
	}
	return cmd
}

func (m *model) applySettingsForm(mode string) tea.Cmd {
	name := strings.TrimSpace(tempRPCFormName)
	url := strings.TrimSpace(tempRPCFormURL)

	switch mode {
	case settings.ModeAdd:
		if name == "" || url == "" {
			return nil
		}
		existing := make([]string, 0, len(m.cfg.RPCURLs))
		for _, r := range m.cfg.RPCURLs {
			existing = append(existing, r.URL)
		}
		if helpers.Contains(existing, url) {
			m.addLog("warning", fmt.Sprintf("RPC endpoint `%s` already exists", url))
			return nil
		}
		m.cfg.RPCURLs = append(m.cfg.RPCURLs, config.RPCUrl{Name: name, URL: url})
		m.saveConfig()
		m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", name, url))

	case settings.ModeEdit:
		if m.selectedRPCIdx < 0 || m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
			return nil
		}
		m.cfg.RPCURLs[m.selectedRPCIdx].Name = name
		m.cfg.RPCURLs[m.selectedRPCIdx].URL = url
		m.saveConfig()
		m.addLog("success", fmt.Sprintf("Updated RPC endpoint: `%s`", name))

	case settings.ModeContract:
		gas, _ := config.ParseGasLimit(strings.TrimSpace(tempGasLimit))
		addr := common.HexToAddress(strings.TrimSpace(tempContractAddr)).Hex()
		rebind := addr != m.cfg.ContractAddress || gas != m.cfg.GasLimit

		m.cfg.WalletRPCURL = strings.TrimSpace(tempWalletURL)
		m.cfg.KeystoreDir = strings.TrimSpace(tempKeystoreDir)
		m.cfg.ContractAddress = addr
		m.cfg.GasLimit = gas
		m.saveConfig()
		m.addLog("success", "Saved wallet and contract settings")
		if rebind {
			return m.bindContract()
		}
	}
	return nil
}

// -------------------- KEYS --------------------

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Alert dialog swallows everything until dismissed
	if m.showAlert {
		switch msg.String() {
		case "enter", "esc", " ":
			m.showAlert = false
		case "ctrl+c":
			return m.quit()
		}
		return nil
	}

	// Transaction result panel
	if m.showTxResultPanel {
		switch msg.String() {
		case "y":
			return copyToClipboard("hash", m.txResultHash.Hex())
		case "esc", "enter":
			m.showTxResultPanel = false
			m.txResultError = ""
			m.txResultURL = ""
			m.txCopiedMsg = ""
		case "ctrl+c":
			return m.quit()
		}
		return nil
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if !m.textInputActive() {
		switch msg.String() {
		case "q":
			return m.quit()

		case "l", "L":
			m.toggleLog()
			return nil

		case "pgup", "pgdown":
			if m.logEnabled {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return cmd
			}
		}
	}

	switch m.activePage {
	case config.PagePortal:
		return m.handlePortalKey(msg)
	case config.PageSettings:
		return m.handleSettingsKey(msg)
	}
	return nil
}

func (m *model) quit() tea.Cmd {
	m.quitting = true
	m.teardown()
	return tea.Quit
}

func (m *model) toggleLog() {
	m.logEnabled = !m.logEnabled
	m.cfg.Logger = m.logEnabled
	m.saveConfig()
	m.layout()
}

func (m *model) setFocus(f portal.Focus) {
	m.focus = f
	if f == portal.FocusMessage {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) handlePortalKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == portal.FocusMessage {
		switch msg.String() {
		case "esc":
			m.setFocus(portal.FocusWave)
			return nil
		case "tab":
			m.setFocus(m.focus.Next())
			return nil
		case "shift+tab":
			m.setFocus(m.focus.Prev())
			return nil
		case "enter":
			return m.startWave()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "tab":
		m.setFocus(m.focus.Next())
	case "shift+tab":
		m.setFocus(m.focus.Prev())
	case "i":
		m.setFocus(portal.FocusMessage)
	case "enter", " ":
		if m.focus == portal.FocusConnect {
			return m.connectWallet()
		}
		return m.startWave()
	case "w":
		return m.startWave()
	case "c":
		return m.connectWallet()
	case "r":
		return m.reloadHistory()
	case "y":
		if m.account == (common.Address{}) {
			m.addLog("warning", "No connected account to copy")
			return nil
		}
		return copyToClipboard("address", m.account.Hex())
	case "s":
		m.activePage = config.PageSettings
		m.settingsMode = settings.ModeList
	case "h":
		m.homeForm = home.CreateForm()
		m.activePage = config.PageHome
	case "up", "down", "k", "j", "pgup", "pgdown":
		var cmd tea.Cmd
		m.historyVP, cmd = m.historyVP.Update(msg)
		return cmd
	}
	return nil
}

// connectWallet asks the wallet for accounts. Without a wallet it only raises
// the alert and leaves the session untouched.
func (m *model) connectWallet() tea.Cmd {
	if !m.provider.Available() {
		m.openAlert("Get a wallet!")
		m.addLog("warning", "Get a wallet! No wallet provider is configured")
		return nil
	}
	switch m.state {
	case stateConnecting:
		return nil
	case stateConnected:
		m.addLog("info", fmt.Sprintf("Wallet already connected: `%s`", m.account.Hex()))
		return tea.Batch(fetchBalance(m.provider, m.account), m.startLiveStream())
	}

	m.state = stateConnecting
	if m.passphrase != nil {
		m.createPassphraseForm()
		return nil
	}
	m.addLog("info", "Requesting wallet accounts…")
	return tea.Batch(requestAccounts(m.provider), m.spin.Tick)
}

// startWave sends wave(draft). The draft is kept after sending.
func (m *model) startWave() tea.Cmd {
	if !m.provider.Available() {
		m.openAlert("Get a wallet!")
		m.addLog("warning", "Ethereum wallet doesn't exist!")
		return nil
	}
	if m.waving {
		m.addLog("warning", "A wave is already being mined")
		return nil
	}
	if m.portal == nil {
		m.addLog("error", "Not connected to the chain yet")
		return nil
	}
	if m.state != stateConnected {
		m.addLog("warning", "Connect your wallet before waving")
		return nil
	}

	m.waving = true
	message := m.input.Value()
	m.addLog("info", fmt.Sprintf("Waving with message %q", message))
	return tea.Batch(submitWave(m.portal, m.provider, m.account, m.chainID, message), m.spin.Tick)
}

// reloadHistory re-reads the wave log and restarts the live stream after it
func (m *model) reloadHistory() tea.Cmd {
	if m.portal == nil {
		m.addLog("error", "Not connected to the chain yet")
		return nil
	}
	m.teardown()
	m.historyLoading = false
	return m.startHistoryLoad()
}

func (m *model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if m.showRPCDeleteDialog {
		switch msg.String() {
		case "left", "right", "tab":
			m.deleteRPCDialogYesSelected = !m.deleteRPCDialogYesSelected
		case "enter":
			if m.deleteRPCDialogYesSelected {
				idx := m.deleteRPCDialogIdx
				if idx >= 0 && idx < len(m.cfg.RPCURLs) {
					m.cfg.RPCURLs = append(m.cfg.RPCURLs[:idx], m.cfg.RPCURLs[idx+1:]...)
					if m.selectedRPCIdx >= len(m.cfg.RPCURLs) && m.selectedRPCIdx > 0 {
						m.selectedRPCIdx--
					}
					m.saveConfig()
					m.addLog("warning", fmt.Sprintf("Deleted RPC endpoint `%s`", m.deleteRPCDialogName))
				}
			}
			m.showRPCDeleteDialog = false
		case "esc":
			m.showRPCDeleteDialog = false
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		m.activePage = config.PagePortal

	case "h":
		m.homeForm = home.CreateForm()
		m.activePage = config.PageHome

	case "a", "A":
		m.settingsMode = settings.ModeAdd
		m.createAddRPCForm()

	case "e", "E":
		if len(m.cfg.RPCURLs) > 0 {
			m.settingsMode = settings.ModeEdit
			m.createEditRPCForm(m.selectedRPCIdx)
		}

	case "w", "W":
		m.settingsMode = settings.ModeContract
		m.createContractForm()

	case "d", "delete", "backspace":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs) {
			r := m.cfg.RPCURLs[m.selectedRPCIdx]
			m.showRPCDeleteDialog = true
			m.deleteRPCDialogYesSelected = true
			m.deleteRPCDialogIdx = m.selectedRPCIdx
			m.deleteRPCDialogName = r.Name
			if strings.TrimSpace(r.Name) == "" {
				m.deleteRPCDialogName = r.URL
			}
		}

	case "up", "k":
		if m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}

	case "down", "j":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
			m.selectedRPCIdx++
		}

	case "enter", " ":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs) {
			for i := range m.cfg.RPCURLs {
				m.cfg.RPCURLs[i].Active = i == m.selectedRPCIdx
			}
			m.rpcURL = m.cfg.RPCURLs[m.selectedRPCIdx].URL
			m.saveConfig()
			m.rpcConnecting = true
			m.rpcConnected = false
			m.addLog("info", fmt.Sprintf("Switching RPC to `%s`", m.rpcURL))
			return tea.Batch(connectRPC(m.rpcURL), m.spin.Tick)
		}
	}
	return nil
}

// pendingTotal is the counter shown in the header
func (m *model) pendingTotal() *big.Int {
	if m.total != nil {
		return m.total
	}
	if m.historyLoaded {
		return big.NewInt(int64(m.store.Len()))
	}
	return nil
}
