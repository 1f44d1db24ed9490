package main

import (
	"math/big"
	"strings"
	"time"

	"wave-portal-tui/config"
	"wave-portal-tui/history"
	"wave-portal-tui/rpc"
	"wave-portal-tui/styles"
	"wave-portal-tui/views/portal"
	"wave-portal-tui/views/settings"
	"wave-portal-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- MODEL --------------------

// connState is the wallet connection state machine.
type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

func (s connState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	cfg         config.Config
	configPath  string
	contractABI abi.ABI

	// wallet session
	provider   wallet.Provider
	passphrase *passphraseBox
	state      connState
	account    common.Address
	balance    *big.Int
	autoLoad   bool // account found on start, load history once the chain is up

	// chain connection
	rpcURL        string
	chain         *rpc.Client
	chainID       *big.Int
	portal        wavePortal
	rpcConnected  bool
	rpcConnecting bool

	// wave history
	store          *history.Store
	historyLoaded  bool
	historyLoading bool
	loadedAt       time.Time
	pinnedBlock    uint64
	total          *big.Int
	historyVP      viewport.Model

	// live NewWave subscription
	sub         subscription
	feed        *waveFeed
	subscribing bool
	// bumped by teardown; results from an older generation are dropped
	gen         int

	// wave page
	focus  portal.Focus
	input  textinput.Model
	waving bool
	spin   spinner.Model

	// "Get a wallet!" alert
	showAlert bool
	alertMsg  string

	// keystore passphrase prompt
	passForm *huh.Form

	// transaction result panel
	showTxResultPanel bool
	txResultHash      common.Hash
	txResultURL       string
	txResultError     string
	txCopiedMsg       string
	txCopiedMsgTime   time.Time

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	// settings state
	settingsMode               string
	selectedRPCIdx             int
	form                       *huh.Form
	showRPCDeleteDialog        bool
	deleteRPCDialogName        string
	deleteRPCDialogIdx         int
	deleteRPCDialogYesSelected bool

	// home menu
	homeForm *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model

	quitting bool
}

// modelDeps is what the entry point wires into the controller.
type modelDeps struct {
	cfg        config.Config
	configPath string
	abi        abi.ABI
	provider   wallet.Provider
	passphrase *passphraseBox
	// portal skips the RPC dial when set
	portal wavePortal
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model from the loaded configuration
func newModel(d modelDeps) model {
	provider := d.provider
	if provider == nil {
		provider = wallet.Unavailable{}
	}

	in := textinput.New()
	in.Placeholder = "Type a message to send with your wave…"
	in.Prompt = "Message: "
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 280
	in.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	logVP := viewport.New(0, 10) // resized on first WindowSizeMsg
	logVP.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	histVP := viewport.New(0, 10)
	histVP.MouseWheelEnabled = true

	buf := &strings.Builder{}

	m := model{
		activePage:     config.PagePortal,
		cfg:            d.cfg,
		configPath:     d.configPath,
		contractABI:    d.abi,
		provider:       provider,
		passphrase:     d.passphrase,
		store:          history.New(),
		historyVP:      histVP,
		input:          in,
		spin:           sp,
		settingsMode:   settings.ModeList,
		logEnabled:     d.cfg.Logger,
		logBuffer:      buf,
		logger:         newPanelLogger(buf),
		logViewport:    logVP,
		focus:          portal.FocusWave,
	}

	if r, ok := d.cfg.ActiveRPC(); ok {
		m.rpcURL = r.URL
	}
	if d.portal != nil {
		m.portal = d.portal
		m.rpcConnected = true
	}
	m.refreshHistoryView()
	return m
}

// newPanelLogger creates a logger that writes into the log panel buffer
func newPanelLogger(buf *strings.Builder) *log.Logger {
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		},
	})
	return logger
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.portal == nil && m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL), m.spin.Tick)
	}
	if m.provider.Available() {
		cmds = append(cmds, checkAuthorized(m.provider))
	} else {
		m.addLog("warning", "No wallet found. Configure a wallet RPC endpoint or keystore.")
	}
	return tea.Batch(cmds...)
}
