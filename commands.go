package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"wave-portal-tui/config"
	"wave-portal-tui/contract"
	"wave-portal-tui/history"
	"wave-portal-tui/rpc"
	"wave-portal-tui/views/portal"
	"wave-portal-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// Timeouts for the commands below. Mining waits on the network, so it gets
// the longest budget.
const (
	walletTimeout  = 10 * time.Second
	approveTimeout = 2 * time.Minute
	readTimeout    = 20 * time.Second
	mineTimeout    = 10 * time.Minute
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// checkAuthorized lists accounts the wallet already authorized (eth_accounts)
func checkAuthorized(p wallet.Provider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), walletTimeout)
		defer cancel()
		accts, err := p.Accounts(ctx)
		return authorizedMsg{accounts: accts, err: err}
	}
}

// requestAccounts asks the wallet owner to authorize this app (eth_requestAccounts)
func requestAccounts(p wallet.Provider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), approveTimeout)
		defer cancel()
		accts, err := p.RequestAccounts(ctx)
		return accountsRequestedMsg{accounts: accts, err: err}
	}
}

// fetchBalance reads the connected account's balance
func fetchBalance(p wallet.Provider, addr common.Address) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), walletTimeout)
		defer cancel()
		wei, err := p.Balance(ctx, addr)
		return balanceMsg{account: addr, wei: wei, err: err}
	}
}

// loadHistory reads the whole wave log pinned at the current head so the
// subscription can pick up from the next block.
func loadHistory(wp wavePortal, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		head, err := wp.HeadBlock(ctx)
		if err != nil {
			return historyLoadedMsg{gen: gen, err: err}
		}
		raw, err := wp.GetAllWavesAt(ctx, new(big.Int).SetUint64(head))
		if err != nil {
			return historyLoadedMsg{gen: gen, err: err}
		}
		records := make([]history.Record, 0, len(raw))
		for _, w := range raw {
			records = append(records, history.NewRecord(w.Waver.Hex(), w.Timestamp, w.Message))
		}
		total, err := wp.GetTotalWaves(ctx)
		if err != nil {
			total = big.NewInt(int64(len(records)))
		}
		return historyLoadedMsg{records: records, block: head, total: total, gen: gen}
	}
}

// subscribeWaves opens the NewWave stream starting at start
func subscribeWaves(wp wavePortal, start uint64, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		return openWaveStream(ctx, wp, start, gen)
	}
}

// subscribeFromHead opens the NewWave stream at the block after the current
// head, for a session that has not read the history.
func subscribeFromHead(wp wavePortal, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		head, err := wp.HeadBlock(ctx)
		if err != nil {
			return subscribedMsg{gen: gen, err: err}
		}
		return openWaveStream(ctx, wp, head+1, gen)
	}
}

func openWaveStream(ctx context.Context, wp wavePortal, start uint64, gen int) subscribedMsg {
	feed := newWaveFeed()
	sub, err := wp.Subscribe(ctx, &start, feed.push)
	if err != nil {
		feed.close()
		return subscribedMsg{start: start, gen: gen, err: err}
	}
	return subscribedMsg{sub: sub, feed: feed, start: start, gen: gen}
}

// waitForWave delivers the next live event. Update re-arms it after each one.
func waitForWave(feed *waveFeed) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-feed.events:
			return newWaveMsg{ev: ev, feed: feed}
		case <-feed.stop:
			return nil
		}
	}
}

// waitForSubErr delivers the next subscription failure
func waitForSubErr(sub subscription, feed *waveFeed) tea.Cmd {
	return func() tea.Msg {
		select {
		case err := <-sub.Err():
			return subscriptionErrMsg{err: err, feed: feed}
		case <-feed.stop:
			return nil
		}
	}
}

// submitWave reads the counter, then signs and sends wave(message)
func submitWave(wp wavePortal, p wallet.Provider, from common.Address, chainID *big.Int, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), approveTimeout)
		defer cancel()

		before, err := wp.GetTotalWaves(ctx)
		if err != nil {
			return waveSubmittedMsg{err: err}
		}
		tx, err := wp.SendWave(ctx, contract.WaveRequest{
			From:    from,
			Message: message,
			Signer:  wallet.Signer(ctx, p, chainID),
		})
		return waveSubmittedMsg{before: before, tx: tx, err: err}
	}
}

// waitMined waits for the wave receipt
func waitMined(tx waveTx) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mineTimeout)
		defer cancel()
		receipt, err := tx.Wait(ctx)
		return waveMinedMsg{hash: tx.Hash(), receipt: receipt, err: err}
	}
}

// fetchWaveCount re-reads the counter after mining
func fetchWaveCount(wp wavePortal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		total, err := wp.GetTotalWaves(ctx)
		return waveCountMsg{total: total, err: err}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// clearClipboard waits 2 seconds then sends a message to clear clipboard feedback
func clearClipboard() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logEnabled || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// refreshHistoryView re-renders the history list into its viewport
func (m *model) refreshHistoryView() {
	m.historyVP.SetContent(portal.RenderHistory(m.store.SnapshotReversed(), m.historyVP.Width))
}

// textInputActive returns true if any text input is currently active
func (m *model) textInputActive() bool {
	if m.activePage == config.PagePortal && m.focus == portal.FocusMessage {
		return true
	}
	if m.passForm != nil || m.form != nil || m.homeForm != nil {
		return true
	}
	return false
}

// startHistoryLoad issues the bulk read unless one is already running
func (m *model) startHistoryLoad() tea.Cmd {
	if m.portal == nil || m.historyLoading {
		return nil
	}
	m.historyLoading = true
	m.addLog("info", "Loading wave history…")
	return loadHistory(m.portal, m.gen)
}

// startLiveStream opens the subscription when nothing else will. A pending
// history load subscribes on its own once it lands.
func (m *model) startLiveStream() tea.Cmd {
	if m.portal == nil || m.sub != nil || m.subscribing || m.historyLoading {
		return nil
	}
	m.subscribing = true
	if m.historyLoaded {
		return subscribeWaves(m.portal, m.pinnedBlock+1, m.gen)
	}
	return subscribeFromHead(m.portal, m.gen)
}

// teardown closes the live subscription and invalidates any load or
// subscribe still in flight. Safe to call more than once.
func (m *model) teardown() {
	m.gen++
	m.subscribing = false
	if m.feed != nil {
		m.feed.close()
		m.feed = nil
	}
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
}

// shutdown releases everything the model owns before the program exits
func (m *model) shutdown() {
	m.teardown()
	if m.chain != nil {
		m.chain.Close()
		m.chain = nil
	}
}

// chainLabel names the active endpoint for the header
func (m *model) chainLabel() string {
	if r, ok := m.cfg.ActiveRPC(); ok && r.URL == m.rpcURL && r.Name != "" {
		return r.Name
	}
	if m.chainID != nil {
		return fmt.Sprintf("chain %s", m.chainID)
	}
	return "Connected"
}
