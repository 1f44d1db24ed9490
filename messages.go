package main

import (
	"math/big"

	"wave-portal-tui/contract"
	"wave-portal-tui/history"
	"wave-portal-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// authorizedMsg is the eth_accounts answer checked on start
type authorizedMsg struct {
	accounts []common.Address
	err      error
}

// accountsRequestedMsg is the eth_requestAccounts answer after pressing connect
type accountsRequestedMsg struct {
	accounts []common.Address
	err      error
}

// balanceMsg carries the connected account's balance
type balanceMsg struct {
	account common.Address
	wei     *big.Int
	err     error
}

// historyLoadedMsg is the bulk wave log read pinned at block
type historyLoadedMsg struct {
	records []history.Record
	block   uint64
	total   *big.Int
	gen     int
	err     error
}

// subscribedMsg hands over a freshly opened NewWave subscription
type subscribedMsg struct {
	sub   subscription
	feed  *waveFeed
	start uint64
	gen   int
	err   error
}

// newWaveMsg is one live NewWave event
type newWaveMsg struct {
	ev   contract.NewWave
	feed *waveFeed
}

// subscriptionErrMsg reports a failure on the live stream
type subscriptionErrMsg struct {
	err  error
	feed *waveFeed
}

// waveSubmittedMsg follows signing and sending wave(message)
type waveSubmittedMsg struct {
	before *big.Int
	tx     waveTx
	err    error
}

// waveMinedMsg follows the receipt of a submitted wave
type waveMinedMsg struct {
	hash    common.Hash
	receipt *types.Receipt
	err     error
}

// waveCountMsg is a getTotalWaves read after mining
type waveCountMsg struct {
	total *big.Int
	err   error
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
	err  error
}

// clearClipboardMsg clears the copy feedback
type clearClipboardMsg struct{}
