// Package rpc dials the chain node the contract client reads from and
// carries small helpers for presenting transactions.
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mdp/qrterminal/v3"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL     string
	ChainID *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout dials url and reads the chain id so later transactions
// can be signed for the right network.
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Error: err}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return ConnectResult{Error: fmt.Errorf("reading chain id from %s: %w", url, err)}
	}

	return ConnectResult{
		Client: &Client{
			Client:  client,
			URL:     url,
			ChainID: chainID,
		},
	}
}

// SupportsPush reports whether the endpoint can deliver log subscriptions.
// Only websocket and IPC transports can.
func SupportsPush(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "ws://") || strings.HasPrefix(u, "wss://") || strings.HasSuffix(u, ".ipc")
}

var explorers = map[int64]string{
	1:        "https://etherscan.io",
	11155111: "https://sepolia.etherscan.io",
	17000:    "https://holesky.etherscan.io",
	137:      "https://polygonscan.com",
	8453:     "https://basescan.org",
	10:       "https://optimistic.etherscan.io",
	42161:    "https://arbiscan.io",
}

// ExplorerTxURL returns a block explorer link for hash, or "" for chains
// without a known explorer (local dev nodes).
func ExplorerTxURL(chainID *big.Int, hash common.Hash) string {
	if chainID == nil || !chainID.IsInt64() {
		return ""
	}
	base, ok := explorers[chainID.Int64()]
	if !ok {
		return ""
	}
	return base + "/tx/" + hash.Hex()
}

// GenerateQRCode renders content as a half-block terminal QR code.
func GenerateQRCode(content string) string {
	var b strings.Builder
	qrterminal.GenerateWithConfig(content, qrterminal.Config{
		Level:          qrterminal.L,
		Writer:         &b,
		QuietZone:      1,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return b.String()
}
