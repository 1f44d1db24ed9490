// Package contract wraps the deployed WavePortal contract: wave count and
// wave log reads, the wave transaction, and NewWave event subscriptions.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	waveerr "wave-portal-tui/pkg/errors"
)

const (
	// DefaultAddress is the WavePortal deployment the front-end talks to.
	DefaultAddress = "0x4C18bD8949FD3E18c2C2E80F321Fc9713dE45B6c"

	// DefaultGasLimit is the gas ceiling attached to every wave transaction.
	DefaultGasLimit uint64 = 300000

	// DefaultPollInterval is used when the endpoint cannot push logs.
	DefaultPollInterval = 4 * time.Second

	eventNewWave = "NewWave"
)

//go:embed abi/WavePortal.json
var wavePortalArtifact []byte

// Backend is the chain surface the client needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// RawWave is one element of getAllWaves, field names match the ABI tuple.
type RawWave struct {
	Waver     common.Address
	Message   string
	Timestamp *big.Int
}

// NewWave is a decoded NewWave event.
type NewWave struct {
	From      common.Address
	Timestamp *big.Int
	Message   string
	Raw       types.Log
}

// Options tunes the client. Zero values fall back to the defaults.
type Options struct {
	GasLimit     uint64
	PollInterval time.Duration
}

// Client is a handle on a deployed WavePortal contract.
type Client struct {
	address      common.Address
	abi          abi.ABI
	backend      Backend
	bound        *bind.BoundContract
	gasLimit     uint64
	pollInterval time.Duration
}

// LoadABI parses a contract ABI. It accepts either a bare ABI array or a
// Hardhat/Truffle artifact with an "abi" field.
func LoadABI(data []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return abi.ABI{}, fmt.Errorf("decoding artifact: %w", err)
		}
		trimmed = artifact.ABI
	}
	parsed, err := abi.JSON(bytes.NewReader(trimmed))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing abi: %w", err)
	}
	for _, name := range []string{"getTotalWaves", "getAllWaves", "wave"} {
		if _, ok := parsed.Methods[name]; !ok {
			return abi.ABI{}, fmt.Errorf("abi is missing method %q", name)
		}
	}
	if _, ok := parsed.Events[eventNewWave]; !ok {
		return abi.ABI{}, fmt.Errorf("abi is missing event %q", eventNewWave)
	}
	return parsed, nil
}

// LoadABIFile reads an ABI from path, or returns the embedded WavePortal ABI
// when path is empty.
func LoadABIFile(path string) (abi.ABI, error) {
	if path == "" {
		return LoadABI(wavePortalArtifact)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, err
	}
	return LoadABI(data)
}

// New binds the contract at address.
func New(address string, contractABI abi.ABI, backend Backend, opts *Options) (*Client, error) {
	if !common.IsHexAddress(address) {
		return nil, waveerr.WithCause(waveerr.ErrInvalidConfig, fmt.Errorf("contract address %q", address))
	}
	if backend == nil {
		return nil, waveerr.WithCause(waveerr.ErrInvalidConfig, fmt.Errorf("no chain backend"))
	}

	c := &Client{
		address:      common.HexToAddress(address),
		abi:          contractABI,
		backend:      backend,
		gasLimit:     DefaultGasLimit,
		pollInterval: DefaultPollInterval,
	}
	if opts != nil {
		if opts.GasLimit != 0 {
			c.gasLimit = opts.GasLimit
		}
		if opts.PollInterval > 0 {
			c.pollInterval = opts.PollInterval
		}
	}
	c.bound = bind.NewBoundContract(c.address, contractABI, backend, backend, backend)
	return c, nil
}

// Address returns the contract address.
func (c *Client) Address() common.Address {
	return c.address
}

// GasLimit returns the gas ceiling used for wave transactions.
func (c *Client) GasLimit() uint64 {
	return c.gasLimit
}

// HeadBlock returns the latest block number known to the backend.
func (c *Client) HeadBlock(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, waveerr.WithCause(waveerr.ErrRead, err)
	}
	return n, nil
}

// GetTotalWaves reads the contract's wave counter.
func (c *Client) GetTotalWaves(ctx context.Context) (*big.Int, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getTotalWaves"); err != nil {
		return nil, waveerr.WithCause(waveerr.ErrRead, fmt.Errorf("getTotalWaves: %w", err))
	}
	if len(out) == 0 {
		return nil, waveerr.WithCause(waveerr.ErrRead, fmt.Errorf("getTotalWaves: empty result"))
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// GetAllWaves reads the full wave log at the latest block.
func (c *Client) GetAllWaves(ctx context.Context) ([]RawWave, error) {
	return c.GetAllWavesAt(ctx, nil)
}

// GetAllWavesAt reads the full wave log as of block. A nil block means latest.
func (c *Client) GetAllWavesAt(ctx context.Context, block *big.Int) ([]RawWave, error) {
	var out []any
	opts := &bind.CallOpts{Context: ctx, BlockNumber: block}
	if err := c.bound.Call(opts, &out, "getAllWaves"); err != nil {
		return nil, waveerr.WithCause(waveerr.ErrRead, fmt.Errorf("getAllWaves: %w", err))
	}
	if len(out) == 0 {
		return nil, waveerr.WithCause(waveerr.ErrRead, fmt.Errorf("getAllWaves: empty result"))
	}
	waves := *abi.ConvertType(out[0], new([]RawWave)).(*[]RawWave)
	return waves, nil
}

// WaveRequest carries everything needed to submit a wave.
type WaveRequest struct {
	From    common.Address
	Message string
	Signer  bind.SignerFn
}

// PendingWave is a submitted wave transaction awaiting confirmation.
type PendingWave struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

// Hash returns the transaction hash.
func (p *PendingWave) Hash() common.Hash {
	return p.tx.Hash()
}

// Transaction returns the signed transaction as sent.
func (p *PendingWave) Transaction() *types.Transaction {
	return p.tx
}

// Wait blocks until the transaction is mined or ctx is done. A reverted
// receipt is returned together with ErrConfirmation.
func (p *PendingWave) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, waveerr.WithCause(waveerr.ErrConfirmation, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, waveerr.WithCause(waveerr.ErrConfirmation, fmt.Errorf("transaction %s reverted", p.tx.Hash().Hex()))
	}
	return receipt, nil
}

// Wave signs and sends wave(message) with the configured gas ceiling.
func (c *Client) Wave(ctx context.Context, req WaveRequest) (*PendingWave, error) {
	if req.Signer == nil {
		return nil, waveerr.WithCause(waveerr.ErrSubmission, waveerr.ErrNoAccount)
	}
	opts := &bind.TransactOpts{
		From:     req.From,
		Signer:   req.Signer,
		GasLimit: c.gasLimit,
		Context:  ctx,
	}
	tx, err := c.bound.Transact(opts, "wave", req.Message)
	if err != nil {
		return nil, waveerr.WithCause(waveerr.ErrSubmission, err)
	}
	return &PendingWave{tx: tx, backend: c.backend}, nil
}

// ShortHash renders a hash as 0x1234…abcd.
func ShortHash(h common.Hash) string {
	s := h.Hex()
	if len(s) < 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
