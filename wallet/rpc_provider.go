package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	waveerr "wave-portal-tui/pkg/errors"
)

// codeUserRejected is the EIP-1193 "user rejected request" code.
const codeUserRejected = 4001

// RPCProvider talks to an EIP-1193 style wallet endpoint over JSON-RPC
// (Frame, a dev node with unlocked accounts, or a signer proxy).
type RPCProvider struct {
	url    string
	client *gethrpc.Client
}

var _ Provider = (*RPCProvider)(nil)

// DialRPC connects to the wallet endpoint at url.
func DialRPC(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, waveerr.WithCause(waveerr.ErrProviderUnavailable, err)
	}
	return &RPCProvider{url: url, client: client}, nil
}

// NewRPCProvider wraps an existing client.
func NewRPCProvider(client *gethrpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// URL returns the endpoint the provider was dialed with.
func (p *RPCProvider) URL() string {
	return p.url
}

// Close releases the underlying connection.
func (p *RPCProvider) Close() {
	if p != nil && p.client != nil {
		p.client.Close()
	}
}

func (p *RPCProvider) Available() bool {
	return p != nil && p.client != nil
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if !p.Available() {
		return nil, nil
	}
	var accts []common.Address
	if err := p.client.CallContext(ctx, &accts, "eth_accounts"); err != nil {
		return nil, mapRPCError(err)
	}
	return accts, nil
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if !p.Available() {
		return nil, waveerr.ErrProviderUnavailable
	}
	var accts []common.Address
	if err := p.client.CallContext(ctx, &accts, "eth_requestAccounts"); err != nil {
		return nil, mapRPCError(err)
	}
	return accts, nil
}

func (p *RPCProvider) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if !p.Available() {
		return nil, waveerr.ErrProviderUnavailable
	}
	var bal hexutil.Big
	if err := p.client.CallContext(ctx, &bal, "eth_getBalance", addr, "latest"); err != nil {
		return nil, mapRPCError(err)
	}
	return (*big.Int)(&bal), nil
}

// SignTx asks the wallet to sign tx via eth_signTransaction and checks the
// returned transaction really comes from from.
func (p *RPCProvider) SignTx(ctx context.Context, from common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if !p.Available() {
		return nil, waveerr.ErrProviderUnavailable
	}

	var res struct {
		Raw hexutil.Bytes `json:"raw"`
	}
	if err := p.client.CallContext(ctx, &res, "eth_signTransaction", txArgs(from, tx, chainID)); err != nil {
		return nil, mapRPCError(err)
	}

	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(res.Raw); err != nil {
		return nil, fmt.Errorf("decoding signed transaction: %w", err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		return nil, fmt.Errorf("recovering signer: %w", err)
	}
	if sender != from {
		return nil, fmt.Errorf("wallet signed as %s, expected %s", sender.Hex(), from.Hex())
	}
	return signed, nil
}

// txArgs renders tx in the shape eth_signTransaction expects.
func txArgs(from common.Address, tx *types.Transaction, chainID *big.Int) map[string]any {
	args := map[string]any{
		"from":  from,
		"gas":   hexutil.Uint64(tx.Gas()),
		"value": (*hexutil.Big)(tx.Value()),
		"input": hexutil.Bytes(tx.Data()),
		"nonce": hexutil.Uint64(tx.Nonce()),
	}
	if tx.To() != nil {
		args["to"] = tx.To()
	}
	if chainID != nil {
		args["chainId"] = (*hexutil.Big)(chainID)
	}
	if tx.Type() == types.DynamicFeeTxType {
		args["maxFeePerGas"] = (*hexutil.Big)(tx.GasFeeCap())
		args["maxPriorityFeePerGas"] = (*hexutil.Big)(tx.GasTipCap())
	} else {
		args["gasPrice"] = (*hexutil.Big)(tx.GasPrice())
	}
	return args
}

func mapRPCError(err error) error {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeUserRejected {
		return waveerr.WithCause(waveerr.ErrUserRejected, err)
	}
	return err
}
