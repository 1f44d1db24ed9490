// Package wallet adapts the user's wallet into a small capability interface:
// availability, authorized accounts, authorization requests, balances and
// transaction signing.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	waveerr "wave-portal-tui/pkg/errors"
)

// Provider is the injected wallet.
type Provider interface {
	// Available reports whether a wallet is reachable at all.
	Available() bool
	// Accounts lists accounts already authorized for this app (eth_accounts).
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the wallet owner for authorization (eth_requestAccounts).
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Balance returns the balance of addr in wei.
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	// SignTx signs tx on behalf of from.
	SignTx(ctx context.Context, from common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Signer adapts p into a bind.SignerFn bound to ctx and chainID.
func Signer(ctx context.Context, p Provider, chainID *big.Int) bind.SignerFn {
	return func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		return p.SignTx(ctx, from, tx, chainID)
	}
}

// Unavailable is the provider used when no wallet is configured.
type Unavailable struct{}

var _ Provider = Unavailable{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Accounts(context.Context) ([]common.Address, error) { return nil, nil }

func (Unavailable) RequestAccounts(context.Context) ([]common.Address, error) {
	return nil, waveerr.ErrProviderUnavailable
}

func (Unavailable) Balance(context.Context, common.Address) (*big.Int, error) {
	return nil, waveerr.ErrProviderUnavailable
}

func (Unavailable) SignTx(context.Context, common.Address, *types.Transaction, *big.Int) (*types.Transaction, error) {
	return nil, waveerr.ErrProviderUnavailable
}
