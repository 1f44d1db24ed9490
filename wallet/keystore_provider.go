package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	waveerr "wave-portal-tui/pkg/errors"
)

// PassphraseFunc supplies the passphrase for account. Returning an error
// means the user cancelled.
type PassphraseFunc func(account accounts.Account) (string, error)

// BalanceReader reads balances from the chain. *ethclient.Client satisfies it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// KeystoreProvider is a local go-ethereum keystore acting as the wallet.
// An account counts as authorized once it has been unlocked.
type KeystoreProvider struct {
	ks         *keystore.KeyStore
	balances   BalanceReader
	passphrase PassphraseFunc

	mu       sync.Mutex
	unlocked []accounts.Account
}

var _ Provider = (*KeystoreProvider)(nil)

// OpenKeystore opens (or creates) the keystore directory with standard scrypt
// parameters.
func OpenKeystore(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewKeystoreProvider wraps ks. balances may be nil until a chain connection exists.
func NewKeystoreProvider(ks *keystore.KeyStore, balances BalanceReader, passphrase PassphraseFunc) *KeystoreProvider {
	return &KeystoreProvider{ks: ks, balances: balances, passphrase: passphrase}
}

// SetBalanceReader swaps the chain connection used for balances.
func (p *KeystoreProvider) SetBalanceReader(b BalanceReader) {
	p.mu.Lock()
	p.balances = b
	p.mu.Unlock()
}

func (p *KeystoreProvider) Available() bool {
	return p != nil && p.ks != nil && len(p.ks.Accounts()) > 0
}

func (p *KeystoreProvider) Accounts(context.Context) ([]common.Address, error) {
	if !p.Available() {
		return nil, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]common.Address, 0, len(p.unlocked))
	for _, a := range p.unlocked {
		out = append(out, a.Address)
	}
	return out, nil
}

// RequestAccounts unlocks the first keystore account with the passphrase the
// user supplies.
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if !p.Available() {
		return nil, waveerr.ErrProviderUnavailable
	}
	acct := p.ks.Accounts()[0]

	if p.passphrase == nil {
		return nil, waveerr.ErrUserRejected
	}
	pass, err := p.passphrase(acct)
	if err != nil {
		return nil, waveerr.WithCause(waveerr.ErrUserRejected, err)
	}
	if err := p.ks.Unlock(acct, pass); err != nil {
		return nil, waveerr.WithCause(waveerr.ErrUserRejected, err)
	}

	p.mu.Lock()
	if !containsAccount(p.unlocked, acct.Address) {
		p.unlocked = append(p.unlocked, acct)
	}
	p.mu.Unlock()

	return p.Accounts(ctx)
}

func (p *KeystoreProvider) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	p.mu.Lock()
	b := p.balances
	p.mu.Unlock()
	if b == nil {
		return nil, waveerr.ErrProviderUnavailable
	}
	return b.BalanceAt(ctx, addr, nil)
}

func (p *KeystoreProvider) SignTx(_ context.Context, from common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	p.mu.Lock()
	var acct accounts.Account
	found := false
	for _, a := range p.unlocked {
		if a.Address == from {
			acct, found = a, true
			break
		}
	}
	p.mu.Unlock()
	if !found {
		return nil, waveerr.ErrNoAccount
	}
	return p.ks.SignTx(acct, tx, chainID)
}

// Lock re-locks every unlocked account. Accounts the keystore failed to lock
// stay listed and their errors are joined.
func (p *KeystoreProvider) Lock() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var (
		errs  []error
		still []accounts.Account
	)
	for _, a := range p.unlocked {
		if err := p.ks.Lock(a.Address); err != nil {
			errs = append(errs, fmt.Errorf("locking %s: %w", a.Address.Hex(), err))
			still = append(still, a)
		}
	}
	p.unlocked = still
	return errors.Join(errs...)
}

func containsAccount(list []accounts.Account, addr common.Address) bool {
	for _, a := range list {
		if a.Address == addr {
			return true
		}
	}
	return false
}
