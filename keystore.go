package main

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
)

var errNoPassphrase = errors.New("no passphrase entered")

// passphraseBox hands the passphrase typed into the prompt form to the
// keystore provider, which asks for it from a command goroutine. A value is
// handed out once.
type passphraseBox struct {
	mu    sync.Mutex
	value string
	set   bool
}

func (b *passphraseBox) put(v string) {
	b.mu.Lock()
	b.value, b.set = v, true
	b.mu.Unlock()
}

func (b *passphraseBox) clear() {
	b.mu.Lock()
	b.value, b.set = "", false
	b.mu.Unlock()
}

// Passphrase satisfies wallet.PassphraseFunc.
func (b *passphraseBox) Passphrase(accounts.Account) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return "", errNoPassphrase
	}
	v := b.value
	b.value, b.set = "", false
	return v, nil
}
