package main

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassphraseBoxHandsOutOnce(t *testing.T) {
	box := &passphraseBox{}

	_, err := box.Passphrase(accounts.Account{})
	assert.ErrorIs(t, err, errNoPassphrase)

	box.put("hunter2")
	v, err := box.Passphrase(accounts.Account{})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	_, err = box.Passphrase(accounts.Account{})
	assert.ErrorIs(t, err, errNoPassphrase)
}

func TestPassphraseBoxClear(t *testing.T) {
	box := &passphraseBox{}
	box.put("secret")
	box.clear()

	_, err := box.Passphrase(accounts.Account{})
	assert.ErrorIs(t, err, errNoPassphrase)
}
