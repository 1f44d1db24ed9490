package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	waveerr "wave-portal-tui/pkg/errors"
)

var testChainID = big.NewInt(1337)

type rejectedError struct{}

func (rejectedError) Error() string  { return "User rejected the request." }
func (rejectedError) ErrorCode() int { return 4001 }

// fakeEth serves the eth_* wallet methods in-process.
type fakeEth struct {
	accounts []common.Address
	granted  []common.Address
	reject   bool
	balance  *big.Int
	key      *ecdsa.PrivateKey
}

func (f *fakeEth) Accounts() []common.Address {
	return f.accounts
}

func (f *fakeEth) RequestAccounts() ([]common.Address, error) {
	if f.reject {
		return nil, rejectedError{}
	}
	f.accounts = f.granted
	return f.accounts, nil
}

func (f *fakeEth) GetBalance(_ common.Address, _ string) *hexutil.Big {
	return (*hexutil.Big)(f.balance)
}

type signArgs struct {
	To                   *common.Address `json:"to"`
	Gas                  hexutil.Uint64  `json:"gas"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Input                hexutil.Bytes   `json:"input"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	ChainID              *hexutil.Big    `json:"chainId"`
}

type signResult struct {
	Raw hexutil.Bytes `json:"raw"`
}

func (f *fakeEth) SignTransaction(args signArgs) (*signResult, error) {
	if f.reject {
		return nil, rejectedError{}
	}
	chainID := (*big.Int)(args.ChainID)
	tx, err := types.SignNewTx(f.key, types.LatestSignerForChainID(chainID), &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     uint64(args.Nonce),
		GasTipCap: (*big.Int)(args.MaxPriorityFeePerGas),
		GasFeeCap: (*big.Int)(args.MaxFeePerGas),
		Gas:       uint64(args.Gas),
		To:        args.To,
		Value:     (*big.Int)(args.Value),
		Data:      args.Input,
	})
	if err != nil {
		return nil, err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &signResult{Raw: raw}, nil
}

func newRPCProvider(t *testing.T, svc *fakeEth) *RPCProvider {
	t.Helper()
	srv := gethrpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	t.Cleanup(srv.Stop)
	p := NewRPCProvider(gethrpc.DialInProc(srv))
	t.Cleanup(p.Close)
	return p
}

func unsignedTx() *types.Transaction {
	to := common.HexToAddress("0x4C18bD8949FD3E18c2C2E80F321Fc9713dE45B6c")
	return types.NewTx(&types.DynamicFeeTx{
		Nonce:     3,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       300000,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      []byte{0x01, 0x02},
	})
}

func TestRPCProviderAccountsFlow(t *testing.T) {
	t.Parallel()

	a := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	p := newRPCProvider(t, &fakeEth{granted: []common.Address{a}})
	ctx := context.Background()

	require.True(t, p.Available())

	accts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accts)

	accts, err = p.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{a}, accts)

	accts, err = p.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{a}, accts)
}

func TestRPCProviderRejection(t *testing.T) {
	t.Parallel()

	p := newRPCProvider(t, &fakeEth{reject: true})

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrUserRejected)
}

func TestRPCProviderBalance(t *testing.T) {
	t.Parallel()

	p := newRPCProvider(t, &fakeEth{balance: big.NewInt(1_500_000_000_000_000_000)})

	bal, err := p.Balance(context.Background(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", bal.String())
}

func TestRPCProviderSignTx(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)
	p := newRPCProvider(t, &fakeEth{key: key})

	signed, err := p.SignTx(context.Background(), from, unsignedTx(), testChainID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), signed.Nonce())
	assert.Equal(t, uint64(300000), signed.Gas())
	assert.Equal(t, []byte{0x01, 0x02}, signed.Data())

	// signer uses the same callback shape bind expects
	fn := Signer(context.Background(), p, testChainID)
	_, err = fn(from, unsignedTx())
	require.NoError(t, err)
}

func TestRPCProviderSignTxWrongAccount(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	p := newRPCProvider(t, &fakeEth{key: key})

	_, err = p.SignTx(context.Background(), common.HexToAddress("0x01"), unsignedTx(), testChainID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestNilRPCProviderIsUnavailable(t *testing.T) {
	t.Parallel()

	var p *RPCProvider
	assert.False(t, p.Available())
	accts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accts)
	_, err = p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrProviderUnavailable)
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	var p Provider = Unavailable{}
	assert.False(t, p.Available())

	accts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accts)

	_, err = p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrProviderUnavailable)
	_, err = p.Balance(context.Background(), common.Address{})
	require.ErrorIs(t, err, waveerr.ErrProviderUnavailable)
}

type staticBalances struct{ wei *big.Int }

func (s staticBalances) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return s.wei, nil
}

func newTestKeystore(t *testing.T) (*keystore.KeyStore, accounts.Account) {
	t.Helper()
	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	acct, err := ks.NewAccount("correct horse")
	require.NoError(t, err)
	return ks, acct
}

func TestKeystoreProviderUnlockAndSign(t *testing.T) {
	t.Parallel()

	ks, acct := newTestKeystore(t)
	p := NewKeystoreProvider(ks, staticBalances{wei: big.NewInt(9)}, func(accounts.Account) (string, error) {
		return "correct horse", nil
	})
	ctx := context.Background()

	require.True(t, p.Available())
	accts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accts)

	_, err = p.SignTx(ctx, acct.Address, unsignedTx(), testChainID)
	require.ErrorIs(t, err, waveerr.ErrNoAccount)

	accts, err = p.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{acct.Address}, accts)

	signed, err := p.SignTx(ctx, acct.Address, unsignedTx(), testChainID)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(testChainID), signed)
	require.NoError(t, err)
	assert.Equal(t, acct.Address, sender)

	bal, err := p.Balance(ctx, acct.Address)
	require.NoError(t, err)
	assert.Equal(t, int64(9), bal.Int64())

	require.NoError(t, p.Lock())
	accts, err = p.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accts)

	// the keystore itself is locked again, not just the provider's list
	_, err = ks.SignTx(accounts.Account{Address: acct.Address}, unsignedTx(), testChainID)
	assert.ErrorIs(t, err, keystore.ErrLocked)

	// nothing left to lock
	assert.NoError(t, p.Lock())
}

func TestKeystoreProviderWrongPassphrase(t *testing.T) {
	t.Parallel()

	ks, _ := newTestKeystore(t)
	p := NewKeystoreProvider(ks, nil, func(accounts.Account) (string, error) {
		return "wrong", nil
	})

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrUserRejected)

	_, err = p.Balance(context.Background(), common.Address{})
	require.ErrorIs(t, err, waveerr.ErrProviderUnavailable)
}

func TestKeystoreProviderCancelled(t *testing.T) {
	t.Parallel()

	ks, _ := newTestKeystore(t)
	p := NewKeystoreProvider(ks, nil, func(accounts.Account) (string, error) {
		return "", errors.New("cancelled")
	})

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrUserRejected)
}

func TestEmptyKeystoreUnavailable(t *testing.T) {
	t.Parallel()

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	p := NewKeystoreProvider(ks, nil, nil)
	assert.False(t, p.Available())

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, waveerr.ErrProviderUnavailable)
}
