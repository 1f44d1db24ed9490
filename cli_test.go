package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wave-portal-tui/config"
	"wave-portal-tui/contract"
	"wave-portal-tui/helpers"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	waves []contract.RawWave
	total *big.Int
	err   error
}

func (r stubReader) GetTotalWaves(context.Context) (*big.Int, error) { return r.total, r.err }

func (r stubReader) GetAllWaves(context.Context) ([]contract.RawWave, error) { return r.waves, r.err }

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPrintWavesNewestFirst(t *testing.T) {
	var out bytes.Buffer
	err := printWaves(context.Background(), stubReader{waves: twoWaves()}, &out, quietLogger())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, helpers.WaveTime(time.Unix(1_700_000_100, 0))+"  "+accountB.Hex()+"  second", lines[0])
	assert.Contains(t, lines[1], "first")
}

func TestPrintWavesEmptyMessage(t *testing.T) {
	var out bytes.Buffer
	waves := []contract.RawWave{{Waver: accountA, Timestamp: big.NewInt(1)}}
	require.NoError(t, printWaves(context.Background(), stubReader{waves: waves}, &out, quietLogger()))
	assert.Contains(t, out.String(), "(no message)")
}

func TestPrintWavesReadError(t *testing.T) {
	var out bytes.Buffer
	err := printWaves(context.Background(), stubReader{err: errors.New("boom")}, &out, quietLogger())
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestPrintCount(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCount(context.Background(), stubReader{total: big.NewInt(42)}, &out, quietLogger()))
	assert.Equal(t, "42\n", out.String())
}

func TestLoadConfigPrecedence(t *testing.T) {
	envAddr := "0x00000000000000000000000000000000000000cc"
	flagAddr := "0x00000000000000000000000000000000000000dd"
	t.Setenv(config.EnvContract, envAddr)
	t.Setenv(config.EnvRPCURL, "")
	t.Setenv(config.EnvWalletRPCURL, "")
	t.Setenv(config.EnvKeystore, "")

	f := &rootFlags{configPath: filepath.Join(t.TempDir(), "cfg.json")}
	assert.Equal(t, envAddr, loadConfig(f).ContractAddress)

	f.contract = flagAddr
	f.rpcURL = "ws://10.0.0.1:8546"
	f.keystore = "/tmp/keys"
	cfg := loadConfig(f)
	assert.Equal(t, flagAddr, cfg.ContractAddress)
	assert.Equal(t, "/tmp/keys", cfg.KeystoreDir)
	active, ok := cfg.ActiveRPC()
	require.True(t, ok)
	assert.Equal(t, "ws://10.0.0.1:8546", active.URL)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["waves"])
	assert.True(t, names["count"])
	for _, flag := range []string{"config", "rpc", "contract", "wallet", "keystore"} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	if home, err := os.UserHomeDir(); err == nil {
		assert.Equal(t, filepath.Join(home, "keys"), expandHome("~/keys"))
	}
}
