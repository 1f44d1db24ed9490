package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wave-portal-tui/config"
	"wave-portal-tui/contract"
	"wave-portal-tui/helpers"
	"wave-portal-tui/history"
	waveerr "wave-portal-tui/pkg/errors"
	"wave-portal-tui/rpc"
	"wave-portal-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// -------------------- CLI --------------------

type rootFlags struct {
	configPath string
	rpcURL     string
	walletURL  string
	contract   string
	keystore   string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "wave-portal",
		Short:         "Wave at the WavePortal contract from your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(f)
		},
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&f.rpcURL, "rpc", "", "chain RPC endpoint (ws:// for live push)")
	root.PersistentFlags().StringVar(&f.contract, "contract", "", "WavePortal contract address")
	root.Flags().StringVar(&f.walletURL, "wallet", "", "wallet JSON-RPC endpoint")
	root.Flags().StringVar(&f.keystore, "keystore", "", "go-ethereum keystore directory")

	root.AddCommand(newWavesCmd(f), newCountCmd(f))
	return root
}

// loadConfig resolves file, then env, then flags
func loadConfig(f *rootFlags) config.Config {
	cfg := config.ApplyEnv(config.LoadOrCreate(f.configPath))
	if f.rpcURL != "" {
		cfg = cfg.WithActiveRPC(f.rpcURL)
	}
	if f.walletURL != "" {
		cfg.WalletRPCURL = f.walletURL
	}
	if f.contract != "" {
		cfg.ContractAddress = f.contract
	}
	if f.keystore != "" {
		cfg.KeystoreDir = f.keystore
	}
	return cfg
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func runTUI(f *rootFlags) error {
	cfg := loadConfig(f)
	if !helpers.IsValidEthAddress(cfg.ContractAddress) {
		return waveerr.WithCause(waveerr.ErrInvalidConfig, fmt.Errorf("contract address %q", cfg.ContractAddress))
	}
	contractABI, err := contract.LoadABIFile(cfg.ABIPath)
	if err != nil {
		return waveerr.WithCause(waveerr.ErrInvalidConfig, err)
	}

	deps := modelDeps{cfg: cfg, configPath: f.configPath, abi: contractABI}

	switch {
	case cfg.KeystoreDir != "":
		box := &passphraseBox{}
		ks := wallet.OpenKeystore(expandHome(cfg.KeystoreDir))
		deps.provider = wallet.NewKeystoreProvider(ks, nil, box.Passphrase)
		deps.passphrase = box
	case cfg.WalletRPCURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), walletTimeout)
		p, err := wallet.DialRPC(ctx, cfg.WalletRPCURL)
		cancel()
		if err == nil {
			defer p.Close()
			deps.provider = p
		}
	}

	m := newModel(deps)
	switch p := deps.provider.(type) {
	case *wallet.RPCProvider:
		m.addLog("info", fmt.Sprintf("Wallet endpoint `%s`", p.URL()))
	case *wallet.KeystoreProvider:
		m.addLog("info", fmt.Sprintf("Keystore wallet at `%s`", cfg.KeystoreDir))
	case nil:
		if cfg.WalletRPCURL != "" {
			m.addLog("error", fmt.Sprintf("Wallet endpoint `%s` is unreachable", cfg.WalletRPCURL))
		}
	}

	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	m.shutdown()
	if ks, ok := m.provider.(*wallet.KeystoreProvider); ok {
		if lerr := ks.Lock(); lerr != nil {
			newCLILogger(false).Warn("re-locking keystore failed", "err", lerr)
		}
	}
	return err
}

// -------------------- NON-INTERACTIVE --------------------

// waveReader is the read side of the contract the subcommands need.
type waveReader interface {
	GetTotalWaves(ctx context.Context) (*big.Int, error)
	GetAllWaves(ctx context.Context) ([]contract.RawWave, error)
}

func dialContract(f *rootFlags, logger *log.Logger) (*contract.Client, func(), error) {
	cfg := loadConfig(f)
	r, ok := cfg.ActiveRPC()
	if !ok {
		return nil, nil, waveerr.WithCause(waveerr.ErrInvalidConfig, fmt.Errorf("no RPC endpoint configured"))
	}
	contractABI, err := contract.LoadABIFile(cfg.ABIPath)
	if err != nil {
		return nil, nil, waveerr.WithCause(waveerr.ErrInvalidConfig, err)
	}

	logger.Debug("dialing", "rpc", r.URL)
	conn := rpc.Connect(r.URL)
	if conn.Error != nil {
		return nil, nil, waveerr.WithCause(waveerr.ErrRead, conn.Error)
	}
	c, err := contract.New(cfg.ContractAddress, contractABI, conn.Client.Client, &contract.Options{GasLimit: cfg.GasLimit})
	if err != nil {
		conn.Client.Close()
		return nil, nil, err
	}
	logger.Debug("bound contract", "address", c.Address().Hex(), "chain", conn.Client.ChainID)
	return c, conn.Client.Close, nil
}

func newCLILogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "wave-portal",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newWavesCmd(f *rootFlags) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "waves",
		Short: "Print every wave, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newCLILogger(verbose)
			c, closeFn, err := dialContract(f, logger)
			if err != nil {
				logger.Error("connect failed", "err", err)
				return err
			}
			defer closeFn()
			return printWaves(cmd.Context(), c, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func newCountCmd(f *rootFlags) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the total wave count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newCLILogger(verbose)
			c, closeFn, err := dialContract(f, logger)
			if err != nil {
				logger.Error("connect failed", "err", err)
				return err
			}
			defer closeFn()
			return printCount(cmd.Context(), c, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func printWaves(ctx context.Context, r waveReader, w io.Writer, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	raw, err := r.GetAllWaves(ctx)
	if err != nil {
		logger.Error("reading waves failed", "err", err)
		return err
	}

	store := history.New()
	records := make([]history.Record, 0, len(raw))
	for _, wv := range raw {
		records = append(records, history.NewRecord(wv.Waver.Hex(), wv.Timestamp, wv.Message))
	}
	store.ReplaceAll(records)
	logger.Info("loaded waves", "count", store.Len())

	for _, rec := range store.SnapshotReversed() {
		msg := rec.Message
		if msg == "" {
			msg = "(no message)"
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", helpers.WaveTime(rec.Timestamp), rec.Address, msg); err != nil {
			return err
		}
	}
	return nil
}

func printCount(ctx context.Context, r waveReader, w io.Writer, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	total, err := r.GetTotalWaves(ctx)
	if err != nil {
		logger.Error("reading wave count failed", "err", err)
		return err
	}
	logger.Debug("retrieved total wave count", "total", total)
	_, err = fmt.Fprintln(w, total.String())
	return err
}
