package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileName is the config file kept in the user's home directory.
const FileName = ".wave-portal-config.json"

// Environment overrides, applied on top of the file.
const (
	EnvRPCURL       = "ETH_RPC_URL"
	EnvWalletRPCURL = "WALLET_RPC_URL"
	EnvContract     = "WAVE_CONTRACT_ADDRESS"
	EnvKeystore     = "WALLET_KEYSTORE"
)

// Config represents the application configuration
type Config struct {
	RPCURLs         []RPCUrl `json:"rpc_urls"`
	WalletRPCURL    string   `json:"wallet_rpc_url,omitempty"`
	KeystoreDir     string   `json:"keystore_dir,omitempty"`
	ContractAddress string   `json:"contract_address"`
	ABIPath         string   `json:"abi_path,omitempty"`
	GasLimit        uint64   `json:"gas_limit"`
	PollSeconds     int      `json:"poll_seconds"`
	Logger          bool     `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// DefaultPath returns ~/.wave-portal-config.json, or the bare file name when
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Sepolia (publicnode)",
				URL:    "wss://ethereum-sepolia-rpc.publicnode.com",
				Active: true,
			},
			{
				Name: "Local dev node",
				URL:  "ws://127.0.0.1:8545",
			},
		},
		WalletRPCURL:    "http://127.0.0.1:1248",
		ContractAddress: "0x4C18bD8949FD3E18c2C2E80F321Fc9713dE45B6c",
		GasLimit:        300000,
		PollSeconds:     4,
		Logger:          false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg.withDefaults()
}

// withDefaults fills fields an older or hand-edited file left empty.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.RPCURLs) == 0 {
		c.RPCURLs = def.RPCURLs
	}
	if c.ContractAddress == "" {
		c.ContractAddress = def.ContractAddress
	}
	if c.GasLimit == 0 {
		c.GasLimit = def.GasLimit
	}
	if c.PollSeconds <= 0 {
		c.PollSeconds = def.PollSeconds
	}
	return c
}

// ApplyEnv overlays the environment on cfg. An ETH_RPC_URL that is not in the
// list is added as the active endpoint.
func ApplyEnv(cfg Config) Config {
	return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg Config, getenv func(string) string) Config {
	if url := getenv(EnvRPCURL); url != "" {
		cfg = cfg.WithActiveRPC(url)
	}
	if v := getenv(EnvWalletRPCURL); v != "" {
		cfg.WalletRPCURL = v
	}
	if v := getenv(EnvContract); v != "" {
		cfg.ContractAddress = v
	}
	if v := getenv(EnvKeystore); v != "" {
		cfg.KeystoreDir = v
	}
	return cfg
}

// WithActiveRPC marks url active, adding it to the list when missing.
func (c Config) WithActiveRPC(url string) Config {
	urls := make([]RPCUrl, 0, len(c.RPCURLs)+1)
	found := false
	for _, r := range c.RPCURLs {
		r.Active = r.URL == url
		found = found || r.Active
		urls = append(urls, r)
	}
	if !found {
		urls = append(urls, RPCUrl{Name: "Custom", URL: url, Active: true})
	}
	c.RPCURLs = urls
	return c
}

// ActiveRPC returns the active endpoint, falling back to the first one.
func (c Config) ActiveRPC() (RPCUrl, bool) {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r, true
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0], true
	}
	return RPCUrl{}, false
}

// PollInterval is the log polling cadence for endpoints without push support.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// ParseGasLimit validates a gas limit typed into the settings form.
func ParseGasLimit(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// Page identifies the screen the TUI is showing.
type Page int

const (
	PagePortal Page = iota
	PageHome
	PageSettings
)
