package rpc

import (
	"context"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestConnect(t *testing.T) {
	// Get RPC URL from environment
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)
		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}
		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
		defer result.Client.Close()

		if result.Client.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Client.URL)
		}
		if result.Client.ChainID == nil {
			t.Fatal("ChainID is nil after connect")
		}
		t.Logf("Connected to chain ID: %s", result.Client.ChainID)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		blockNum, err := result.Client.BlockNumber(ctx)
		if err != nil {
			t.Errorf("Failed to get block number: %v", err)
		} else {
			t.Logf("Latest block: %d", blockNum)
		}
	})

	t.Run("connection with timeout", func(t *testing.T) {
		result := ConnectWithTimeout(rpcURL, 10*time.Second)
		if result.Error != nil {
			t.Fatalf("Failed to connect with custom timeout: %v", result.Error)
		}
		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
		result.Client.Close()
	})
}

func TestConnectUnreachable(t *testing.T) {
	result := ConnectWithTimeout("http://127.0.0.1:1", 2*time.Second)
	if result.Error == nil {
		t.Fatal("expected an error for an unreachable endpoint")
	}
	if result.Client != nil {
		t.Error("Client should be nil on error")
	}
}

func TestSupportsPush(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"wss://mainnet.example/ws", true},
		{"ws://127.0.0.1:8546", true},
		{"/tmp/geth.ipc", true},
		{"https://ethereum-rpc.publicnode.com", false},
		{"http://127.0.0.1:8545", false},
	}
	for _, tt := range tests {
		if got := SupportsPush(tt.url); got != tt.want {
			t.Errorf("SupportsPush(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExplorerTxURL(t *testing.T) {
	hash := common.HexToHash("0x01")

	got := ExplorerTxURL(big.NewInt(11155111), hash)
	if !strings.HasPrefix(got, "https://sepolia.etherscan.io/tx/0x") {
		t.Errorf("unexpected sepolia link: %s", got)
	}
	if got := ExplorerTxURL(big.NewInt(1337), hash); got != "" {
		t.Errorf("dev chain should have no explorer, got %s", got)
	}
	if got := ExplorerTxURL(nil, hash); got != "" {
		t.Errorf("nil chain id should have no explorer, got %s", got)
	}
}

func TestGenerateQRCode(t *testing.T) {
	qr := GenerateQRCode("0x" + strings.Repeat("ab", 32))
	if qr == "" {
		t.Fatal("empty QR code")
	}
	if len(strings.Split(strings.TrimRight(qr, "\n"), "\n")) < 10 {
		t.Errorf("QR code looks too small:\n%s", qr)
	}
}
