package settings

import (
	"regexp"
	"testing"

	"wave-portal-tui/config"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestRenderListsEndpointsAndContract(t *testing.T) {
	cfg := config.DefaultConfig()
	out := plain(Render(cfg, 0))

	for _, r := range cfg.RPCURLs {
		assert.Contains(t, out, r.Name)
		assert.Contains(t, out, r.URL)
	}
	assert.Contains(t, out, "Wallet & Contract")
	assert.Contains(t, out, "300000")
	assert.Contains(t, out, "4s")
}

func TestRenderEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RPCURLs = nil
	cfg.KeystoreDir = ""

	out := plain(Render(cfg, 0))
	assert.Contains(t, out, "No RPC URLs configured.")
	assert.Contains(t, out, "not set")
}

func TestNavByMode(t *testing.T) {
	assert.Contains(t, plain(Nav(200, ModeList)), "wallet/contract")
	assert.NotContains(t, plain(Nav(200, ModeAdd)), "activate")
}
