package portal

import (
	"strings"
	"testing"
	"time"

	"wave-portal-tui/history"

	"github.com/stretchr/testify/assert"
)

func TestFocusCycles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FocusConnect, FocusWave.Next())
	assert.Equal(t, FocusMessage, FocusConnect.Next())
	assert.Equal(t, FocusWave, FocusMessage.Next())
	assert.Equal(t, FocusMessage, FocusWave.Prev())
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	records := []history.Record{
		{Address: "0xbbbb", Timestamp: time.Unix(200, 0), Message: "second"},
		{Address: "0xaaaa", Timestamp: time.Unix(100, 0), Message: ""},
	}
	out := RenderHistory(records, 80)

	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "(no message)"))
	assert.Contains(t, out, "0xbbbb")
	assert.Contains(t, out, "0xaaaa")
}

func TestRenderHistoryEmpty(t *testing.T) {
	t.Parallel()

	assert.Contains(t, RenderHistory(nil, 80), "No waves yet.")
}

func TestRenderButtons(t *testing.T) {
	t.Parallel()

	out := Render(Props{Width: 80, Total: "3"}, "")
	assert.Contains(t, out, "Connect Wallet")
	assert.Contains(t, out, "Wave at Me")
	assert.Contains(t, out, "Total waves: 3")
	assert.Contains(t, out, "history not loaded")

	out = Render(Props{Width: 80, Connected: true, Live: true, Polling: true, HistoryLoaded: true, HistoryLen: 2}, "")
	assert.Contains(t, out, "Wallet Connected")
	assert.Contains(t, out, "2 in history")
	assert.Contains(t, out, "live (polling)")
}
