package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonStates(t *testing.T) {
	assert.Equal(t, CButton, ButtonStyle.GetBackground())
	assert.Equal(t, CWave, ActiveButtonStyle.GetBackground())
	assert.True(t, ActiveButtonStyle.GetUnderline())
	assert.Equal(t, CConnected, ConnectedButtonStyle.GetBackground())
	assert.Equal(t, ButtonStyle.GetForeground(), ConnectedButtonStyle.GetForeground())
}

func TestWaveCardBorder(t *testing.T) {
	assert.True(t, WaveCardStyle.GetBorderLeft())
	assert.False(t, WaveCardStyle.GetBorderRight())
	assert.Equal(t, CWave, WaveCardStyle.GetBorderLeftForeground())
}
