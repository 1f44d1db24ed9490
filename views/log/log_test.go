package log

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"
)

func TestHeight(t *testing.T) {
	tests := []struct {
		term int
		want int
	}{
		{term: 12, want: 4},
		{term: 30, want: 10},
		{term: 60, want: 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Height(tt.term), "term height %d", tt.term)
	}
}

func TestRenderShowsTitleAndContent(t *testing.T) {
	vp := viewport.New(40, 5)
	vp.SetContent("wave received")

	out := Render(80, 30, vp)
	assert.Contains(t, out, "Log")
	assert.True(t, strings.Contains(out, "wave received"))
}
