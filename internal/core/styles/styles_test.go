package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, Dark, PaletteFor(true))
	assert.Equal(t, Light, PaletteFor(false))
}

func TestNewTheme(t *testing.T) {
	dark := NewTheme(true)
	light := NewTheme(false)

	assert.True(t, dark.Dark)
	assert.False(t, light.Dark)
	assert.Equal(t, Dark.Primary, dark.Palette.Primary)
	assert.NotEqual(t, dark.Palette.Background, light.Palette.Background)
}

func TestGlamourStyle(t *testing.T) {
	cfg := GlamourStyle(true)
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, string(Dark.Foreground), *cfg.Document.Color)

	cfg = GlamourStyle(false)
	assert.Equal(t, string(Light.Foreground), *cfg.Document.Color)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Keys\n\n- `c` call", 60, true)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Keys"))
	assert.True(t, strings.Contains(out, "call"))
}

func TestFormTheme(t *testing.T) {
	for _, dark := range []bool{true, false} {
		th := FormTheme(dark)
		require.NotNil(t, th)
		assert.Equal(t, PaletteFor(dark).Primary, th.Focused.Title.GetForeground())
	}
}
