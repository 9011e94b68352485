package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/toast"
)

func TestRenderToasts(t *testing.T) {
	th := styles.NewTheme(false)

	assert.Empty(t, renderToasts(nil, th, 60))

	out := renderToasts([]toast.Toast{
		{Message: "number copied: 89001234567"},
		{Message: "invalid number format for calling", IsError: true, State: toast.StateFading},
	}, th, 60)

	assert.Contains(t, out, styles.IconSuccess+" number copied")
	assert.Contains(t, out, styles.IconError+" invalid number")

	// Right alignment pads on the left.
	first := strings.Split(out, "\n")[0]
	assert.True(t, strings.HasPrefix(first, " "))
}
