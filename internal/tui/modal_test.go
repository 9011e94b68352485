package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/dispatch"
	"github.com/colonyops/callbell/pkg/tuitest"
)

func TestConfirmModal(t *testing.T) {
	th := styles.NewTheme(true)
	m := newConfirmModal("Confirm", "Mark the call as successful?", dispatch.Request{Kind: dispatch.KindComplete})
	assert.True(t, m.confirmSelected)

	m.toggle()
	assert.False(t, m.confirmSelected)

	view := tuitest.StripANSI(m.view(th, 80, 20))
	assert.Contains(t, view, "Mark the call as successful?")
	assert.Contains(t, view, "Confirm")
	assert.Contains(t, view, "Cancel")
}

func TestErrorModal(t *testing.T) {
	th := styles.NewTheme(false)
	m := &errorModal{title: "Action failed", message: "status 500"}

	view := tuitest.StripANSI(m.view(th, 80, 20))
	assert.Contains(t, view, "Action failed")
	assert.Contains(t, view, "status 500")
}
