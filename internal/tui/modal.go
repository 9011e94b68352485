package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/dispatch"
)

// confirmModal asks before an action that requires confirmation.
type confirmModal struct {
	title           string
	message         string
	req             dispatch.Request
	confirmSelected bool
}

func newConfirmModal(title, message string, req dispatch.Request) *confirmModal {
	return &confirmModal{
		title:           title,
		message:         message,
		req:             req,
		confirmSelected: true,
	}
}

func (m *confirmModal) toggle() {
	m.confirmSelected = !m.confirmSelected
}

func (m *confirmModal) view(th styles.Theme, width, height int) string {
	confirmBtn := th.ModalButton.Render("Confirm")
	cancelBtn := th.ModalButton.Render("Cancel")
	if m.confirmSelected {
		confirmBtn = th.ModalButtonSelected.Render("Confirm")
	} else {
		cancelBtn = th.ModalButtonSelected.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		th.ModalTitle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		th.ModalHelp.Render("←/→ select  enter confirm  y/n  esc cancel"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, th.Modal.Render(content))
}

// errorModal blocks until acknowledged.
type errorModal struct {
	title   string
	message string
}

func (m *errorModal) view(th styles.Theme, width, height int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		th.StatusErr.Bold(true).Render(styles.IconError+" "+m.title),
		"",
		lipgloss.NewStyle().Width(min(width-8, 70)).Render(m.message),
		th.ModalHelp.Render("enter to acknowledge"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, th.ModalError.Render(content))
}
