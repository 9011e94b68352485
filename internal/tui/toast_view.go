package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/callbell/internal/core/styles"
	"github.com/colonyops/callbell/internal/core/toast"
)

// renderToasts stacks toasts newest at the bottom, right-aligned to width.
func renderToasts(toasts []toast.Toast, th styles.Theme, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	rows := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := th.ToastSuccess
		icon := styles.IconSuccess
		if t.IsError {
			style = th.ToastError
			icon = styles.IconError
		}
		if t.State == toast.StateFading {
			style = th.ToastFading
		}
		box := style.Render(icon + " " + t.Message)
		rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right, box))
	}
	return strings.Join(rows, "\n")
}
