// Package styles provides the lipgloss styles shared by the CLI and the TUI.
package styles

import (
	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Theme is the full set of styles derived from one palette.
type Theme struct {
	Palette Palette
	Dark    bool

	Header    lipgloss.Style
	StatusOK  lipgloss.Style
	StatusErr lipgloss.Style
	Muted     lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardClosing  lipgloss.Style
	CardTitle    lipgloss.Style
	CardComment  lipgloss.Style
	CardPhone    lipgloss.Style
	CardMeta     lipgloss.Style
	KeyHint      lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	ToastFading  lipgloss.Style

	Modal               lipgloss.Style
	ModalTitle          lipgloss.Style
	ModalError          lipgloss.Style
	ModalHelp           lipgloss.Style
	ModalButton         lipgloss.Style
	ModalButtonSelected lipgloss.Style

	PaneTitle        lipgloss.Style
	PaneTitleFocused lipgloss.Style
	TableHeader      lipgloss.Style
	TableSelected    lipgloss.Style

	// CLI output.
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds the styles for the dark or light palette.
func NewTheme(dark bool) Theme {
	p := PaletteFor(dark)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1).
		MarginBottom(1)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)

	button := lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 2)

	return Theme{
		Palette: p,
		Dark:    dark,

		Header:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		StatusOK:  lipgloss.NewStyle().Foreground(p.Success),
		StatusErr: lipgloss.NewStyle().Foreground(p.Error),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),

		Card:         card,
		CardSelected: card.BorderForeground(p.Warning),
		CardClosing:  card.BorderForeground(p.Muted).Foreground(p.Muted).Faint(true),
		CardTitle:    lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		CardComment:  lipgloss.NewStyle().Foreground(p.Foreground),
		CardPhone:    lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		CardMeta:     lipgloss.NewStyle().Foreground(p.Muted),
		KeyHint:      lipgloss.NewStyle().Foreground(p.Primary),

		ToastSuccess: toast.BorderForeground(p.Success).Foreground(p.Success),
		ToastError:   toast.BorderForeground(p.Error).Foreground(p.Error),
		ToastFading:  toast.BorderForeground(p.Muted).Foreground(p.Muted).Faint(true),

		Modal:               modal,
		ModalTitle:          lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		ModalError:          modal.BorderForeground(p.Error),
		ModalHelp:           lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
		ModalButton:         button,
		ModalButtonSelected: button.Foreground(p.Background).Background(p.Primary).Bold(true),

		PaneTitle:        lipgloss.NewStyle().Foreground(p.Muted).Bold(true),
		PaneTitleFocused: lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Underline(true),
		TableHeader:      lipgloss.NewStyle().Bold(true).Foreground(p.Primary).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(p.Surface),
		TableSelected:    lipgloss.NewStyle().Foreground(p.Background).Background(p.Primary),

		Label:   lipgloss.NewStyle().Foreground(p.Muted).Width(14),
		Value:   lipgloss.NewStyle().Foreground(p.Foreground).Bold(true),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
	}
}

// GlamourStyle returns a glamour style config tinted with the palette.
func GlamourStyle(dark bool) glamouransi.StyleConfig {
	cfg := glamourstyles.LightStyleConfig
	if dark {
		cfg = glamourstyles.DarkStyleConfig
	}
	p := PaletteFor(dark)

	fg := hexPtr(p.Foreground)
	primary := hexPtr(p.Primary)
	secondary := hexPtr(p.Secondary)
	muted := hexPtr(p.Muted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg
	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted
	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary
	cfg.Table.Color = fg

	return cfg
}

// RenderMarkdown renders md for a terminal of the given width.
func RenderMarkdown(md string, width int, dark bool) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(GlamourStyle(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func hexPtr(c lipgloss.Color) *string {
	s := string(c)
	return &s
}
