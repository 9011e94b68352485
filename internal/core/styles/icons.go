package styles

// Plain unicode so the UI works without a patched font.
var (
	IconBell    = "🔔"
	IconPhone   = "☎"
	IconClock   = "◷"
	IconSuccess = "✓"
	IconError   = "✗"
	IconDot     = "•"
	IconPending = "…"
)
