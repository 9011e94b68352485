package devserver

import "time"

// Seed fills b with two due calls, one due within the next couple of
// minutes, and a tracking claim whose call is due in ten minutes.
func Seed(b *Backend) {
	now := b.clock.Now()

	b.AddCall("Internet down since morning", "8 (999) 123-45-67", CallTypeCallback, now.Add(-time.Minute))
	b.AddCall("Asked to call <after lunch>", "+7 912 000-11-22", CallTypeCallback, now.Add(-2*time.Minute))
	b.AddCall("Router replacement", "9161234567", CallTypeCallback, now.Add(time.Minute))
	b.AddTracking("Claim 1042: new connection", "8 916 765-43-21", "CRM-77812", now.Add(-50*time.Minute))
}
