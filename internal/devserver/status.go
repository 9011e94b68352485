package devserver

import (
	"fmt"
	"time"
)

// Notification statuses shown in the call list.
const (
	StatusOverdue   = "overdue"
	StatusSoon      = "soon"
	StatusNear      = "near"
	StatusScheduled = "scheduled"
)

// TimeUntil formats the wait until next as "2d 3h", "1h 5m" or "12m", or
// "overdue" once next has passed.
func TimeUntil(next, now time.Time) string {
	if !next.After(now) {
		return StatusOverdue
	}

	d := next.Sub(now)
	days := int(d / (24 * time.Hour))
	hours := int(d%(24*time.Hour)) / int(time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// NotificationStatus buckets the wait until next: overdue, soon (5 minutes
// or less), near (15 minutes or less) or scheduled.
func NotificationStatus(next, now time.Time) string {
	d := next.Sub(now)
	switch {
	case d <= 0:
		return StatusOverdue
	case d <= 5*time.Minute:
		return StatusSoon
	case d <= 15*time.Minute:
		return StatusNear
	default:
		return StatusScheduled
	}
}
