// Package devserver is an in-memory stand-in for the call-reminder backend.
// It serves the same endpoints and mutation rules so the client can be run
// and tested without the real service.
package devserver

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/pkg/clock"
)

// Call types as the backend labels them.
const (
	CallTypeNoAnswer = "no-answer"
	CallTypeCallback = "callback"
	CallTypeTracking = "tracking"
)

// Tracking statuses.
const (
	StatusActive = "active"
	StatusDone   = "done"
)

// PostponeStep is how far the postpone action moves a call.
const PostponeStep = 10 * time.Minute

// DefaultIntervals maps attempt number to retry delay in minutes.
func DefaultIntervals() map[int]int {
	return map[int]int{1: 20, 2: 30, 3: 60, 4: 120, 5: 240}
}

// fallbackInterval applies when an attempt number has no configured delay.
const fallbackInterval = 20

// ErrNotFound is returned for an unknown call or tracking id.
var ErrNotFound = errors.New("not found")

type call struct {
	ID            int
	Comment       string
	Phone         string
	FirstAttempt  time.Time
	NextAttempt   time.Time
	AttemptNumber int
	CallType      string
	NotifiedAt    *time.Time
}

type tracking struct {
	ID         int
	Claim      string
	Phone      string
	CRM        string
	Connection time.Time
	CallID     int // 0 when unlinked
	Status     string
	Completed  bool
}

// Backend holds the server state. All methods are safe for concurrent use.
type Backend struct {
	clock     clock.Clock
	loc       *time.Location
	intervals map[int]int

	mu       sync.Mutex
	nextID   int
	calls    map[int]*call
	tracking map[int]*tracking
	settings settings.Settings
}

// NewBackend creates an empty backend. A nil clock uses the real clock and a
// nil location uses time.Local.
func NewBackend(c clock.Clock, loc *time.Location) *Backend {
	if c == nil {
		c = clock.Real{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Backend{
		clock:     c,
		loc:       loc,
		intervals: DefaultIntervals(),
		nextID:    1,
		calls:     make(map[int]*call),
		tracking:  make(map[int]*tracking),
		settings:  settings.Defaults(),
	}
}

func (b *Backend) id() int {
	id := b.nextID
	b.nextID++
	return id
}

// AddCall schedules a call. A zero next time schedules it by the first retry
// interval, as the backend does for new no-answer entries.
func (b *Backend) AddCall(comment, phone, callType string, next time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	if callType == "" {
		callType = CallTypeNoAnswer
	}
	if next.IsZero() || callType == CallTypeNoAnswer {
		next = now.Add(b.interval(1))
	}

	c := &call{
		ID:            b.id(),
		Comment:       comment,
		Phone:         phone,
		FirstAttempt:  now,
		NextAttempt:   ceilToMinute(next),
		AttemptNumber: 1,
		CallType:      callType,
	}
	b.calls[c.ID] = c
	return c.ID
}

// AddTracking records a claim and schedules a linked tracking call one hour
// after the connection time.
func (b *Backend) AddTracking(claim, phone, crm string, connection time.Time) (trackingID, callID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &call{
		ID:            b.id(),
		Comment:       claim,
		Phone:         phone,
		FirstAttempt:  b.clock.Now(),
		NextAttempt:   ceilToMinute(connection.Add(time.Hour)),
		AttemptNumber: 1,
		CallType:      CallTypeTracking,
	}
	b.calls[c.ID] = c

	t := &tracking{
		ID:         b.id(),
		Claim:      claim,
		Phone:      phone,
		CRM:        crm,
		Connection: connection,
		CallID:     c.ID,
		Status:     StatusActive,
	}
	b.tracking[t.ID] = t
	return t.ID, c.ID
}

// DueNotifications returns the calls whose next attempt has arrived and that
// were not returned before, and marks them notified.
func (b *Backend) DueNotifications() []api.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	out := []api.Notification{}
	for _, c := range b.sortedCalls() {
		if c.NotifiedAt != nil || ceilToMinute(c.NextAttempt).After(now) {
			continue
		}
		out = append(out, api.Notification{
			ID:          idNumber(c.ID),
			Comment:     c.Comment,
			Phone:       c.Phone,
			NextAttempt: ceilToMinute(c.NextAttempt).In(b.loc).Format("15:04"),
			CallType:    c.CallType,
		})
		notified := now
		c.NotifiedAt = &notified
	}
	return out
}

// NoAnswer advances the attempt counter and reschedules the call by the
// interval configured for the new attempt.
func (b *Backend) NoAnswer(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.calls[id]
	if !ok {
		return ErrNotFound
	}
	c.AttemptNumber++
	c.NextAttempt = ceilToMinute(b.clock.Now().Add(b.interval(c.AttemptNumber)))
	c.CallType = CallTypeCallback
	c.NotifiedAt = nil
	return nil
}

// Postpone moves the call by PostponeStep.
func (b *Backend) Postpone(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.calls[id]
	if !ok {
		return ErrNotFound
	}
	c.NextAttempt = ceilToMinute(c.NextAttempt.Add(PostponeStep))
	c.NotifiedAt = nil
	return nil
}

// Complete deletes the call and marks its linked tracking record done.
func (b *Backend) Complete(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.calls[id]; !ok {
		return ErrNotFound
	}
	for _, t := range b.tracking {
		if t.CallID == id {
			t.CallID = 0
			t.Completed = true
			t.Status = StatusDone
		}
	}
	delete(b.calls, id)
	return nil
}

// Calls returns every call ordered by next attempt.
func (b *Backend) Calls() []api.Call {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()
	out := []api.Call{}
	for _, c := range b.sortedCalls() {
		next := ceilToMinute(c.NextAttempt)
		out = append(out, api.Call{
			ID:                 idNumber(c.ID),
			Comment:            c.Comment,
			Phone:              c.Phone,
			FirstAttempt:       c.FirstAttempt.In(b.loc).Format("2006-01-02 15:04"),
			NextAttempt:        next.In(b.loc).Format("2006-01-02 15:04"),
			AttemptNumber:      c.AttemptNumber,
			TimeUntil:          TimeUntil(next, now),
			NotificationStatus: NotificationStatus(next, now),
			CallType:           c.CallType,
		})
	}
	return out
}

// Tracking returns every tracking record ordered by id.
func (b *Backend) Tracking() []api.Tracking {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int, 0, len(b.tracking))
	for id := range b.tracking {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := []api.Tracking{}
	for _, id := range ids {
		t := b.tracking[id]
		row := api.Tracking{
			TrackingID:         idNumber(t.ID),
			Claim:              t.Claim,
			Phone:              t.Phone,
			CRM:                t.CRM,
			ConnectionDatetime: t.Connection.In(b.loc).Format("2006-01-02 15:04"),
			Status:             t.Status,
			Completed:          t.Completed,
		}
		if t.CallID != 0 {
			n := idNumber(t.CallID)
			row.CallRecordID = &n
		}
		out = append(out, row)
	}
	return out
}

func (b *Backend) Settings() settings.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

func (b *Backend) SetSettings(s settings.Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s
}

// sortedCalls orders by next attempt, then id. Caller holds b.mu.
func (b *Backend) sortedCalls() []*call {
	out := make([]*call, 0, len(b.calls))
	for _, c := range b.calls {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NextAttempt.Equal(out[j].NextAttempt) {
			return out[i].ID < out[j].ID
		}
		return out[i].NextAttempt.Before(out[j].NextAttempt)
	})
	return out
}

func (b *Backend) interval(attempt int) time.Duration {
	m, ok := b.intervals[attempt]
	if !ok {
		m = fallbackInterval
	}
	return time.Duration(m) * time.Minute
}

func idNumber(id int) api.ID {
	return api.ID(strconv.Itoa(id))
}

// ceilToMinute rounds t up to the next whole minute. Whole minutes are
// returned unchanged.
func ceilToMinute(t time.Time) time.Time {
	trunc := t.Truncate(time.Minute)
	if trunc.Equal(t) {
		return t
	}
	return trunc.Add(time.Minute)
}
