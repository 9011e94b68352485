// Package poller periodically fetches due reminders and feeds them into the
// notification store.
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/core/reminder"
)

// DefaultInterval matches the polling period of the web client.
const DefaultInterval = 2 * time.Second

// Source fetches the reminders that are due.
type Source interface {
	Notifications(ctx context.Context) ([]reminder.Record, error)
}

// Sink admits reminders for display.
type Sink interface {
	Admit(rec reminder.Record) (reminder.Notification, bool)
}

// Result summarizes one poll.
type Result struct {
	Seq      uint64
	Received int
	Admitted int
	Err      error
}

// Poller issues at most one request at a time. A tick that fires while a
// request is still running is skipped.
type Poller struct {
	source   Source
	sink     Sink
	interval time.Duration
	logger   zerolog.Logger

	seq      atomic.Uint64
	inFlight atomic.Bool
	trigger  chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	onResult []func(Result)
}

// New creates a Poller. A non-positive interval selects DefaultInterval.
func New(source Source, sink Sink, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		sink:     sink,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// OnResult registers a callback invoked after every completed poll.
func (p *Poller) OnResult(fn func(Result)) {
	p.mu.Lock()
	p.onResult = append(p.onResult, fn)
	p.mu.Unlock()
}

// Trigger asks Run for an immediate poll. Extra triggers coalesce.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run polls once immediately and then on every tick until ctx is done. It
// waits for the in-flight request to finish before returning.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.wg.Wait()

	p.start(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.trigger:
			p.start(ctx)
		case <-ticker.C:
			p.start(ctx)
		}
	}
}

// start launches a poll in its own goroutine unless one is running.
func (p *Poller) start(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug().Msg("poll skipped: previous request still in flight")
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		p.poll(ctx)
	}()
	return true
}

// Poll performs one synchronous poll. It returns false without polling when
// another poll is in flight.
func (p *Poller) Poll(ctx context.Context) (Result, bool) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Result{}, false
	}
	defer p.inFlight.Store(false)
	return p.poll(ctx), true
}

func (p *Poller) poll(ctx context.Context) Result {
	res := Result{Seq: p.seq.Add(1)}
	log := p.logger.With().Uint64("seq", res.Seq).Logger()

	records, err := p.source.Notifications(ctx)
	if err != nil {
		res.Err = err
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("poll failed")
		}
		p.emit(res)
		return res
	}

	res.Received = len(records)
	for _, rec := range records {
		if p.admit(ctx, rec) {
			res.Admitted++
		}
	}

	if res.Received > 0 {
		log.Debug().Int("received", res.Received).Int("admitted", res.Admitted).Msg("poll applied")
	}
	p.emit(res)
	return res
}

// admit hands one record to the sink. A panic is contained to that record.
func (p *Poller) admit(ctx context.Context, rec reminder.Record) (admitted bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Ctx(logging.WithCallID(ctx, rec.CallID)).
				Str("panic", fmt.Sprint(r)).
				Msg("admitting reminder panicked")
			admitted = false
		}
	}()
	_, admitted = p.sink.Admit(rec)
	return admitted
}

func (p *Poller) emit(res Result) {
	p.mu.Lock()
	fns := make([]func(Result), len(p.onResult))
	copy(fns, p.onResult)
	p.mu.Unlock()
	for _, fn := range fns {
		fn(res)
	}
}
