// Package watcher runs the poll cycle: fetch homework statuses, validate,
// translate, notify, sleep. It owns the two pieces of process state the
// cycle needs: the timestamp cursor and the last notified error text.
package watcher

import (
	"context"
	"errors"
	"time"

	"hwbot/internal/practicum"
	"hwbot/internal/schedule"
	"hwbot/internal/telegram"
	logx "hwbot/pkg/logx"
)

// API is the fetch capability the watcher polls.
type API interface {
	HomeworkStatuses(ctx context.Context, from int64) ([]byte, error)
}

// Sender is the chat delivery capability.
type Sender interface {
	SendText(ctx context.Context, text string) error
}

// failurePrefix is prepended to every error sent to the chat. Frozen text,
// same as the verdict templates.
const failurePrefix = "Сбой в работе программы: "

type Watcher struct {
	api    API
	sender Sender
	sched  schedule.Schedule
	log    logx.Logger

	now func() time.Time

	// cursor marks the point up to which updates have been fetched.
	// Advanced only after a fully clean cycle; never decremented, never
	// persisted.
	cursor int64

	// lastErrNotified is the text of the most recently delivered error.
	// Identical consecutive errors are logged but not re-sent.
	lastErrNotified string
}

type Option func(*Watcher)

// WithNow overrides the clock; used by tests.
func WithNow(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

func New(api API, sender Sender, sched schedule.Schedule, log logx.Logger, opts ...Option) *Watcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	w := &Watcher{
		api:    api,
		sender: sender,
		sched:  sched,
		log:    log,
		now:    time.Now,
	}
	for _, o := range opts {
		o(w)
	}
	w.cursor = w.now().Unix()
	return w
}

// Cursor returns the current timestamp cursor.
func (w *Watcher) Cursor() int64 { return w.cursor }

// Run loops until ctx is canceled. The wait between cycles is
// unconditional: failure and success sleep the same way.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watcher started",
		logx.String("schedule", w.sched.String()),
		logx.Int64("cursor", w.cursor))

	for {
		w.RunCycle(ctx)

		wait := w.sched.Wait(w.now())
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil
		case <-time.After(wait):
		}
	}
}

// RunCycle performs one fetch-validate-translate-notify pass.
//
// Record failures are isolated: a bad record is reported and the remaining
// records are still attempted. Any failure in the cycle freezes the cursor;
// only a fully clean cycle advances it (and clears the duplicate-error
// state, so a recurrence after recovery is notified again).
func (w *Watcher) RunCycle(ctx context.Context) {
	body, err := w.api.HomeworkStatuses(ctx, w.cursor)
	if err != nil {
		w.reportFailure(ctx, err)
		return
	}

	report, err := practicum.ParseReport(body)
	if err != nil {
		w.reportFailure(ctx, err)
		return
	}

	if len(report.Homeworks) == 0 {
		w.log.Debug("no homework updates", logx.Int64("cursor", w.cursor))
	}

	clean := true
	for _, hw := range report.Homeworks {
		msg, err := practicum.ParseStatus(hw)
		if err != nil {
			w.reportFailure(ctx, err)
			clean = false
			continue
		}
		if err := w.sender.SendText(ctx, msg); err != nil {
			w.reportFailure(ctx, err)
			clean = false
			continue
		}
	}
	if !clean {
		return
	}

	if report.CurrentDate != 0 {
		w.cursor = report.CurrentDate
	}
	w.lastErrNotified = ""
}

// reportFailure is the single cycle-level error boundary. Every failure is
// logged; most are also mirrored to the chat, except:
//   - delivery failures (ErrSendFailed), which are log-only so a broken
//     sender can't feed itself
//   - errors whose text matches the last notified one, which are
//     suppressed until the text changes or a cycle succeeds
func (w *Watcher) reportFailure(ctx context.Context, err error) {
	msg := failurePrefix + err.Error()
	w.log.Error("cycle failed", logx.Err(err))

	if errors.Is(err, telegram.ErrSendFailed) {
		return
	}
	if msg == w.lastErrNotified {
		w.log.Debug("duplicate error notification suppressed")
		return
	}
	if sendErr := w.sender.SendText(ctx, msg); sendErr != nil {
		// Leave lastErrNotified untouched: the chat has not seen this
		// message, so the next cycle may try again.
		w.log.Error("error notification not delivered", logx.Err(sendErr))
		return
	}
	w.lastErrNotified = msg
}
