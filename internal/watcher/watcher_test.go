package watcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hwbot/internal/schedule"
	"hwbot/internal/telegram"
	logx "hwbot/pkg/logx"
)

type apiReply struct {
	body []byte
	err  error
}

type fakeAPI struct {
	replies []apiReply
	calls   []int64
}

func (f *fakeAPI) HomeworkStatuses(ctx context.Context, from int64) ([]byte, error) {
	f.calls = append(f.calls, from)
	if len(f.replies) == 0 {
		return nil, errors.New("fakeAPI: no reply scripted")
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.body, r.err
}

type fakeSender struct {
	sent []string
	// fail, if set, is returned for matching texts.
	fail func(text string) error
}

func (f *fakeSender) SendText(ctx context.Context, text string) error {
	if f.fail != nil {
		if err := f.fail(text); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, text)
	return nil
}

const startUnix = 1690000000

func newTestWatcher(t *testing.T, api *fakeAPI, sender *fakeSender) *Watcher {
	t.Helper()
	sched, err := schedule.Parse("10m")
	if err != nil {
		t.Fatalf("schedule.Parse: %v", err)
	}
	now := func() time.Time { return time.Unix(startUnix, 0) }
	return New(api, sender, sched, logx.Nop(), WithNow(now))
}

func TestCycleApprovedHomework(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1700000000}`),
	}}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1: %q", len(sender.sent), sender.sent)
	}
	want := `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`
	if sender.sent[0] != want {
		t.Fatalf("message = %q, want %q", sender.sent[0], want)
	}
	if w.Cursor() != 1700000000 {
		t.Fatalf("cursor = %d, want 1700000000", w.Cursor())
	}
	if api.calls[0] != startUnix {
		t.Fatalf("first fetch cursor = %d, want %d", api.calls[0], startUnix)
	}
}

func TestCycleNoUpdates(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[],"current_date":1700000100}`),
	}}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())

	if len(sender.sent) != 0 {
		t.Fatalf("sent %q, want nothing", sender.sent)
	}
	if w.Cursor() != 1700000100 {
		t.Fatalf("cursor = %d, want 1700000100", w.Cursor())
	}
}

func TestCycleZeroCurrentDateKeepsCursor(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[],"current_date":0}`),
	}}}
	w := newTestWatcher(t, api, &fakeSender{})

	w.RunCycle(context.Background())

	if w.Cursor() != startUnix {
		t.Fatalf("cursor = %d, want unchanged %d", w.Cursor(), startUnix)
	}
}

func TestDuplicateErrorSuppressed(t *testing.T) {
	t.Parallel()
	apiErr := errors.New("GET https://example.test returned status 500")
	api := &fakeAPI{replies: []apiReply{{err: apiErr}}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications across two identical failures, want 1: %q", len(sender.sent), sender.sent)
	}
	if !strings.HasPrefix(sender.sent[0], "Сбой в работе программы: ") {
		t.Fatalf("notification = %q", sender.sent[0])
	}
	if w.Cursor() != startUnix {
		t.Fatalf("cursor = %d, want frozen %d", w.Cursor(), startUnix)
	}
}

func TestDifferingErrorNotified(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{
		{err: errors.New("returned status 500")},
		{err: errors.New("returned status 502")},
	}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications for two distinct failures, want 2: %q", len(sender.sent), sender.sent)
	}
}

func TestErrorRenotifiedAfterSuccess(t *testing.T) {
	t.Parallel()
	apiErr := errors.New("returned status 500")
	api := &fakeAPI{replies: []apiReply{
		{err: apiErr},
		{body: []byte(`{"homeworks":[],"current_date":1700000000}`)},
		{err: apiErr},
	}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	// A clean cycle clears the suppression state, so the recurrence is
	// notified again.
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2: %q", len(sender.sent), sender.sent)
	}
}

func TestValidationFailureFreezesCursor(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[]}`),
	}}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())

	if w.Cursor() != startUnix {
		t.Fatalf("cursor = %d, want frozen %d", w.Cursor(), startUnix)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %q, want one failure notification", sender.sent)
	}
}

func TestSendFailureIsLogOnly(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1700000000}`),
	}}}
	sendErr := fmt.Errorf("%w: timed out", telegram.ErrSendFailed)
	sender := &fakeSender{fail: func(string) error { return sendErr }}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())

	// The failed verdict send must not trigger an error notification
	// (which would fail too, and so on).
	if len(sender.sent) != 0 {
		t.Fatalf("sent %q, want nothing delivered", sender.sent)
	}
	if w.Cursor() != startUnix {
		t.Fatalf("cursor = %d, want frozen %d", w.Cursor(), startUnix)
	}
}

func TestPerRecordIsolation(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[
			{"homework_name":"hw1","status":"lost"},
			{"homework_name":"hw2","status":"rejected"}
		],"current_date":1700000000}`),
	}}}
	sender := &fakeSender{}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())

	// The bad record is reported, the good one is still delivered.
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2: %q", len(sender.sent), sender.sent)
	}
	if !strings.Contains(sender.sent[0], "lost") {
		t.Fatalf("first message should report the unexpected status: %q", sender.sent[0])
	}
	want := `Изменился статус проверки работы "hw2". Работа проверена: у ревьюера есть замечания.`
	if sender.sent[1] != want {
		t.Fatalf("second message = %q, want %q", sender.sent[1], want)
	}
	// A partially failed cycle never advances the cursor.
	if w.Cursor() != startUnix {
		t.Fatalf("cursor = %d, want frozen %d", w.Cursor(), startUnix)
	}
}

func TestFailedErrorDeliveryRetriesNextCycle(t *testing.T) {
	t.Parallel()
	apiErr := errors.New("returned status 500")
	api := &fakeAPI{replies: []apiReply{{err: apiErr}}}
	failures := 1
	sender := &fakeSender{}
	sender.fail = func(string) error {
		if failures > 0 {
			failures--
			return fmt.Errorf("%w: flaky", telegram.ErrSendFailed)
		}
		return nil
	}
	w := newTestWatcher(t, api, sender)

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	// First delivery attempt failed, so suppression state was not set and
	// the second cycle delivered the same text.
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1: %q", len(sender.sent), sender.sent)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{replies: []apiReply{{
		body: []byte(`{"homeworks":[],"current_date":1700000000}`),
	}}}
	w := newTestWatcher(t, api, &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
