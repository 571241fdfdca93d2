package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/clock"
)

type stubSender struct {
	err   error
	block chan struct{}
	sent  []Form
}

func (s *stubSender) Send(ctx context.Context, f Form) error {
	if s.block != nil {
		<-s.block
	}
	s.sent = append(s.sent, f)
	return s.err
}

type recorder struct {
	alerts      []string
	transitions []State
}

func (r *recorder) Alert(msg string) { r.alerts = append(r.alerts, msg) }

func newFlow(t *testing.T, sender Sender) (*Flow, *clock.Fake, *recorder) {
	t.Helper()
	clk := clock.NewFake(time.Unix(0, 0))
	rec := &recorder{}
	f := NewFlow(sender, rec, clk, zap.NewNop())
	f.OnTransition(func(from, to State) { rec.transitions = append(rec.transitions, to) })
	return f, clk, rec
}

var filled = Form{Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "Let's talk."}

func TestSubmitSuccessShowsModalThenReturnsToIdle(t *testing.T) {
	sender := &stubSender{}
	f, clk, rec := newFlow(t, sender)

	require.NoError(t, f.Submit(context.Background(), filled))
	assert.Equal(t, []State{Submitting, Succeeded}, rec.transitions)
	assert.True(t, f.ModalVisible())
	assert.Equal(t, []Form{filled}, sender.sent)

	clk.Advance(DismissDelay - time.Millisecond)
	assert.Equal(t, Succeeded, f.State())

	clk.Advance(time.Millisecond)
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, []State{Submitting, Succeeded, Idle}, rec.transitions)
	assert.Empty(t, rec.alerts)
	assert.Equal(t, filled, f.Form(), "fields are retained after success")
}

func TestSubmitFailureAlertsOnceAndKeepsFields(t *testing.T) {
	f, clk, rec := newFlow(t, &stubSender{err: errors.New("connection refused")})

	err := f.Submit(context.Background(), filled)
	require.Error(t, err)

	assert.Equal(t, []State{Submitting, Failed, Idle}, rec.transitions)
	assert.Equal(t, []string{AlertMessage}, rec.alerts)
	assert.Equal(t, filled, f.Form())
	assert.False(t, f.ModalVisible())
	assert.Equal(t, 0, clk.Pending())
}

func TestManualDismissCancelsAutoDismiss(t *testing.T) {
	f, clk, rec := newFlow(t, &stubSender{})
	require.NoError(t, f.Submit(context.Background(), filled))

	f.Dismiss()
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(DismissDelay)
	assert.Equal(t, []State{Submitting, Succeeded, Idle}, rec.transitions)

	f.Dismiss()
	assert.Len(t, rec.transitions, 3, "idle dismiss is a no-op")
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	sender := &stubSender{block: make(chan struct{})}
	f, _, _ := newFlow(t, sender)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), filled) }()
	require.Eventually(t, func() bool { return f.State() == Submitting }, time.Second, time.Millisecond)

	assert.ErrorIs(t, f.Submit(context.Background(), filled), ErrSubmitting)

	close(sender.block)
	require.NoError(t, <-done)
	assert.Len(t, sender.sent, 1)
}

func TestResubmitAfterSuccess(t *testing.T) {
	sender := &stubSender{}
	f, clk, _ := newFlow(t, sender)

	require.NoError(t, f.Submit(context.Background(), filled))
	require.NoError(t, f.Submit(context.Background(), filled))
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 1, clk.Pending())
}

func TestCloseCancelsDismissTimer(t *testing.T) {
	f, clk, _ := newFlow(t, &stubSender{})
	require.NoError(t, f.Submit(context.Background(), filled))

	f.Close()
	assert.Equal(t, 0, clk.Pending())
	assert.ErrorIs(t, f.Submit(context.Background(), filled), ErrClosed)
}

func TestUpdate(t *testing.T) {
	f, _, _ := newFlow(t, &stubSender{})

	require.NoError(t, f.Update("name", "Ada"))
	require.NoError(t, f.Update("email", "ada@example.com"))
	require.NoError(t, f.Update("subject", "Hi"))
	require.NoError(t, f.Update("message", "Hello"))
	assert.Equal(t, Form{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}, f.Form())

	assert.ErrorIs(t, f.Update("phone", "1"), ErrUnknownField)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestStaleDismissCallbackIsIgnored(t *testing.T) {
	f, clk, _ := newFlow(t, &stubSender{})

	require.NoError(t, f.Submit(context.Background(), filled))
	stale := f.dismissGen
	require.NoError(t, f.Submit(context.Background(), filled))

	// A callback from the first timer that fired before Stop could cancel it.
	f.autoDismiss(stale)
	assert.Equal(t, Succeeded, f.State(), "newer modal stays up")
	assert.NotNil(t, f.dismissTimer)

	clk.Advance(DismissDelay)
	assert.Equal(t, Idle, f.State())

	require.NoError(t, f.Submit(context.Background(), filled))
	f.Close()
	assert.Equal(t, 0, clk.Pending())
}
