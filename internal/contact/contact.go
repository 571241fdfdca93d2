// Package contact drives the contact form: field edits, the single outbound
// submission, and the confirmation modal that follows it.
package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/clock"
)

const (
	// DismissDelay is how long the confirmation modal stays up on its own.
	DismissDelay = 4 * time.Second

	// AlertMessage is shown when the backend cannot be reached.
	AlertMessage = "There was an error sending your message. Please try again later."
)

var (
	// ErrSubmitting is returned when a submission is already in flight.
	ErrSubmitting = errors.New("contact: submission in progress")
	// ErrClosed is returned after the flow has been torn down.
	ErrClosed = errors.New("contact: flow closed")
	// ErrUnknownField is returned by Update for names outside the form.
	ErrUnknownField = errors.New("contact: unknown field")
)

// Form is the message a visitor sends.
type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// State is the submission state.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Alerter shows a blocking message to the visitor.
type Alerter interface {
	Alert(msg string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(msg string)

func (f AlerterFunc) Alert(msg string) { f(msg) }

// Flow is the submission state machine for one page session.
//
// Idle -> Submitting -> Succeeded -> Idle (after DismissDelay or Dismiss)
// Idle -> Submitting -> Failed -> Idle (after one alert)
//
// Listeners and the Alerter run with the flow locked and must not call back
// into it.
type Flow struct {
	mu           sync.Mutex
	state        State
	form         Form
	sender       Sender
	alerter      Alerter
	clock        clock.Clock
	log          *zap.Logger
	dismissTimer clock.Timer
	dismissGen   uint64
	onTransition func(from, to State)
	closed       bool
}

// NewFlow returns an idle flow with an empty form.
func NewFlow(sender Sender, alerter Alerter, clk clock.Clock, log *zap.Logger) *Flow {
	return &Flow{
		sender:  sender,
		alerter: alerter,
		clock:   clk,
		log:     log,
	}
}

// OnTransition registers fn to observe every state change.
func (f *Flow) OnTransition(fn func(from, to State)) {
	f.mu.Lock()
	f.onTransition = fn
	f.mu.Unlock()
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ModalVisible reports whether the confirmation modal is showing.
func (f *Flow) ModalVisible() bool {
	return f.State() == Succeeded
}

// Form returns the current field values.
func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Update sets a single field by its form name.
func (f *Flow) Update(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case "name":
		f.form.Name = value
	case "email":
		f.form.Email = value
	case "subject":
		f.form.Subject = value
	case "message":
		f.form.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Submit replaces the form with form and sends it. Only one submission may
// be in flight. On failure the visitor is alerted once and the fields are
// kept; on success the modal is shown and dismissed after DismissDelay.
// Fields are kept after success as well.
func (f *Flow) Submit(ctx context.Context, form Form) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmitting
	}
	f.stopDismiss()
	f.form = form
	f.transition(Submitting)
	f.mu.Unlock()

	err := f.sender.Send(ctx, form)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err != nil {
		f.log.Warn("contact submission failed", zap.Error(err))
		f.transition(Failed)
		f.alerter.Alert(AlertMessage)
		f.transition(Idle)
		return fmt.Errorf("submitting contact form: %w", err)
	}

	f.log.Info("contact submission delivered", zap.String("subject", form.Subject))
	f.transition(Succeeded)
	gen := f.dismissGen
	f.dismissTimer = f.clock.AfterFunc(DismissDelay, func() { f.autoDismiss(gen) })
	return nil
}

// Dismiss hides the confirmation modal early.
func (f *Flow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismiss()
}

// autoDismiss runs when the timer of generation gen fires. A callback from a
// timer that was replaced after it fired but before it got the lock is ignored.
func (f *Flow) autoDismiss(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.dismissGen {
		return
	}
	f.dismissTimer = nil
	f.dismiss()
}

func (f *Flow) dismiss() {
	if f.closed || f.state != Succeeded {
		return
	}
	f.stopDismiss()
	f.transition(Idle)
}

// Close cancels the pending auto-dismiss. Later calls are ignored.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.stopDismiss()
}

func (f *Flow) stopDismiss() {
	f.dismissGen++
	if f.dismissTimer != nil {
		f.dismissTimer.Stop()
		f.dismissTimer = nil
	}
}

func (f *Flow) transition(to State) {
	from := f.state
	f.state = to
	if f.onTransition != nil {
		f.onTransition(from, to)
	}
}
