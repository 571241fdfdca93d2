// Package session owns the interactive state of each page view and tears it
// down when the view goes away.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/clock"
	"github.com/sumitbaghel/portfolio/internal/contact"
	"github.com/sumitbaghel/portfolio/internal/content"
	"github.com/sumitbaghel/portfolio/internal/grid"
	"github.com/sumitbaghel/portfolio/internal/nav"
	"github.com/sumitbaghel/portfolio/internal/rotator"
	"github.com/sumitbaghel/portfolio/internal/viewport"
)

// Options are shared by every controller a Manager creates.
type Options struct {
	Sections []viewport.Section
	// Anchors are the element ids present in the rendered page.
	Anchors []string
	Roles   []content.Role
	Grid    *grid.Grid
	Sender  contact.Sender
	Clock   clock.Clock
	Logger  *zap.Logger
}

// Controller is the state of one page view. Browser events are serialized
// by mu; timer callbacks run under the owning component's lock.
type Controller struct {
	id      string
	opts    Options
	anchors map[string]bool
	log     *zap.Logger

	tracker *viewport.Tracker
	nav     *nav.Navigator
	contact *contact.Flow
	roles   *rotator.Rotator

	mu       sync.Mutex
	layout   viewport.Layout
	active   grid.ActivationSet
	lastUsed time.Time

	sinkMu sync.Mutex
	sink   Sink
	alerts []string
}

// NewController builds the state for a fresh page view.
func NewController(id string, opts Options) *Controller {
	c := &Controller{
		id:       id,
		opts:     opts,
		anchors:  make(map[string]bool, len(opts.Anchors)),
		log:      opts.Logger.With(zap.String("session", id)),
		tracker:  viewport.NewTracker(opts.Sections),
		active:   grid.ActivationSet{},
		lastUsed: opts.Clock.Now(),
	}
	for _, a := range opts.Anchors {
		c.anchors[a] = true
	}

	first := ""
	if len(opts.Sections) > 0 {
		first = opts.Sections[0].ID
	}
	c.nav = nav.New(first, opts.Clock, nav.ScrollerFunc(c.scrollTo))
	c.nav.OnChange(func(s nav.State) { c.push(Message{Type: TypeNav, Data: navData(s)}) })

	c.contact = contact.NewFlow(opts.Sender, contact.AlerterFunc(c.alert), opts.Clock, c.log)
	c.contact.OnTransition(func(from, to contact.State) {
		c.push(Message{Type: TypeContact, Data: ContactData{State: to.String(), Modal: to == contact.Succeeded}})
	})

	c.roles = rotator.New(len(opts.Roles), opts.Clock)
	c.roles.OnChange(func(i int) {
		c.push(Message{Type: TypeRole, Data: RoleData{Index: i, Role: opts.Roles[i]}})
	})
	return c
}

func navData(s nav.State) NavData {
	return NavData{Active: s.ActiveSectionID, Menu: s.Menu.String(), Scrolled: s.Scrolled}
}

func (c *Controller) ID() string { return c.id }

// Attach connects the browser channel and sends the current state.
func (c *Controller) Attach(sink Sink) {
	c.sinkMu.Lock()
	c.sink = sink
	c.sinkMu.Unlock()

	c.touch()
	c.push(Message{Type: TypeHello, Data: HelloData{Session: c.id}})
	c.push(Message{Type: TypeNav, Data: navData(c.nav.State())})
	if len(c.opts.Roles) > 0 {
		i := c.roles.Index()
		c.push(Message{Type: TypeRole, Data: RoleData{Index: i, Role: c.opts.Roles[i]}})
	}
	c.roles.Start()
}

// Detach disconnects the browser channel.
func (c *Controller) Detach() {
	c.sinkMu.Lock()
	c.sink = nil
	c.sinkMu.Unlock()
}

// Attached reports whether a browser channel is connected.
func (c *Controller) Attached() bool {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	return c.sink != nil
}

func (c *Controller) push(m Message) {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	if c.sink != nil {
		c.sink.Push(m)
	}
}

// Layout records the measured section bounds and re-evaluates the active
// section at the given offset.
func (c *Controller) Layout(layout viewport.Layout, offset float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = layout
	c.scroll(offset)
}

// Scroll re-evaluates the active section for a new scroll offset.
func (c *Controller) Scroll(offset float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scroll(offset)
}

func (c *Controller) scroll(offset float64) {
	c.lastUsed = c.opts.Clock.Now()
	if id, ok := c.tracker.Resolve(offset, c.layout); ok {
		c.nav.Activate(id)
	}
	c.nav.SetScrolled(viewport.Scrolled(offset))
}

// Navigate handles a navigation click. Unknown targets are ignored.
func (c *Controller) Navigate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.opts.Clock.Now()
	ok := c.nav.NavigateTo(id)
	if !ok {
		c.log.Debug("navigation target not in document", zap.String("target", id))
	}
	return ok
}

func (c *Controller) scrollTo(id string) bool {
	if !c.anchors[id] {
		return false
	}
	c.push(Message{Type: TypeScrollTo, Data: ScrollToData{Target: id}})
	return true
}

// ToggleMenu flips the collapsible menu.
func (c *Controller) ToggleMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.opts.Clock.Now()
	c.nav.ToggleMenu()
}

// Nav returns the navigation snapshot.
func (c *Controller) Nav() nav.State {
	return c.nav.State()
}

// Pointer recomputes the lit grid nodes for a pointer at device position
// (x, y) inside rect.
func (c *Controller) Pointer(x, y float64, rect grid.Rect) grid.ActivationSet {
	set := c.opts.Grid.Activate(grid.Normalize(x, y, rect))

	c.mu.Lock()
	c.lastUsed = c.opts.Clock.Now()
	c.active = set
	c.mu.Unlock()

	c.push(Message{Type: TypeGrid, Data: GridData{Active: set.IDs()}})
	return set
}

// Active returns the lit grid nodes.
func (c *Controller) Active() grid.ActivationSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// UpdateField records a keystroke in the contact form.
func (c *Controller) UpdateField(name, value string) error {
	c.touch()
	return c.contact.Update(name, value)
}

// Submit sends the contact form. Other events keep flowing while the
// request is in flight.
func (c *Controller) Submit(ctx context.Context, f contact.Form) error {
	c.touch()
	return c.contact.Submit(ctx, f)
}

// Dismiss closes the confirmation modal.
func (c *Controller) Dismiss() {
	c.touch()
	c.contact.Dismiss()
}

// Contact exposes the submission state.
func (c *Controller) Contact() *contact.Flow {
	return c.contact
}

func (c *Controller) alert(msg string) {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	c.alerts = append(c.alerts, msg)
}

// TakeAlerts returns and clears the alerts raised since the last call.
func (c *Controller) TakeAlerts() []string {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	a := c.alerts
	c.alerts = nil
	return a
}

func (c *Controller) touch() {
	c.mu.Lock()
	c.lastUsed = c.opts.Clock.Now()
	c.mu.Unlock()
}

// LastUsed is the time of the most recent browser event.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Close cancels every pending timer and drops the browser channel.
func (c *Controller) Close() {
	c.roles.Close()
	c.nav.Close()
	c.contact.Close()
	c.Detach()
}
