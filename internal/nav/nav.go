// Package nav holds the navigation bar state of a page session: the active
// section and the collapsible menu.
package nav

import (
	"sync"
	"time"

	"github.com/sumitbaghel/portfolio/internal/clock"
)

const (
	// AboutAlias is the logical "about" entry, which lives inside the hero section.
	AboutAlias = "about"
	// HeroID is the section the about alias resolves to.
	HeroID = "hero"

	// MenuCloseDelay is how long the menu stays open after a navigation click.
	MenuCloseDelay = 300 * time.Millisecond
)

// MenuState is the state of the collapsible menu.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (m MenuState) String() string {
	if m == MenuOpen {
		return "open"
	}
	return "closed"
}

// State is a snapshot of the navigation bar.
type State struct {
	ActiveSectionID string
	Menu            MenuState
	Scrolled        bool
}

// Scroller smooth-scrolls the document to an element. It returns false when
// no element with that id exists.
type Scroller interface {
	ScrollTo(id string) bool
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(id string) bool

func (f ScrollerFunc) ScrollTo(id string) bool { return f(id) }

// Navigator owns a State. Listeners are called with the lock held and must
// not call back into the Navigator.
type Navigator struct {
	mu         sync.Mutex
	state      State
	clock      clock.Clock
	scroller   Scroller
	closeTimer clock.Timer
	// closeGen identifies the current close timer; callbacks from replaced
	// timers that lost the race with Stop see a stale generation.
	closeGen   uint64
	onChange   func(State)
	closed     bool
}

// New returns a Navigator with firstSection active and the menu closed.
func New(firstSection string, clk clock.Clock, scroller Scroller) *Navigator {
	return &Navigator{
		state:    State{ActiveSectionID: firstSection, Menu: MenuClosed},
		clock:    clk,
		scroller: scroller,
	}
}

// OnChange registers fn to receive every state change.
func (n *Navigator) OnChange(fn func(State)) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// State returns the current snapshot.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Activate sets the active section unconditionally.
func (n *Navigator) Activate(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.state.ActiveSectionID = id
	n.notify()
}

// SetScrolled records whether the page is past the navbar threshold.
func (n *Navigator) SetScrolled(scrolled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || n.state.Scrolled == scrolled {
		return
	}
	n.state.Scrolled = scrolled
	n.notify()
}

// ToggleMenu flips the menu between open and closed.
func (n *Navigator) ToggleMenu() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if n.state.Menu == MenuOpen {
		n.state.Menu = MenuClosed
	} else {
		n.state.Menu = MenuOpen
	}
	n.notify()
}

// Resolve maps a navigation id to the element id it scrolls to.
func Resolve(id string) string {
	if id == AboutAlias {
		return HeroID
	}
	return id
}

// NavigateTo scrolls to the section behind id and closes the menu after
// MenuCloseDelay. It returns false, changing nothing, when the target is
// not in the document.
func (n *Navigator) NavigateTo(id string) bool {
	target := Resolve(id)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return false
	}
	if !n.scroller.ScrollTo(target) {
		return false
	}
	n.state.ActiveSectionID = target
	n.notify()

	if n.closeTimer != nil {
		n.closeTimer.Stop()
	}
	n.closeGen++
	gen := n.closeGen
	n.closeTimer = n.clock.AfterFunc(MenuCloseDelay, func() { n.closeMenu(gen) })
	return true
}

func (n *Navigator) closeMenu(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.closeGen {
		return
	}
	n.closeTimer = nil
	if n.closed || n.state.Menu == MenuClosed {
		return
	}
	n.state.Menu = MenuClosed
	n.notify()
}

// Close cancels the pending menu close. The Navigator ignores all further
// mutations.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.closeGen++
	if n.closeTimer != nil {
		n.closeTimer.Stop()
		n.closeTimer = nil
	}
}

func (n *Navigator) notify() {
	if n.onChange != nil {
		n.onChange(n.state)
	}
}
