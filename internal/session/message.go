package session

import "github.com/sumitbaghel/portfolio/internal/content"

// Message types pushed to the browser.
const (
	TypeHello    = "hello"
	TypeNav      = "nav"
	TypeScrollTo = "scroll_to"
	TypeGrid     = "grid"
	TypeContact  = "contact"
	TypeRole     = "role"
	TypeError    = "error"
)

// Message is one outbound event.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type HelloData struct {
	Session string `json:"session"`
}

type NavData struct {
	Active   string `json:"active"`
	Menu     string `json:"menu"`
	Scrolled bool   `json:"scrolled"`
}

type ScrollToData struct {
	Target string `json:"target"`
}

type GridData struct {
	Active []int `json:"active"`
}

type ContactData struct {
	State string `json:"state"`
	Modal bool   `json:"modal"`
}

type RoleData struct {
	Index int          `json:"index"`
	Role  content.Role `json:"role"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// Sink receives messages for the browser. Push must not block and must be
// safe for concurrent use.
type Sink interface {
	Push(Message)
}
