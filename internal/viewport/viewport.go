// Package viewport decides which page section occupies the active band of
// the viewport for a given scroll offset.
package viewport

const (
	// LookaheadBias is added to the scroll offset before sections are tested,
	// so a section becomes active slightly before its top reaches the window edge.
	LookaheadBias = 200

	// ScrolledThreshold is the offset past which the navbar switches to its
	// opaque style.
	ScrolledThreshold = 50
)

// Section is a navigable content section in document order.
type Section struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Bounds is a section's measured position in the document.
type Bounds struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Contains reports whether pos falls within [Top, Top+Height).
func (b Bounds) Contains(pos float64) bool {
	return pos >= b.Top && pos < b.Top+b.Height
}

// Layout maps section ids to their measured bounds. Sections without an
// entry are not present in the document.
type Layout map[string]Bounds

// Tracker resolves the active section from a scroll offset.
type Tracker struct {
	sections []Section
	bias     float64
}

// NewTracker returns a tracker over sections in document order.
func NewTracker(sections []Section) *Tracker {
	s := make([]Section, len(sections))
	copy(s, sections)
	return &Tracker{sections: s, bias: LookaheadBias}
}

// Sections returns the tracked sections in document order.
func (t *Tracker) Sections() []Section {
	s := make([]Section, len(t.sections))
	copy(s, t.sections)
	return s
}

// Resolve returns the section whose bounds contain offset+LookaheadBias.
// When ranges overlap the last matching section in document order wins.
// ok is false when nothing matches; callers keep their previous state.
func (t *Tracker) Resolve(offset float64, layout Layout) (id string, ok bool) {
	pos := offset + t.bias
	for _, s := range t.sections {
		b, present := layout[s.ID]
		if !present {
			continue
		}
		if b.Contains(pos) {
			id, ok = s.ID, true
		}
	}
	return id, ok
}

// Scrolled reports whether the page has moved past ScrolledThreshold.
func Scrolled(offset float64) bool {
	return offset > ScrolledThreshold
}
