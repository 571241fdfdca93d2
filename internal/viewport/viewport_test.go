package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sections = []Section{
	{ID: "hero", Label: "Home"},
	{ID: "projects", Label: "Projects"},
	{ID: "contact", Label: "Contact"},
}

func TestResolve(t *testing.T) {
	tr := NewTracker(sections)
	layout := Layout{
		"hero":     {Top: 0, Height: 800},
		"projects": {Top: 800, Height: 1200},
		"contact":  {Top: 2000, Height: 600},
	}

	tests := []struct {
		name   string
		offset float64
		want   string
		ok     bool
	}{
		{"top of page", 0, "hero", true},
		{"bias pulls next section in early", 600, "projects", true},
		{"just before boundary", 599, "hero", true},
		{"last section", 1900, "contact", true},
		{"past the end", 2400, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.Resolve(tt.offset, layout)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOverlapLastWins(t *testing.T) {
	tr := NewTracker([]Section{{ID: "a"}, {ID: "b"}})
	layout := Layout{
		"a": {Top: 10, Height: 80},
		"b": {Top: 50, Height: 40},
	}

	// scroll -140 + 200 = 60 falls in both [10,90) and [50,90).
	got, ok := tr.Resolve(-140, layout)
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	// 30 is only inside a.
	got, ok = tr.Resolve(-170, layout)
	assert.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestResolveHalfOpen(t *testing.T) {
	tr := NewTracker([]Section{{ID: "a"}, {ID: "b"}})
	layout := Layout{
		"a": {Top: 10, Height: 40},
		"b": {Top: 50, Height: 40},
	}

	got, _ := tr.Resolve(-150, layout)
	assert.Equal(t, "b", got, "position 50 belongs to b only")
}

func TestResolveSkipsMissingSections(t *testing.T) {
	tr := NewTracker(sections)
	layout := Layout{"contact": {Top: 0, Height: 5000}}

	got, ok := tr.Resolve(100, layout)
	assert.True(t, ok)
	assert.Equal(t, "contact", got)
}

func TestResolveIsDeterministic(t *testing.T) {
	tr := NewTracker(sections)
	layout := Layout{
		"hero":     {Top: 0, Height: 800},
		"projects": {Top: 800, Height: 1200},
	}
	for offset := 0.0; offset < 2000; offset += 37 {
		a, okA := tr.Resolve(offset, layout)
		b, okB := tr.Resolve(offset, layout)
		assert.Equal(t, okA, okB)
		assert.Equal(t, a, b)
	}
}

func TestScrolled(t *testing.T) {
	assert.False(t, Scrolled(0))
	assert.False(t, Scrolled(50))
	assert.True(t, Scrolled(51))
}
