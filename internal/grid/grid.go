// Package grid models the decorative circuit board behind the hero section:
// a fixed lattice of nodes that light up near the pointer.
package grid

import (
	"math"
	"sort"
)

const (
	// Size is the number of rows and columns in the lattice.
	Size = 5
	// Spacing is the distance between neighboring lattice points.
	Spacing = 20
	// Offset places the first lattice point away from the edge.
	Offset = 10
	// EdgeThreshold is the maximum distance between connected nodes.
	EdgeThreshold = 25
	// ActivationRadius is the strict upper bound on pointer distance for a
	// node to activate.
	ActivationRadius = 15
	// Extent is the side of the normalized coordinate space.
	Extent = 100
)

// Point is a position in the normalized 0-100 space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Node is a lattice point and the ids of the nodes connected to it.
type Node struct {
	ID        int
	Point     Point
	Neighbors []int
}

// Edge connects two nodes, From < To.
type Edge struct {
	From, To int
}

// Grid is immutable after New.
type Grid struct {
	nodes []Node
	edges []Edge
}

// New builds the lattice and connects every pair of distinct nodes no
// farther apart than EdgeThreshold.
func New() *Grid {
	nodes := make([]Node, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			nodes = append(nodes, Node{
				ID:    row*Size + col,
				Point: Point{X: float64(col*Spacing + Offset), Y: float64(row*Spacing + Offset)},
			})
		}
	}

	var edges []Edge
	for i := range nodes {
		for j := range nodes {
			if i == j {
				continue
			}
			if nodes[i].Point.Dist(nodes[j].Point) <= EdgeThreshold {
				nodes[i].Neighbors = append(nodes[i].Neighbors, nodes[j].ID)
				if i < j {
					edges = append(edges, Edge{From: i, To: j})
				}
			}
		}
	}
	return &Grid{nodes: nodes, edges: edges}
}

// Nodes returns the lattice in id order.
func (g *Grid) Nodes() []Node {
	return g.nodes
}

// Node returns the node with the given id.
func (g *Grid) Node(id int) (Node, bool) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Edges returns every connection once.
func (g *Grid) Edges() []Edge {
	return g.edges
}

// Activate returns the nodes lit by a pointer at p: every node closer than
// ActivationRadius plus its direct neighbors.
func (g *Grid) Activate(p Point) ActivationSet {
	set := ActivationSet{}
	for _, n := range g.nodes {
		if n.Point.Dist(p) < ActivationRadius {
			set[n.ID] = struct{}{}
			for _, id := range n.Neighbors {
				set[id] = struct{}{}
			}
		}
	}
	return set
}

// ActivationSet is the set of lit node ids.
type ActivationSet map[int]struct{}

// Has reports whether id is lit.
func (s ActivationSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// EdgeActive reports whether the edge between a and b is highlighted,
// which happens when either endpoint is lit.
func (s ActivationSet) EdgeActive(a, b int) bool {
	return s.Has(a) || s.Has(b)
}

// IDs returns the lit ids in ascending order.
func (s ActivationSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Rect is the bounding box of the interactive region in device pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize maps a device position into the 0-100 space of rect. The result
// is clamped to the space; a degenerate rect maps to the origin.
func Normalize(clientX, clientY float64, rect Rect) Point {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Point{}
	}
	return Point{
		X: clamp((clientX - rect.Left) / rect.Width * Extent),
		Y: clamp((clientY - rect.Top) / rect.Height * Extent),
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(Extent, v))
}
