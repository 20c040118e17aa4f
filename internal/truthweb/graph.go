// Package truthweb turns a question set and its answers into the TruthWeb:
// questions placed on a circle, joined by the relations that are currently
// violated or satisfied.
package truthweb

import (
	"math"
	"strconv"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/consistency"
)

// NodeState is how a question was answered.
type NodeState string

const (
	NodeAgreed     NodeState = "agreed"
	NodeDisagreed  NodeState = "disagreed"
	NodeUnanswered NodeState = "unanswered"
)

// EdgeKind selects how an edge is drawn.
type EdgeKind string

const (
	// EdgeContradiction joins two agreed statements that contradict (red).
	EdgeContradiction EdgeKind = "contradiction"
	// EdgeRequirement joins a statement to an agreed requirement (green).
	EdgeRequirement EdgeKind = "requirement"
	// EdgeUnmet joins a statement to a requirement that was not agreed (amber).
	EdgeUnmet EdgeKind = "unmet"
)

// Node is one question in the web.
type Node struct {
	ID    string
	Label string
	Text  string
	State NodeState
}

// Edge joins two nodes by index.
type Edge struct {
	From     int
	To       int
	Kind     EdgeKind
	Relation consistency.Edge
}

// Graph is the drawable TruthWeb of one question set.
type Graph struct {
	Set   string
	Nodes []Node
	Edges []Edge
}

// Build assembles the graph for set under answers. Only relations that
// matter under the current answers become edges.
func Build(set catalog.QuestionSet, answers consistency.Answers, state consistency.State) Graph {
	g := Graph{Set: set.Name, Nodes: make([]Node, 0, set.Len())}
	for i, q := range set.Questions {
		node := Node{ID: q.ID, Label: labelFor(i), Text: q.Text, State: NodeUnanswered}
		if value, ok := answers[q.ID]; ok {
			node.State = NodeDisagreed
			if value {
				node.State = NodeAgreed
			}
		}
		g.Nodes = append(g.Nodes, node)
	}
	add := func(edges []consistency.Edge, kind EdgeKind) {
		for _, rel := range edges {
			from, to := set.Index(rel.From), set.Index(rel.To)
			if from < 0 || to < 0 {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: kind, Relation: rel})
		}
	}
	add(state.Contradictions, EdgeContradiction)
	add(state.Satisfied, EdgeRequirement)
	add(state.Requirements, EdgeUnmet)
	return g
}

// Count returns the number of edges of a kind.
func (g Graph) Count(kind EdgeKind) int {
	n := 0
	for _, e := range g.Edges {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Neighbors returns the edges touching node i.
func (g Graph) Neighbors(i int) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == i || e.To == i {
			out = append(out, e)
		}
	}
	return out
}

func labelFor(i int) string {
	return "Q" + strconv.Itoa(i+1)
}

// Point is a position in drawing coordinates.
type Point struct {
	X float64
	Y float64
}

// Layout spaces n nodes evenly on a circle centred in a width×height area,
// starting at the top and going clockwise. The radius is 35% of the shorter
// side.
func Layout(n int, width, height float64) []Point {
	if n <= 0 {
		return nil
	}
	cx, cy := width/2, height/2
	radius := math.Min(width, height) * 0.35
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		points[i] = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return points
}
