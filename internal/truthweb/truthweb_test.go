package truthweb

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/consistency"
)

func heroes(t *testing.T) catalog.QuestionSet {
	t.Helper()
	c, err := catalog.Builtin()
	require.NoError(t, err)
	set, err := c.Get("Superheroes")
	require.NoError(t, err)
	return set
}

func build(t *testing.T, answers consistency.Answers) Graph {
	t.Helper()
	set := heroes(t)
	return Build(set, answers, consistency.Evaluate(set, answers))
}

func TestBuildNodeStates(t *testing.T) {
	g := build(t, consistency.Answers{"q1": true, "q2": false})
	require.Len(t, g.Nodes, 10)
	assert.Equal(t, "Superheroes", g.Set)
	assert.Equal(t, NodeAgreed, g.Nodes[0].State)
	assert.Equal(t, NodeDisagreed, g.Nodes[1].State)
	assert.Equal(t, NodeUnanswered, g.Nodes[2].State)
	assert.Equal(t, "Q1", g.Nodes[0].Label)
	assert.Equal(t, "Q10", g.Nodes[9].Label)
}

func TestBuildEdgeKinds(t *testing.T) {
	g := build(t, consistency.Answers{"q1": true, "q2": true, "q6": true, "q7": false})
	assert.Equal(t, 1, g.Count(EdgeContradiction))
	assert.Equal(t, 1, g.Count(EdgeRequirement))
	assert.Equal(t, 0, g.Count(EdgeUnmet))

	contradiction := g.Edges[0]
	assert.Equal(t, EdgeContradiction, contradiction.Kind)
	assert.Equal(t, 0, contradiction.From)
	assert.Equal(t, 1, contradiction.To)

	g = build(t, consistency.Answers{"q1": false, "q6": true})
	assert.Equal(t, 0, g.Count(EdgeContradiction))
	assert.Equal(t, 1, g.Count(EdgeUnmet))
	assert.Len(t, g.Neighbors(5), 1)
	assert.Len(t, g.Neighbors(0), 1)
	assert.Empty(t, g.Neighbors(7))
}

func TestBuildWithoutAnswersHasNoEdges(t *testing.T) {
	g := build(t, consistency.Answers{})
	assert.Empty(t, g.Edges)
}

func TestLayoutStartsAtTopCentre(t *testing.T) {
	points := Layout(4, 100, 100)
	require.Len(t, points, 4)
	assert.InDelta(t, 50, points[0].X, 1e-9)
	assert.InDelta(t, 15, points[0].Y, 1e-9)
	// Clockwise: the second node sits to the right.
	assert.InDelta(t, 85, points[1].X, 1e-9)
	assert.InDelta(t, 50, points[1].Y, 1e-9)
	for _, p := range points {
		assert.InDelta(t, 35, math.Hypot(p.X-50, p.Y-50), 1e-9)
	}
	assert.Nil(t, Layout(0, 100, 100))
}

func TestLayoutUsesShorterSide(t *testing.T) {
	points := Layout(1, 200, 100)
	assert.InDelta(t, 100, points[0].X, 1e-9)
	assert.InDelta(t, 15, points[0].Y, 1e-9)
}

func TestRenderShowsEveryLabel(t *testing.T) {
	g := build(t, consistency.Answers{"q1": true, "q2": true})
	out := Render(g, DefaultRenderOptions())
	for _, n := range g.Nodes {
		assert.Contains(t, out, n.Label)
	}
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), defaultCanvasHeight)
}

func TestDetailsListsRelations(t *testing.T) {
	g := build(t, consistency.Answers{"q1": false, "q6": true})
	details := Details(g, 5)
	assert.Contains(t, details, "Q6 · Agree")
	assert.Contains(t, details, "requires Q1 (not met)")
	assert.Contains(t, Details(g, 0), "required by Q6 (not met)")
	assert.Empty(t, Details(g, 42))
}

func TestWriteSVG(t *testing.T) {
	g := build(t, consistency.Answers{"q1": true, "q2": true, "q6": true, "q9": true, "q10": true})
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, g, 0))
	svg := buf.String()
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Contains(t, svg, `width="800"`)
	assert.Equal(t, len(g.Edges), strings.Count(svg, "<line "))
	assert.Equal(t, 2, strings.Count(svg, `stroke="#d32f2f"`))
	assert.Equal(t, 1, strings.Count(svg, `stroke="#388e3c"`))
	assert.Equal(t, 10, strings.Count(svg, `<g class="node`))
	assert.Contains(t, svg, `fill="#4a90e2"`)
	assert.Contains(t, svg, `fill="#e0e0e0"`)
}

func TestWriteSVGEscapesText(t *testing.T) {
	set := catalog.QuestionSet{
		Name:      "Tags & <Markup>",
		Questions: []catalog.Question{{ID: "a", Text: `Is <b> "bold" & bright?`}},
	}
	g := Build(set, consistency.Answers{}, consistency.Evaluate(set, consistency.Answers{}))
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, g, 200))
	svg := buf.String()
	assert.NotContains(t, svg, "<b>")
	assert.Contains(t, svg, "&lt;b&gt;")
	assert.Contains(t, svg, "Tags &amp; &lt;Markup&gt;")
}
