package truthweb

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCanvasWidth  = 64
	defaultCanvasHeight = 24
)

var (
	contradictionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F"))
	requirementStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#388E3C"))
	unmetStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	agreedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90E2")).Bold(true)
	disagreedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	unansweredStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	selectedStyle      = lipgloss.NewStyle().Reverse(true).Bold(true)
	detailTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// RenderOptions controls the terminal canvas.
type RenderOptions struct {
	Width  int
	Height int
	// Selected highlights one node; use -1 for none.
	Selected int
}

// DefaultRenderOptions returns a 64×24 canvas with nothing selected.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: defaultCanvasWidth, Height: defaultCanvasHeight, Selected: -1}
}

type cell struct {
	r     rune
	style int
}

type canvas struct {
	w, h   int
	cells  [][]cell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, styles: []lipgloss.Style{lipgloss.NewStyle()}}
	c.cells = make([][]cell, h)
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) styleID(style lipgloss.Style) int {
	c.styles = append(c.styles, style)
	return len(c.styles) - 1
}

func (c *canvas) put(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *canvas) text(x, y int, s string, style int) {
	for i, r := range []rune(s) {
		c.put(x+i, y, r, style)
	}
}

// line draws from a to b with Bresenham, leaving both end cells alone so
// node labels stay readable.
func (c *canvas) line(a, b Point, style int) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
	glyph := lineGlyph(b.X-a.X, b.Y-a.Y)
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			c.put(x, y, glyph, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// lineGlyph picks a character for a segment. Terminal cells are about
// twice as tall as wide, so dy counts double.
func lineGlyph(dx, dy float64) rune {
	if dx == 0 {
		return '|'
	}
	slope := 2 * dy / dx
	switch {
	case math.Abs(slope) < 0.5:
		return '-'
	case math.Abs(slope) > 2:
		return '|'
	case slope > 0:
		return '\\'
	default:
		return '/'
	}
}

func (c *canvas) String() string {
	lines := make([]string, 0, c.h)
	for _, row := range c.cells {
		last := len(row) - 1
		for last >= 0 && row[last].r == ' ' {
			last--
		}
		var b strings.Builder
		start := 0
		for start <= last {
			end := start
			for end <= last && row[end].style == row[start].style {
				end++
			}
			var seg strings.Builder
			for _, cl := range row[start:end] {
				seg.WriteRune(cl.r)
			}
			if row[start].style == 0 {
				b.WriteString(seg.String())
			} else {
				b.WriteString(c.styles[row[start].style].Render(seg.String()))
			}
			start = end
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// Render draws the graph onto a character canvas.
func Render(g Graph, opts RenderOptions) string {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = defaultCanvasWidth
	}
	if h <= 0 {
		h = defaultCanvasHeight
	}
	c := newCanvas(w, h)
	points := Layout(len(g.Nodes), float64(w), float64(h)*2)
	for i := range points {
		points[i].Y /= 2
	}
	edgeStyles := map[EdgeKind]int{
		EdgeContradiction: c.styleID(contradictionStyle),
		EdgeRequirement:   c.styleID(requirementStyle),
		EdgeUnmet:         c.styleID(unmetStyle),
	}
	for _, kind := range []EdgeKind{EdgeContradiction, EdgeRequirement, EdgeUnmet} {
		for _, e := range g.Edges {
			if e.Kind != kind || e.From == e.To {
				continue
			}
			c.line(points[e.From], points[e.To], edgeStyles[kind])
		}
	}
	nodeStyles := map[NodeState]int{
		NodeAgreed:     c.styleID(agreedStyle),
		NodeDisagreed:  c.styleID(disagreedStyle),
		NodeUnanswered: c.styleID(unansweredStyle),
	}
	selected := c.styleID(selectedStyle)
	for i, node := range g.Nodes {
		style := nodeStyles[node.State]
		if i == opts.Selected {
			style = selected
		}
		x := int(math.Round(points[i].X)) - len(node.Label)/2
		y := int(math.Round(points[i].Y))
		c.text(x, y, node.Label, style)
		for _, e := range g.Neighbors(i) {
			if e.From == e.To {
				c.put(x+len(node.Label), y, '*', edgeStyles[e.Kind])
			}
		}
	}
	return c.String()
}

// Legend explains the colors used by Render.
func Legend() string {
	return strings.Join([]string{
		contradictionStyle.Render("───") + " contradiction (agreed with both)",
		requirementStyle.Render("───") + " requirement met",
		unmetStyle.Render("───") + " requirement not met",
		agreedStyle.Render("Q1") + " agreed  " + disagreedStyle.Render("Q1") + " disagreed  " + unansweredStyle.Render("Q1") + " unanswered",
	}, "\n")
}

// Details describes node i and the edges touching it.
func Details(g Graph, i int) string {
	if i < 0 || i >= len(g.Nodes) {
		return ""
	}
	node := g.Nodes[i]
	lines := []string{
		fmt.Sprintf("%s · %s", node.Label, answerLabel(node.State)),
		node.Text,
	}
	for _, e := range g.Neighbors(i) {
		other := e.To
		if other == i {
			other = e.From
		}
		lines = append(lines, detailTextStyle.Render(describeEdge(e, i, g.Nodes[other].Label)))
	}
	return strings.Join(lines, "\n")
}

func describeEdge(e Edge, i int, other string) string {
	switch e.Kind {
	case EdgeContradiction:
		return "contradicts " + other
	case EdgeRequirement:
		if e.From == i {
			return "requires " + other + " (met)"
		}
		return "required by " + other + " (met)"
	default:
		if e.From == i {
			return "requires " + other + " (not met)"
		}
		return "required by " + other + " (not met)"
	}
}

func answerLabel(state NodeState) string {
	switch state {
	case NodeAgreed:
		return "Agree"
	case NodeDisagreed:
		return "Disagree"
	default:
		return "Not answered"
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
