package truthweb

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

// DefaultSVGSize is the side of the square image written by WriteSVG.
const DefaultSVGSize = 800

const nodeRadius = 22

var (
	svgEdgeColors = map[EdgeKind]string{
		EdgeContradiction: "#d32f2f",
		EdgeRequirement:   "#388e3c",
		EdgeUnmet:         "#f7b801",
	}
	svgNodeFills = map[NodeState]string{
		NodeAgreed:     "#4a90e2",
		NodeDisagreed:  "#cccccc",
		NodeUnanswered: "#e0e0e0",
	}
)

// WriteSVG writes the graph as a standalone SVG image of size×size pixels.
// A size of zero or less uses DefaultSVGSize.
func WriteSVG(w io.Writer, g Graph, size int) error {
	if size <= 0 {
		size = DefaultSVGSize
	}
	bw := bufio.NewWriter(w)
	points := Layout(len(g.Nodes), float64(size), float64(size))

	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n", size, size, size, size)
	fmt.Fprintf(bw, "  <title>%s</title>\n", html.EscapeString("TruthWeb · "+g.Set))
	fmt.Fprintf(bw, "  <rect width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", size, size)

	for _, e := range g.Edges {
		a, b := points[e.From], points[e.To]
		if e.From == e.To {
			fmt.Fprintf(bw, "  <circle class=\"edge %s\" cx=\"%.1f\" cy=\"%.1f\" r=\"%d\" fill=\"none\" stroke=\"%s\" stroke-width=\"3\"/>\n",
				e.Kind, a.X, a.Y-nodeRadius, nodeRadius/2, svgEdgeColors[e.Kind])
			continue
		}
		dash := ""
		if e.Kind == EdgeUnmet {
			dash = " stroke-dasharray=\"8 6\""
		}
		fmt.Fprintf(bw, "  <line class=\"edge %s\" x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"3\"%s/>\n",
			e.Kind, a.X, a.Y, b.X, b.Y, svgEdgeColors[e.Kind], dash)
	}

	for i, n := range g.Nodes {
		p := points[i]
		fmt.Fprintf(bw, "  <g class=\"node %s\">\n", n.State)
		fmt.Fprintf(bw, "    <title>%s</title>\n", html.EscapeString(n.Text))
		fmt.Fprintf(bw, "    <circle cx=\"%.1f\" cy=\"%.1f\" r=\"%d\" fill=\"%s\" stroke=\"#333333\" stroke-width=\"1.5\"/>\n",
			p.X, p.Y, nodeRadius, svgNodeFills[n.State])
		fmt.Fprintf(bw, "    <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" dominant-baseline=\"central\" font-family=\"sans-serif\" font-size=\"14\">%s</text>\n",
			p.X, p.Y, html.EscapeString(n.Label))
		fmt.Fprintf(bw, "  </g>\n")
	}
	fmt.Fprintf(bw, "</svg>\n")
	return bw.Flush()
}
