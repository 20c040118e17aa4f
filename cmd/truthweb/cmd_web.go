package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/truthweb/internal/truthweb"
)

func (c *cli) webCmd() *cobra.Command {
	var (
		svgPath string
		size    int
		width   int
		height  int
	)
	cmd := &cobra.Command{
		Use:   "web <set>",
		Short: "Draw the TruthWeb of a question set in the terminal or as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open()
			if err != nil {
				return err
			}
			session, err := ws.session(args[0])
			if err != nil {
				return err
			}
			graph := truthweb.Build(session.Set(), session.Answers(), session.Evaluate())
			out := cmd.OutOrStdout()
			if svgPath != "" {
				f, err := os.Create(svgPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", svgPath, err)
				}
				if err := truthweb.WriteSVG(f, graph, size); err != nil {
					f.Close()
					return fmt.Errorf("write %s: %w", svgPath, err)
				}
				if err := f.Close(); err != nil {
					return err
				}
				ws.log.Info("TruthWeb · %s exported to %s", graph.Set, svgPath)
				fmt.Fprintf(out, "Wrote %s (%d edges)\n", svgPath, len(graph.Edges))
				return nil
			}
			fmt.Fprintln(out, truthweb.Render(graph, truthweb.RenderOptions{Width: width, Height: height, Selected: -1}))
			fmt.Fprintln(out)
			fmt.Fprintln(out, truthweb.Legend())
			return nil
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG image to this file instead of drawing in the terminal")
	cmd.Flags().IntVar(&size, "size", truthweb.DefaultSVGSize, "side of the SVG image in pixels")
	cmd.Flags().IntVar(&width, "width", 64, "terminal canvas width in columns")
	cmd.Flags().IntVar(&height, "height", 24, "terminal canvas height in rows")
	return cmd
}
