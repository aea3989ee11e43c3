package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/go-drift/fabric/pkg/mounting"
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "layout",
			Usage: "Print the frame of every mounted view",
			Description: `Plays the steps of a tree document and prints the views a host would
show afterwards, with frames relative to their parent view.

Flattened nodes do not appear; their offsets are folded into the frames
of the views below them.`,
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "step",
					Usage: "index of the last step to play (default: all)",
					Value: -1,
				},
			},
			Action: runLayout,
		}
	})
}

func runLayout(ctx context.Context, cmd *cli.Command) error {
	doc, err := loadDocument(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(doc, sessionOptions{config: cfg})
	if err != nil {
		return err
	}
	defer s.close()

	last := int(cmd.Int("step"))
	if last < 0 || last >= len(doc.Steps) {
		last = len(doc.Steps) - 1
	}
	for s.player.Position() <= last {
		if _, _, err := s.step(); err != nil {
			return err
		}
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.Root().Writer)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%s after step %d of %d", cmd.Args().First(), last, len(doc.Steps)))
	tbl.AppendHeader(table.Row{"view", "x", "y", "width", "height"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	appendViews(tbl, s.views().Root(), 0)
	tbl.AppendFooter(table.Row{"revision", s.tree.MountingCoordinator().MountedRevisionNumber()})
	tbl.Render()
	return nil
}

func appendViews(tbl table.Writer, v *mounting.StubView, depth int) {
	frame := v.LayoutMetrics.Frame
	tbl.AppendRow(table.Row{
		strings.Repeat("  ", depth) + v.ShadowView.String(),
		formatPoints(frame.Origin.X),
		formatPoints(frame.Origin.Y),
		formatPoints(frame.Size.Width),
		formatPoints(frame.Size.Height),
	})
	for _, child := range v.Children {
		appendViews(tbl, child, depth+1)
	}
}

func formatPoints(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
