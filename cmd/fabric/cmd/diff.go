package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/go-drift/fabric/pkg/platform"
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "diff",
			Usage: "Print the mount items produced by every step",
			Description: `Plays the steps of a tree document and prints, per step, the mount
items the host receives. Items are grouped by type unless --ordered is
set. With --json every transaction is printed in its wire form, one per
line.`,
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "ordered", Usage: "keep mount items in mutation order"},
				&cli.BoolFlag{Name: "json", Usage: "print encoded transaction messages"},
			},
			Action: runDiff,
		}
	})
}

func runDiff(ctx context.Context, cmd *cli.Command) error {
	doc, err := loadDocument(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(doc, sessionOptions{config: cfg, maintainOrder: cmd.Bool("ordered")})
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		encoder := &platform.EncodingMounter{Send: func(data []byte) error {
			_, err := fmt.Fprintf(out, "%s\n", data)
			return err
		}}
		for {
			ok, messages, err := s.step()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			for _, msg := range messages {
				if err := encoder.ExecuteMount(msg); err != nil {
					return err
				}
			}
		}
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(cmd.Args().First())
	tbl.AppendHeader(table.Row{"step", "revision", "#", "item"})
	counts := make(map[platform.MountItemType]int)
	total := 0
	for index := 0; ; index++ {
		ok, messages, err := s.step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		name := doc.Steps[index].Name
		if name == "" {
			name = fmt.Sprint(index)
		}
		if index > 0 {
			tbl.AppendSeparator()
		}
		if len(messages) == 0 {
			tbl.AppendRow(table.Row{name, "-", "", "no changes"})
		}
		for _, msg := range messages {
			for i, item := range msg.Items {
				tbl.AppendRow(table.Row{name, msg.Revision, i, item.String()})
				counts[item.Type]++
				total++
			}
		}
	}
	tbl.AppendFooter(table.Row{"", "", total, summarizeCounts(counts)})
	tbl.Render()
	return nil
}

var itemOrder = []platform.MountItemType{
	platform.MountCreate,
	platform.MountDelete,
	platform.MountInsert,
	platform.MountRemove,
	platform.MountUpdateProps,
	platform.MountUpdateState,
	platform.MountUpdatePadding,
	platform.MountUpdateLayout,
	platform.MountUpdateEventEmitter,
}

func summarizeCounts(counts map[platform.MountItemType]int) string {
	summary := ""
	for _, typ := range itemOrder {
		if n := counts[typ]; n > 0 {
			if summary != "" {
				summary += ", "
			}
			summary += fmt.Sprintf("%d %s", n, typ)
		}
	}
	return summary
}
