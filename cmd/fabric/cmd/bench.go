package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/textlayout"
	"github.com/go-drift/fabric/pkg/treefile"
)

func init() {
	RegisterCommand(func() *cli.Command {
		return &cli.Command{
			Name:  "bench",
			Usage: "Time commit, layout, diff and mount over repeated playbacks",
			Description: `Plays a tree document several times, each time on a fresh scheduler,
and prints latency percentiles per phase. Without FILE a scrolling list
is generated whose rows move, grow and get replaced on every step.

The text measurement cache is shared between iterations, like it is
between the surfaces of an application.`,
			ArgsUsage: "[FILE]",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "rows", Usage: "rows of the generated list", Value: 50},
				&cli.IntFlag{Name: "steps", Usage: "steps of the generated list", Value: 20},
				&cli.IntFlag{Name: "iterations", Usage: "number of playbacks", Value: 10},
			},
			Action: runBench,
		}
	})
}

// benchResult accumulates samples over every iteration.
type benchResult struct {
	step      *tachymeter.Tachymeter
	commit    *tachymeter.Tachymeter
	layout    *tachymeter.Tachymeter
	diff      *tachymeter.Tachymeter
	mount     *tachymeter.Tachymeter
	revisions int64
	mutations int64
	elapsed   time.Duration
}

func newBenchResult(size int) *benchResult {
	newMeter := func() *tachymeter.Tachymeter { return tachymeter.New(&tachymeter.Config{Size: size}) }
	return &benchResult{
		step:   newMeter(),
		commit: newMeter(),
		layout: newMeter(),
		diff:   newMeter(),
		mount:  newMeter(),
	}
}

func (r *benchResult) addSamples(samples []mounting.TelemetrySample) {
	for _, sample := range samples {
		r.commit.AddTime(sample.Commit)
		r.layout.AddTime(sample.Layout)
		r.diff.AddTime(sample.Diff)
		r.mount.AddTime(sample.Mount)
		r.mutations += int64(sample.Mutations)
	}
}

func runBench(ctx context.Context, cmd *cli.Command) error {
	var doc *treefile.Document
	if cmd.Args().Present() {
		var err error
		if doc, err = loadDocument(cmd); err != nil {
			return err
		}
	} else {
		doc = treefile.GenerateList(int(cmd.Int("rows")), int(cmd.Int("steps")))
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	iterations := max(int(cmd.Int("iterations")), 1)

	// Every revision is mounted, so one sample per step and resize.
	perIteration := len(doc.Steps) * 2
	cfg.Mounting.TelemetrySamples = max(cfg.Mounting.TelemetrySamples, perIteration)
	text := textlayout.NewManager(textlayout.Options{
		CacheSize:       cfg.Text.CacheSize,
		DefaultFontSize: cfg.Text.DefaultFontSize,
	})
	result := newBenchResult(iterations * perIteration)

	log.Printf("Running %d iterations of %d steps", iterations, len(doc.Steps))
	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := benchOnce(doc, sessionOptions{config: cfg, text: text}, result); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	table := tablewriter.NewWriter(cmd.Root().Writer)
	table.SetHeader([]string{"phase", "count", "avg", "p50", "p99", "max"})
	for _, phase := range []struct {
		name  string
		meter *tachymeter.Tachymeter
	}{
		{"step", result.step},
		{"commit", result.commit},
		{"layout", result.layout},
		{"diff", result.diff},
		{"mount", result.mount},
	} {
		calc := phase.meter.Calc()
		table.Append([]string{
			phase.name,
			humanize.Comma(int64(calc.Count)),
			fmt.Sprint(calc.Time.Avg),
			fmt.Sprint(calc.Time.P50),
			fmt.Sprint(calc.Time.P99),
			fmt.Sprint(calc.Time.Max),
		})
	}
	table.Render()

	stats := text.Stats()
	rate := 0.0
	if result.elapsed > 0 {
		rate = float64(result.revisions) / result.elapsed.Seconds()
	}
	fmt.Fprintf(cmd.Root().Writer, "%s revisions, %s mutations, %s revisions/s\n",
		humanize.Comma(result.revisions), humanize.Comma(result.mutations), humanize.Comma(int64(rate)))
	fmt.Fprintf(cmd.Root().Writer, "text cache: %s entries, %s hits, %s misses\n",
		humanize.Comma(int64(stats.Entries)), humanize.Comma(int64(stats.Hits)), humanize.Comma(int64(stats.Misses)))
	return nil
}

func benchOnce(doc *treefile.Document, opts sessionOptions, result *benchResult) error {
	s, err := newSession(doc, opts)
	if err != nil {
		return err
	}
	defer s.close()
	for {
		start := time.Now()
		ok, _, err := s.step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		took := time.Since(start)
		result.step.AddTime(took)
		result.elapsed += took
	}
	result.revisions += int64(s.tree.CurrentRevision().Number)
	result.addSamples(s.tree.MountingCoordinator().Telemetry().Samples())
	return nil
}
