// Package cmd implements the fabric CLI commands.
//
// The root command dispatches to subcommands (layout, diff, bench) that
// play tree documents through a scheduler and an in-process host.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/treefile"
)

// Version information set at build time.
var Version = "0.1.0-dev"

const (
	configFlag  = "config"
	verboseFlag = "verbose"
)

// commands holds the constructors of the registered subcommands. A fresh
// command tree is built for every run.
var commands []func() *cli.Command

// RegisterCommand adds a subcommand to the CLI.
func RegisterCommand(newCommand func() *cli.Command) {
	commands = append(commands, newCommand)
}

// Execute runs the CLI with the given arguments, writing to the standard
// streams.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := &cli.Command{
		Name:      "fabric",
		Usage:     "Inspect layout, diffing and mounting of tree documents",
		Version:   Version,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Usage:   "directory holding " + config.FileName,
				Value:   ".",
				Sources: cli.EnvVars("FABRIC_CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  verboseFlag,
				Usage: "log reported errors with stack traces",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			errors.SetHandler(&errors.LogHandler{Verbose: cmd.Bool(verboseFlag), Out: errOut})
			return ctx, nil
		},
	}
	for _, newCommand := range commands {
		root.Commands = append(root.Commands, newCommand())
	}
	defer errors.SetHandler(nil)
	return root.Run(ctx, args)
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	dir := cmd.String(configFlag)
	if dir == "." {
		if root, err := config.FindProjectRoot(dir); err == nil {
			dir = root
		}
	}
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadDocument(cmd *cli.Command) (*treefile.Document, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, fmt.Errorf("a tree document is required\n\nUsage: fabric %s %s", cmd.Name, cmd.ArgsUsage)
	}
	return treefile.Load(path)
}
