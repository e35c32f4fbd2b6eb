// mkfs-btrfs wraps the mkfs.btrfs command-line tool, validating every
// option up front and rendering a canonical invocation before spawning
// the real binary.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"khetao.com/mkfs/app"
	"khetao.com/mkfs/btrfs"
	"khetao.com/mkfs/log"
	"khetao.com/mkfs/shutdown"
	"khetao.com/mkfs/shutdown/manager"
	"khetao.com/mkfs/version"
)

func main() {
	opts := newFormatOptions()

	a := app.New("mkfs-btrfs",
		app.WithDescription("Format a device or file with mkfs.btrfs, validating options up front"),
		app.WithOptions(opts),
		app.WithVersionOptions(version.CobraOptions{GetToolVersion: toolVersion(opts)}),
		app.WithRun(run(opts)),
	)

	cmd := a.Command()
	cmd.Use = "mkfs-btrfs [flags] <device>"
	cmd.Args = cobra.ExactArgs(1)

	code := 0
	if err := cmd.Execute(); err != nil {
		log.Errorf("%v", err)
		code = 1
	}
	_ = log.Sync()
	os.Exit(code)
}

func run(opts *formatOptions) app.RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		target := args[0]

		options, err := opts.builder().Build()
		if err != nil {
			return err
		}

		if opts.dumpArgs {
			invocation := append([]string{opts.mkfsPath}, options.Args()...)
			invocation = append(invocation, target)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(invocation, " "))
			return nil
		}

		formatter, err := btrfs.NewFormatter(options, btrfs.WithCommand(opts.mkfsPath))
		if err != nil {
			return err
		}

		// A signal kills the in-flight subprocess through ctx; the core
		// wrapper itself carries no cancellation.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gs := shutdown.New()
		gs.AddShutdownManager(manager.NewPosixSignalManager())
		gs.AddCallback(shutdown.Func(func(string) error {
			cancel()
			return nil
		}))
		if err := gs.StartShutdownManagers(); err != nil {
			return err
		}

		out, err := formatter.Format(ctx, target)
		if err != nil {
			return err
		}

		_, _ = cmd.OutOrStdout().Write(out.Stdout)
		_, _ = cmd.ErrOrStderr().Write(out.Stderr)

		if !out.Success() {
			_ = log.Sync()
			os.Exit(out.ExitCode)
		}
		return nil
	}
}

func toolVersion(opts *formatOptions) version.GetToolVersionFunc {
	return func() (*version.ToolInfo, error) {
		line, err := btrfs.ToolVersion(context.Background(), opts.mkfsPath)
		if err != nil {
			return nil, err
		}
		info := version.NewToolInfo(opts.mkfsPath, line)
		return &info, nil
	}
}
