package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"khetao.com/mkfs/cli/globalflag"
	"khetao.com/mkfs/log"
	"khetao.com/mkfs/version"
)

// App assembles a cobra command with the standard ambient wiring:
// logging flags, global flags and a version subcommand.
type App struct {
	name        string
	description string
	logOptions  *log.Options
	versionOpts version.CobraOptions
	options     CliOptions
	run         RunFunc
}

// RunFunc is the command body invoked after flags are parsed and the
// app's CliOptions have been validated and completed.
type RunFunc func(cmd *cobra.Command, args []string) error

type Option func(*App)

func WithDescription(description string) Option {
	return func(a *App) {
		a.description = description
	}
}

// WithOptions attaches a flag-backed options struct to the command.
func WithOptions(options CliOptions) Option {
	return func(a *App) {
		a.options = options
	}
}

// WithVersionOptions customizes the version subcommand.
func WithVersionOptions(opts version.CobraOptions) Option {
	return func(a *App) {
		a.versionOpts = opts
	}
}

func WithRun(run RunFunc) Option {
	return func(a *App) {
		a.run = run
	}
}

func New(name string, opts ...Option) *App {
	a := &App{
		name:       name,
		logOptions: log.DefaultOptions(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Command builds the root cobra command for the app.
func (a *App) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.Configure(a.logOptions)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.options != nil {
				if errs := a.options.Validate(); len(errs) > 0 {
					return aggregate(errs)
				}
				if c, ok := a.options.(CompletableOptions); ok {
					if err := c.Complete(); err != nil {
						return err
					}
				}
				if p, ok := a.options.(PrintableOptions); ok {
					log.Debugf("running %s with options: %s", a.name, p.String())
				}
			}
			if a.run == nil {
				return cmd.Help()
			}
			return a.run(cmd, args)
		},
	}

	if a.options != nil {
		a.options.Flags(cmd.Flags())
	}
	a.logOptions.AttachCobraFlags(cmd)
	globalflag.AddGlobalFlags(cmd.PersistentFlags(), a.name)
	cmd.AddCommand(version.CobraCommandWithOptions(a.versionOpts))

	return cmd
}

func aggregate(errs []error) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
