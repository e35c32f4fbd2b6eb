package app

import "github.com/spf13/pflag"

// CliOptions abstracts the flag-backed configuration of a command.
type CliOptions interface {
	Flags(fs *pflag.FlagSet)
	Validate() []error
}

// CompletableOptions fill in derived fields after validation.
type CompletableOptions interface {
	Complete() error
}

// PrintableOptions can report themselves for debug logging.
type PrintableOptions interface {
	String() string
}
