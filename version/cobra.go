package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// Version is the aggregate the `version` subcommand reports.
type Version struct {
	ClientVersion *BuildInfo `json:"clientVersion,omitempty" yaml:"clientVersion,omitempty"`
	ToolVersion   *ToolInfo  `json:"toolVersion,omitempty" yaml:"toolVersion,omitempty"`
}

// GetToolVersionFunc retrieves the version of the wrapped mkfs.btrfs
// binary, typically by running it with --version.
type GetToolVersionFunc func() (*ToolInfo, error)

// CobraOptions holds options to be passed to CobraCommandWithOptions.
type CobraOptions struct {
	// GetToolVersion is invoked to retrieve the wrapped binary's own
	// version. Optional. If not set, the 'version' subcommand will not
	// probe the binary and the '--tool' flag is hidden.
	GetToolVersion GetToolVersionFunc
}

func CobraCommand() *cobra.Command {
	return CobraCommandWithOptions(CobraOptions{})
}

func CobraCommandWithOptions(options CobraOptions) *cobra.Command {
	var (
		short   bool
		output  string
		tool    bool
		version Version
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Prints out build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && output != "yaml" && output != "json" {
				return errors.New(`--output must be 'yaml' or 'json'`)
			}

			version.ClientVersion = &Info

			if options.GetToolVersion != nil && tool {
				toolVersion, err := options.GetToolVersion()
				if err != nil {
					return err
				}
				version.ToolVersion = toolVersion
			}

			switch output {
			case "":
				if short {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.ClientVersion.Version)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.ClientVersion.LongForm())
				}
				if version.ToolVersion != nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", version.ToolVersion.Command, version.ToolVersion.Version)
				}
			case "yaml":
				if marshaled, err := yaml.Marshal(&version); err == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(marshaled))
				}
			case "json":
				if marshaled, err := json.MarshalIndent(&version, "", "  "); err == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(marshaled))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Use --short=false to generate full version information")
	cmd.Flags().StringVarP(&output, "output", "o", "", "One of 'yaml' or 'json'.")
	if options.GetToolVersion != nil {
		cmd.Flags().BoolVar(&tool, "tool", false, "Also report the version of the wrapped mkfs.btrfs binary")
	}

	return cmd
}
