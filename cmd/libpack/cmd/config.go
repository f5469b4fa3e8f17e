package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/libpack/internal/config"
)

// configCmd writes the default configuration so it can be edited.
//
//nolint:gochecknoglobals // Cobra commands are package-level by convention.
var configCmd = &cobra.Command{
	Use:          "config [path]",
	Short:        "Write the default configuration file",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFilename
		if len(args) > 0 {
			path = args[0]
		}

		if err := config.Save(path, config.Default()); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)

		return nil
	},
}
