package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/libpack/internal/service/inspect"
)

var (
	// treeFile is the binary whose tree is printed.
	treeFile string

	// treeCmd prints the dependency tree without packing.
	treeCmd = &cobra.Command{
		Use:          "tree -f <binary>",
		Short:        "Print the dependency tree of a binary",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err := inspect.Run(ctx, &inspect.Options{
				File:       treeFile,
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	treeCmd.Flags().StringVarP(&treeFile, "file", "f", "", "binary to inspect")
}
