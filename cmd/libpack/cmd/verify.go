package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/libpack/internal/service/verify"
)

var (
	// verifyManifest is the manifest written by a packing run.
	verifyManifest string

	// verifyCmd checks a packed destination against its manifest.
	verifyCmd = &cobra.Command{
		Use:          "verify --manifest <file>",
		Short:        "Check that packed libraries carry the rewritten install names and references",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return verify.Run(ctx, &verify.Options{
				ManifestPath: verifyManifest,
				ConfigPath:   configPath,
				LogLevel:     logLevel,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	verifyCmd.Flags().StringVarP(&verifyManifest, "manifest", "m", "", "manifest written by libpack --manifest")
}
