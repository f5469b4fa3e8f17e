package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/libpack/internal/service/packager"
	"github.com/oshokin/libpack/internal/version"
)

var (
	// configPath to the configuration YAML file; defaults apply when empty.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// packOptions collects the flags of the root command.
	packOptions packager.Options

	// rootCmd represents the base command packing a binary with its libraries.
	rootCmd = &cobra.Command{
		Use:   "libpack -f <binary> -d <destination> -p <package-path>",
		Short: "Pack a macOS binary together with its dynamic libraries",
		Long: `Resolves every library the binary loads from a local prefix (/usr/local by default),
copies the libraries into the destination folder and rewrites their install names and
references to <package-path>/<library>, so the package runs outside the build machine.

System frameworks listed in the ignore patterns and @rpath references are left untouched.`,
		Example:      "  libpack -f build/obs -d OBS.app/Contents/Frameworks -p @executable_path/../Frameworks",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := packOptions
			options.ConfigPath = configPath
			options.LogLevel = logLevel

			return packager.Run(ctx, &options)
		},
	}
)

// Execute runs the libpack CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.Flags().StringVarP(&packOptions.File, "file", "f", "", "binary to pack")
	rootCmd.Flags().StringVarP(&packOptions.Destination, "dest", "d", "", "destination folder, created if absent")
	rootCmd.Flags().StringVarP(&packOptions.PackPath, "pack", "p", "", "package path the libraries are loaded from")
	rootCmd.Flags().StringVar(&packOptions.ManifestPath, "manifest", "", "write a YAML manifest of the packed libraries")
	rootCmd.Flags().BoolVar(&packOptions.Verify, "verify", false, "re-inspect every copy after packing")

	rootCmd.AddCommand(treeCmd, verifyCmd, configCmd)
}
