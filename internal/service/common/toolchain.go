//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/libpack/internal/config"
	"github.com/oshokin/libpack/internal/logger"
	"github.com/oshokin/libpack/internal/tools"
)

// Toolchain bundles the configuration and the tool wrappers built from it.
type Toolchain struct {
	// Config holds the packing rules.
	Config *config.Config
	// Inspector reads linkage metadata.
	Inspector *tools.Inspector
	// Editor rewrites linkage metadata.
	Editor *tools.Editor
}

// NewToolchain loads the configuration at configPath (defaults when empty),
// applies the log level and builds the tool wrappers.
// logLevel overrides the configured level when set; a nil runner runs real processes.
func NewToolchain(ctx context.Context, configPath, logLevel string, runner tools.Runner) (*Toolchain, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}

	if err = logger.SetLevelFromString(logLevel); err != nil {
		return nil, err
	}

	if runner == nil {
		runner = tools.NewExecRunner(cfg.Timeout)
	}

	logger.DebugKV(ctx, "Toolchain ready",
		"inspect_tool", cfg.InspectTool, "rewrite_tool", cfg.RewriteTool, "timeout", cfg.Timeout)

	return &Toolchain{
		Config:    cfg,
		Inspector: tools.NewInspector(runner, cfg.InspectTool),
		Editor:    tools.NewEditor(runner, cfg.RewriteTool),
	}, nil
}
