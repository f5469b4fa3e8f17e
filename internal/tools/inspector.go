package tools

import (
	"context"
	"fmt"
	"strings"
)

// Inspector reads linkage metadata through `otool`.
type Inspector struct {
	// runner executes the tool.
	runner Runner
	// tool is the inspection executable name or path.
	tool string
}

// NewInspector creates an inspector running tool through runner.
func NewInspector(runner Runner, tool string) *Inspector {
	return &Inspector{
		runner: runner,
		tool:   tool,
	}
}

// ListDependencies returns the libraries the binary at path links against.
func (i *Inspector) ListDependencies(ctx context.Context, path string) ([]Entry, error) {
	output, err := i.runner.Output(ctx, i.tool, "-L", path)
	if err != nil {
		return nil, err
	}

	entries, err := ParseListing(string(output))
	if err != nil {
		return nil, fmt.Errorf("parse listing of %s: %w", path, err)
	}

	return entries, nil
}

// InstallName returns the install name (self-identifier) of the library at path.
func (i *Inspector) InstallName(ctx context.Context, path string) (string, error) {
	output, err := i.runner.Output(ctx, i.tool, "-D", path)
	if err != nil {
		return "", err
	}

	id, err := ParseInstallName(string(output))
	if err != nil {
		return "", fmt.Errorf("parse install name of %s: %w", path, err)
	}

	return strings.TrimSpace(id), nil
}
