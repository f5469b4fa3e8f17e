package tools

import (
	"context"
	"strings"
)

// Editor rewrites linkage metadata through `install_name_tool`.
// Both methods return whatever the tool printed, trimmed.
type Editor struct {
	// runner executes the tool.
	runner Runner
	// tool is the rewriting executable name or path.
	tool string
}

// NewEditor creates an editor running tool through runner.
func NewEditor(runner Runner, tool string) *Editor {
	return &Editor{
		runner: runner,
		tool:   tool,
	}
}

// SetID changes the install name of the library at path.
func (e *Editor) SetID(ctx context.Context, path, id string) (string, error) {
	output, err := e.runner.Output(ctx, e.tool, "-id", id, path)

	return strings.TrimSpace(string(output)), err
}

// Change replaces the reference oldRef with newRef inside the binary at path.
func (e *Editor) Change(ctx context.Context, path, oldRef, newRef string) (string, error) {
	output, err := e.runner.Output(ctx, e.tool, "-change", oldRef, newRef, path)

	return strings.TrimSpace(string(output)), err
}
