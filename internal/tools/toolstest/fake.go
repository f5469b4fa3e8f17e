// Package toolstest provides an in-process stand-in for otool and
// install_name_tool. Binaries are small YAML files describing an install
// name and a list of references; the fake answers inspection requests from
// them and applies rewrites to them in place.
package toolstest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	inspectTool = "otool"
	rewriteTool = "install_name_tool"

	// imageFileMode is the mode of files written by WriteImage.
	imageFileMode = 0o755
)

// ErrUnsupported is returned for tools or flags the fake does not emulate.
var ErrUnsupported = errors.New("unsupported fake invocation")

// Image is the content of a fake binary.
type Image struct {
	// ID is the install name; empty for executables.
	ID string `yaml:"id,omitempty"`
	// Dependencies are the referenced libraries.
	Dependencies []string `yaml:"dependencies"`
}

// WriteImage writes a fake binary to path, creating parent directories.
func WriteImage(path string, img Image) error {
	if err := os.MkdirAll(filepath.Dir(path), imageFileMode); err != nil {
		return err
	}

	data, err := yaml.Marshal(img)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, imageFileMode)
}

// ReadImage reads a fake binary from path.
func ReadImage(path string) (Image, error) {
	var img Image

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return img, err
	}

	err = yaml.Unmarshal(data, &img)

	return img, err
}

// Call records a single tool invocation.
type Call struct {
	// Name is the base name of the invoked tool.
	Name string
	// Args are the arguments passed to the tool.
	Args []string
}

// Runner emulates the inspection and rewriting tools. Safe for concurrent use.
type Runner struct {
	// FailOn, when set, is consulted before every invocation; a non-nil
	// result is returned as the tool error.
	FailOn func(name string, args []string) error

	// mu guards calls.
	mu sync.Mutex
	// calls lists every invocation in order.
	calls []Call
}

// Output implements tools.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	name = filepath.Base(name)

	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: slices.Clone(args)})
	r.mu.Unlock()

	if r.FailOn != nil {
		if err := r.FailOn(name, args); err != nil {
			return nil, err
		}
	}

	switch {
	case name == inspectTool && len(args) == 2 && args[0] == "-L":
		return listing(args[1])
	case name == inspectTool && len(args) == 2 && args[0] == "-D":
		return installName(args[1])
	case name == rewriteTool && len(args) == 3 && args[0] == "-id":
		return nil, rewrite(args[2], func(img *Image) {
			img.ID = args[1]
		})
	case name == rewriteTool && len(args) == 4 && args[0] == "-change":
		return nil, rewrite(args[3], func(img *Image) {
			for i, dep := range img.Dependencies {
				if dep == args[1] {
					img.Dependencies[i] = args[2]
				}
			}
		})
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupported, name, strings.Join(args, " "))
	}
}

// Calls returns a copy of the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.calls)
}

// Count returns how many invocations of name had exactly args.
func (r *Runner) Count(name string, args ...string) int {
	var count int

	for _, call := range r.Calls() {
		if call.Name == name && slices.Equal(call.Args, args) {
			count++
		}
	}

	return count
}

func listing(path string) ([]byte, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}

	var builder strings.Builder

	builder.WriteString(path)
	builder.WriteString(":\n")

	refs := img.Dependencies
	if img.ID != "" {
		refs = append([]string{img.ID}, refs...)
	}

	for _, ref := range refs {
		builder.WriteString("\t")
		builder.WriteString(ref)
		builder.WriteString(" (compatibility version 1.0.0, current version 1.0.0)\n")
	}

	return []byte(builder.String()), nil
}

func installName(path string) ([]byte, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}

	output := path + ":\n"
	if img.ID != "" {
		output += img.ID + "\n"
	}

	return []byte(output), nil
}

func rewrite(path string, apply func(img *Image)) error {
	img, err := ReadImage(path)
	if err != nil {
		return err
	}

	apply(&img)

	return WriteImage(path, img)
}
