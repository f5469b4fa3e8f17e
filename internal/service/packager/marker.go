package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/libpack/internal/logger"
)

const (
	// MarkerFilename marks a destination that is being packed right now.
	MarkerFilename = ".libpack.lock"

	// packerExecutable is the process name of a running packer.
	packerExecutable = "libpack"

	// markerFileMode is the permission of the marker file.
	markerFileMode = 0o600
)

// ErrPackerRunning indicates another packer is writing the same destination.
var ErrPackerRunning = errors.New("another packer is writing the destination")

// marker is the lock file held in the destination while packing.
type marker struct {
	// path is the marker location.
	path string
}

// acquireMarker creates the marker in dir. An existing marker whose process
// is no longer a running packer (named executable) is considered stale and replaced.
func acquireMarker(ctx context.Context, dir, executable string) (*marker, error) {
	path := filepath.Join(dir, MarkerFilename)

	logger.Debug(ctx, "Checking for the presence of a destination marker")

	contents, err := os.ReadFile(path)

	switch {
	case err == nil:
		if isPackerRunning(markerPID(contents), executable) {
			return nil, ErrPackerRunning
		}

		logger.Info(ctx, "The destination marker is stale, removing it")

		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale marker: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read marker: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, markerFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrPackerRunning
		}

		return nil, fmt.Errorf("create marker: %w", err)
	}

	_, err = fmt.Fprintf(file, "%d\n", os.Getpid())
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return nil, fmt.Errorf("write marker: %w", err)
	}

	return &marker{path: path}, nil
}

// Release removes the marker.
func (m *marker) Release(ctx context.Context) {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf(ctx, "Unable to remove destination marker: %v", err)
	}
}

// markerPID parses the process id stored in a marker; zero when unreadable.
func markerPID(contents []byte) int {
	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return 0
	}

	return pid
}

// isPackerRunning reports whether pid belongs to another live process named executable.
func isPackerRunning(pid int, executable string) bool {
	if pid <= 0 || pid == os.Getpid() {
		return false
	}

	process, err := ps.FindProcess(pid)
	if err != nil || process == nil {
		return false
	}

	return process.Executable() == executable
}
