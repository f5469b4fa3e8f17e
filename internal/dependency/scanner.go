package dependency

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oshokin/libpack/internal/config"
	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/logger"
	"github.com/oshokin/libpack/internal/tools"
)

// relocatableTokens are reference prefixes resolved by the loader at run time.
//
//nolint:gochecknoglobals // Fixed by the dyld reference format.
var relocatableTokens = []string{"@rpath", "@loader_path", "@executable_path"}

// ErrMissingDependency is returned when a packable reference points to a missing file.
var ErrMissingDependency = errors.New("dependency not found")

// Lister reads the linkage metadata of a binary.
type Lister interface {
	ListDependencies(ctx context.Context, path string) ([]tools.Entry, error)
	InstallName(ctx context.Context, path string) (string, error)
}

// Scanner inspects single binaries.
type Scanner struct {
	// lister runs the inspection tool.
	lister Lister
	// cfg decides which references are ignored and which are packed.
	cfg *config.Config
}

// NewScanner creates a scanner using lister and the packing rules in cfg.
func NewScanner(lister Lister, cfg *config.Config) *Scanner {
	return &Scanner{
		lister: lister,
		cfg:    cfg,
	}
}

// Scan inspects the binary at binaryPath and classifies its references.
func (s *Scanner) Scan(ctx context.Context, binaryPath string) (*library.Library, error) {
	canonical, err := canonicalPath(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", binaryPath, err)
	}

	entries, err := s.lister.ListDependencies(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", canonical, err)
	}

	lib := library.New(canonical)

	lib.InstallName, err = s.lister.InstallName(ctx, canonical)
	if err != nil && !errors.Is(err, tools.ErrNoInstallName) {
		return nil, fmt.Errorf("read install name of %s: %w", canonical, err)
	}

	for _, entry := range entries {
		if s.cfg.IsIgnored(entry.Path) {
			logger.Debugf(ctx, "Ignoring %s", entry.Path)
			continue
		}

		if token, rest, ok := splitRelocatable(entry.Path); ok {
			if err = s.addRelative(lib, token, rest, entry.Path); err != nil {
				return nil, err
			}

			continue
		}

		if err = s.addDependency(lib, entry.Path); err != nil {
			return nil, err
		}
	}

	return lib, nil
}

// addRelative records a relocatable reference unless it points back at lib.
func (s *Scanner) addRelative(lib *library.Library, token, rest, reference string) error {
	target, err := resolveLenient(filepath.Join(filepath.Dir(lib.Path), filepath.FromSlash(rest)))
	if err != nil {
		return fmt.Errorf("resolve %s in %s: %w", reference, lib.Path, err)
	}

	name := filepath.Base(target)
	if name == lib.Name {
		return nil
	}

	dir := path.Dir(rest)
	if dir == "." {
		dir = ""
	}

	lib.Relatives[name] = &library.RelativeReference{
		Name:      name,
		Reference: token + "/" + rest,
		Target:    target,
		Dir:       dir,
	}

	return nil
}

// addDependency records an absolute reference that resolves under a local prefix.
func (s *Scanner) addDependency(lib *library.Library, reference string) error {
	target, err := resolveLenient(reference)
	if err != nil {
		return fmt.Errorf("resolve %s in %s: %w", reference, lib.Path, err)
	}

	if !s.cfg.IsLocal(target) {
		return nil
	}

	// A library lists its own install name first.
	if reference == lib.InstallName || target == lib.Path {
		return nil
	}

	if _, err = os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s referenced by %s: %w", reference, lib.Path, ErrMissingDependency)
		}

		return fmt.Errorf("stat %s: %w", target, err)
	}

	lib.Dependencies[target] = &library.Dependency{
		Name:   filepath.Base(target),
		IsLink: isSymlink(reference),
		Path:   reference,
		Target: target,
	}

	return nil
}

// splitRelocatable splits "@rpath/sub/libx.dylib" into "@rpath" and "sub/libx.dylib".
func splitRelocatable(reference string) (string, string, bool) {
	for _, token := range relocatableTokens {
		if rest, ok := strings.CutPrefix(reference, token+"/"); ok {
			return token, rest, true
		}
	}

	return "", "", false
}

// canonicalPath returns the absolute path with every symlink resolved.
func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// resolveLenient resolves symlinks, keeping the cleaned path when it does not exist.
// System libraries live in the dyld shared cache and have no file on disk.
func resolveLenient(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err == nil {
		return resolved, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return filepath.Clean(p), nil
	}

	return "", err
}

func isSymlink(p string) bool {
	info, err := os.Lstat(p)

	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
