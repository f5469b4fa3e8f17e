package tools

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// annotationMarker separates a referenced path from its version annotation.
	annotationMarker = " ("

	compatibilityPrefix = "compatibility version "
	currentPrefix       = "current version "
	weakAnnotation      = "weak"
)

var (
	// ErrMalformedListing is returned when the inspection output has an unexpected shape.
	ErrMalformedListing = errors.New("malformed dependency listing")
	// ErrNoInstallName is returned for binaries without an install name, such as executables.
	ErrNoInstallName = errors.New("binary has no install name")
)

// Entry is one library referenced by a binary.
type Entry struct {
	// Path is the reference as recorded in the load command.
	Path string
	// CompatibilityVersion is the minimum version the binary accepts.
	CompatibilityVersion string
	// CurrentVersion is the version the binary was linked against.
	CurrentVersion string
	// Weak marks references that may be missing at load time.
	Weak bool
}

// ParseListing parses `otool -L` output.
//
// The output starts with a header line ending in a colon (one per
// architecture for universal binaries) followed by indented lines of the form
//
//	/usr/local/lib/libz.1.dylib (compatibility version 1.0.0, current version 1.2.13)
//
// Entries repeated across architectures are returned once, in first-seen order.
func ParseListing(output string) ([]Entry, error) {
	var (
		entries   []Entry
		seen      = make(map[string]struct{})
		hasHeader bool
	)

	for number, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !isIndented(line) {
			if !strings.HasSuffix(line, ":") {
				return nil, fmt.Errorf("%w: line %d: unexpected header %q", ErrMalformedListing, number+1, line)
			}

			hasHeader = true

			continue
		}

		if !hasHeader {
			return nil, fmt.Errorf("%w: line %d: entry before header", ErrMalformedListing, number+1)
		}

		entry, err := parseEntry(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number+1, err)
		}

		if _, ok := seen[entry.Path]; ok {
			continue
		}

		seen[entry.Path] = struct{}{}
		entries = append(entries, entry)
	}

	if !hasHeader {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedListing)
	}

	return entries, nil
}

// ParseInstallName parses `otool -D` output: a header followed by the install name.
// Universal binaries repeat the header per architecture; executables print headers only.
func ParseInstallName(output string) (string, error) {
	var hasHeader bool

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			hasHeader = true

			continue
		}

		if !hasHeader {
			return "", fmt.Errorf("%w: unexpected header %q", ErrMalformedListing, line)
		}

		return line, nil
	}

	if !hasHeader {
		return "", fmt.Errorf("%w: missing header", ErrMalformedListing)
	}

	return "", ErrNoInstallName
}

// parseEntry splits a single trimmed entry line into path and annotations.
func parseEntry(line string) (Entry, error) {
	open := strings.LastIndex(line, annotationMarker)
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return Entry{}, fmt.Errorf("%w: no version annotation in %q", ErrMalformedListing, line)
	}

	entry := Entry{
		Path: line[:open],
	}

	annotations := line[open+len(annotationMarker) : len(line)-1]
	for _, field := range strings.Split(annotations, ",") {
		field = strings.TrimSpace(field)

		switch {
		case strings.HasPrefix(field, compatibilityPrefix):
			entry.CompatibilityVersion = strings.TrimPrefix(field, compatibilityPrefix)
		case strings.HasPrefix(field, currentPrefix):
			entry.CurrentVersion = strings.TrimPrefix(field, currentPrefix)
		case field == weakAnnotation:
			entry.Weak = true
		}
	}

	return entry, nil
}

func isIndented(line string) bool {
	return line[0] == '\t' || line[0] == ' '
}
