package packager

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// copyFileMode keeps copies executable and writable for install_name_tool.
	copyFileMode os.FileMode = 0o755

	// checksumFunction validates the bytes written to the destination.
	checksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// copyLibrary replaces target with the contents of source.
// go-update writes the bytes beside the target, checks the checksum and
// renames the result into place, so a failed copy never leaves a torn file.
func copyLibrary(source, target string) error {
	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return err
	}

	if !checksumFunction.Available() {
		return fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := checksumFunction.New()
	if _, err = hasher.Write(data); err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	// go-update renames the previous target aside, so one has to exist.
	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		placeholder, err = os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY, copyFileMode)
		if err != nil {
			return err
		}

		if err = placeholder.Close(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	oldPath := target + ".old"

	options := goupdate.Options{
		TargetPath:  target,
		TargetMode:  copyFileMode,
		Checksum:    hasher.Sum(nil),
		Hash:        checksumFunction,
		OldSavePath: oldPath,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	if err = os.Remove(oldPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove previous copy: %w", err)
	}

	return nil
}
