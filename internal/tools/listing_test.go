package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseListing_Library parses a typical dylib listing.
func TestParseListing_Library(t *testing.T) {
	t.Parallel()

	output := "/usr/local/opt/libpng/lib/libpng16.16.dylib:\n" +
		"\t/usr/local/opt/libpng/lib/libpng16.16.dylib (compatibility version 57.0.0, current version 57.0.0)\n" +
		"\t/usr/lib/libz.1.dylib (compatibility version 1.0.0, current version 1.2.11)\n" +
		"\t/usr/lib/libSystem.B.dylib (compatibility version 1.0.0, current version 1292.60.1, weak)\n"

	entries, err := ParseListing(output)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, Entry{
		Path:                 "/usr/lib/libz.1.dylib",
		CompatibilityVersion: "1.0.0",
		CurrentVersion:       "1.2.11",
	}, entries[1])
	require.True(t, entries[2].Weak)
}

// TestParseListing_Universal deduplicates entries repeated per architecture.
func TestParseListing_Universal(t *testing.T) {
	t.Parallel()

	output := "/Applications/My App (beta).app/Contents/MacOS/app (architecture x86_64):\n" +
		"\t@rpath/QtCore.framework/Versions/5/QtCore (compatibility version 5.15.0, current version 5.15.2)\n" +
		"\t/usr/local/lib/libobs.0.dylib (compatibility version 1.0.0, current version 1.0.0)\n" +
		"/Applications/My App (beta).app/Contents/MacOS/app (architecture arm64):\n" +
		"\t@rpath/QtCore.framework/Versions/5/QtCore (compatibility version 5.15.0, current version 5.15.2)\n" +
		"\t/usr/local/lib/libobs.0.dylib (compatibility version 1.0.0, current version 1.0.0)\n"

	entries, err := ParseListing(output)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "@rpath/QtCore.framework/Versions/5/QtCore", entries[0].Path)
	require.Equal(t, "/usr/local/lib/libobs.0.dylib", entries[1].Path)
}

// TestParseListing_Malformed rejects output that does not follow the expected shape.
func TestParseListing_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          "",
		"not an object":  "/tmp/readme.txt: is not an object file\n",
		"no annotation":  "/bin/app:\n\t/usr/local/lib/libx.dylib\n",
		"entry first":    "\t/usr/local/lib/libx.dylib (compatibility version 1.0.0, current version 1.0.0)\n",
		"unclosed paren": "/bin/app:\n\t/usr/local/lib/libx.dylib (compatibility version 1.0.0\n",
	}
	for name, output := range cases {
		_, err := ParseListing(output)
		require.ErrorIs(t, err, ErrMalformedListing, name)
	}

	// Header only is a valid empty listing.
	entries, err := ParseListing("/usr/local/lib/libstatic.dylib:\n")
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestParseInstallName covers libraries, executables and garbage.
func TestParseInstallName(t *testing.T) {
	t.Parallel()

	id, err := ParseInstallName("/tmp/out/libfoo.dylib:\n@executable_path/../Frameworks/libfoo.dylib\n")
	require.NoError(t, err)
	require.Equal(t, "@executable_path/../Frameworks/libfoo.dylib", id)

	_, err = ParseInstallName("/tmp/out/app:\n")
	require.ErrorIs(t, err, ErrNoInstallName)

	// Universal executable: one header per architecture, no install name.
	_, err = ParseInstallName("/build/app (architecture x86_64):\n/build/app (architecture arm64):\n")
	require.ErrorIs(t, err, ErrNoInstallName)

	// Universal library: the install name follows the first header.
	id, err = ParseInstallName("/build/libfoo.dylib (architecture x86_64):\n" +
		"/usr/local/lib/libfoo.dylib\n" +
		"/build/libfoo.dylib (architecture arm64):\n" +
		"/usr/local/lib/libfoo.dylib\n")
	require.NoError(t, err)
	require.Equal(t, "/usr/local/lib/libfoo.dylib", id)

	_, err = ParseInstallName("garbage")
	require.ErrorIs(t, err, ErrMalformedListing)
}
