package packager

import (
	"strings"

	"github.com/oshokin/libpack/internal/domain/library"
	"github.com/oshokin/libpack/internal/repository/manifest"
)

// describeLibrary renders what happened to a packed library:
//
//	libfoo.dylib: {
//	  relatives: {
//	    plugins/libplugin.dylib
//	  },
//	  dependencies: {
//	    /usr/local/lib/libbar.dylib -> @executable_path/../Frameworks/libbar.dylib
//	  }
//	}
func describeLibrary(lib *library.Library, packPath string) string {
	var builder strings.Builder

	builder.WriteString(lib.Name)
	builder.WriteString(": {\n")

	if relatives := lib.SortedRelatives(); len(relatives) > 0 {
		builder.WriteString("  relatives: {\n")

		for _, rel := range relatives {
			builder.WriteString("    ")
			builder.WriteString(rel.Display())
			builder.WriteString("\n")
		}

		builder.WriteString("  },\n")
	}

	builder.WriteString("  dependencies: {\n")

	for _, dep := range lib.SortedDependencies() {
		builder.WriteString("    ")
		builder.WriteString(dep.Path)
		builder.WriteString(" -> ")
		builder.WriteString(manifest.PackedPath(packPath, dep.Name))
		builder.WriteString("\n")
	}

	builder.WriteString("  }\n}")

	return builder.String()
}
