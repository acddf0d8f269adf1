package git

import (
	"fmt"
	"strings"

	"github.com/zjrosen/vines/internal/diff"
)

// BuildHunkPatch renders a one-hunk patch that git apply accepts. The
// hunk's line numbers come straight from the parsed diff, so the patch
// only applies while the snapshot it was parsed from is still current.
func BuildHunkPatch(file diff.File, hunk diff.Hunk) string {
	var b strings.Builder

	oldPath := "a/" + file.OldPath
	newPath := "b/" + file.NewPath
	if file.IsNew {
		oldPath = "/dev/null"
	}
	if file.IsDeleted {
		newPath = "/dev/null"
	}

	fmt.Fprintf(&b, "--- %s\n", oldPath)
	fmt.Fprintf(&b, "+++ %s\n", newPath)
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)

	for _, line := range hunk.Lines {
		switch line.Type {
		case diff.LineContext:
			b.WriteString(" " + line.Content + "\n")
		case diff.LineDeletion:
			b.WriteString("-" + line.Content + "\n")
		case diff.LineAddition:
			b.WriteString("+" + line.Content + "\n")
		case diff.LineHunkHeader:
			// Already emitted above.
		}
	}
	return b.String()
}
