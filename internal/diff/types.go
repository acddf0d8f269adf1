// Package diff holds the structured model for one file's changes: parsed
// hunks, line classification, word-level highlighting, and the per-hunk
// staging state machine.
package diff

// LineType classifies a single line within a hunk.
type LineType int

const (
	LineContext    LineType = iota // ' ' prefix, unchanged
	LineAddition                   // '+' prefix
	LineDeletion                   // '-' prefix
	LineHunkHeader                 // the '@@ ... @@' marker row
)

// Line is one line of a hunk. Context lines carry both numbers, additions
// only the new number, deletions only the old.
type Line struct {
	Type    LineType
	OldNum  int    // Line number in the old file, 0 for additions
	NewNum  int    // Line number in the new file, 0 for deletions
	Content string // Text without the +/-/space prefix
}

// Hunk is a contiguous block of changes bounded by an @@ header.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Header   string // The raw @@ line
	Lines    []Line
}

// Additions counts the hunk's added lines.
func (h Hunk) Additions() int { return h.countType(LineAddition) }

// Deletions counts the hunk's deleted lines.
func (h Hunk) Deletions() int { return h.countType(LineDeletion) }

func (h Hunk) countType(t LineType) int {
	n := 0
	for _, l := range h.Lines {
		if l.Type == t {
			n++
		}
	}
	return n
}

// File is a single file's parsed diff.
type File struct {
	OldPath     string // Path in the old version, or /dev/null for new files
	NewPath     string // Path in the new version, or /dev/null for deletions
	Additions   int
	Deletions   int
	IsBinary    bool
	IsRenamed   bool
	IsNew       bool
	IsDeleted   bool
	IsUntracked bool
	Similarity  int // Rename similarity percentage
	Hunks       []Hunk
}

// Path returns the path a user would refer to the file by: the new path
// unless the file was deleted.
func (f File) Path() string {
	if f.IsDeleted {
		return f.OldPath
	}
	return f.NewPath
}

// LineCount returns the total number of lines across all hunks, hunk
// header rows included.
func (f File) LineCount() int {
	n := 0
	for _, h := range f.Hunks {
		n += len(h.Lines)
	}
	return n
}
