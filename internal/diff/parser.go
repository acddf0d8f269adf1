package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRe  = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	hunkHeaderRe  = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	oldPathRe     = regexp.MustCompile(`^--- a/(.+)$`)
	newPathRe     = regexp.MustCompile(`^\+\+\+ b/(.+)$`)
	similarityRe  = regexp.MustCompile(`^similarity index (\d+)%$`)
	renameFromRe  = regexp.MustCompile(`^rename from (.+)$`)
	renameToRe    = regexp.MustCompile(`^rename to (.+)$`)
	binaryRe      = regexp.MustCompile(`^Binary files .+ and .+ differ$`)
	newFileModeRe = regexp.MustCompile(`^new file mode (\d+)$`)
	delFileModeRe = regexp.MustCompile(`^deleted file mode (\d+)$`)
	modeChangeRe  = regexp.MustCompile(`^(?:old|new) mode (\d+)$`)
	indexRe       = regexp.MustCompile(`^index [a-f0-9]+\.\.[a-f0-9]+`)
)

// Parse converts unified diff output into structured Files. It tolerates
// the usual edge cases: binary files, renames with similarity index, new
// and deleted files (/dev/null headers), mode changes, and the trailing
// "\ No newline at end of file" marker.
func Parse(output string) ([]File, error) {
	if output == "" {
		return nil, nil
	}

	p := &parser{}
	// The trailing newline of git output would otherwise read as an empty
	// context line.
	output = strings.TrimSuffix(output, "\n")
	for _, line := range strings.Split(output, "\n") {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}
	return p.finish(), nil
}

// parser carries the in-progress file and hunk while scanning lines.
type parser struct {
	files   []File
	file    *File
	hunk    *Hunk
	oldLine int
	newLine int
}

func (p *parser) feed(line string) error {
	if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
		p.flushFile()
		p.file = &File{OldPath: m[1], NewPath: m[2]}
		return nil
	}
	if p.file == nil {
		return nil // preamble before the first file header
	}

	if p.matchFileMeta(line) {
		return nil
	}
	if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
		return p.startHunk(line, m)
	}
	if p.hunk == nil {
		return nil
	}
	p.feedHunkLine(line)
	return nil
}

// matchFileMeta consumes the header lines between "diff --git" and the
// first hunk. Returns true when the line was recognized.
func (p *parser) matchFileMeta(line string) bool {
	switch {
	case line == "--- /dev/null":
		p.file.IsNew = true
		p.file.OldPath = "/dev/null"
	case line == "+++ /dev/null":
		p.file.IsDeleted = true
		p.file.NewPath = "/dev/null"
	case oldPathRe.MatchString(line):
		p.file.OldPath = oldPathRe.FindStringSubmatch(line)[1]
	case newPathRe.MatchString(line):
		p.file.NewPath = newPathRe.FindStringSubmatch(line)[1]
	case similarityRe.MatchString(line):
		if n, err := strconv.Atoi(similarityRe.FindStringSubmatch(line)[1]); err == nil {
			p.file.Similarity = n
			p.file.IsRenamed = true
		}
	case renameFromRe.MatchString(line):
		p.file.OldPath = renameFromRe.FindStringSubmatch(line)[1]
		p.file.IsRenamed = true
	case renameToRe.MatchString(line):
		p.file.NewPath = renameToRe.FindStringSubmatch(line)[1]
		p.file.IsRenamed = true
	case binaryRe.MatchString(line):
		p.file.IsBinary = true
	case newFileModeRe.MatchString(line):
		p.file.IsNew = true
	case delFileModeRe.MatchString(line):
		p.file.IsDeleted = true
	case modeChangeRe.MatchString(line), indexRe.MatchString(line):
		// not needed for display
	default:
		return false
	}
	return true
}

func (p *parser) startHunk(raw string, m []string) error {
	p.flushHunk()

	oldStart, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("invalid old start in hunk header: %s", raw)
	}
	newStart, err := strconv.Atoi(m[3])
	if err != nil {
		return fmt.Errorf("invalid new start in hunk header: %s", raw)
	}
	oldCount, newCount := 1, 1
	if m[2] != "" {
		if oldCount, err = strconv.Atoi(m[2]); err != nil {
			return fmt.Errorf("invalid old count in hunk header: %s", raw)
		}
	}
	if m[4] != "" {
		if newCount, err = strconv.Atoi(m[4]); err != nil {
			return fmt.Errorf("invalid new count in hunk header: %s", raw)
		}
	}

	p.hunk = &Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Header:   raw,
		Lines: []Line{{
			Type:    LineHunkHeader,
			Content: strings.TrimSpace(m[5]),
		}},
	}
	p.oldLine = oldStart
	p.newLine = newStart
	return nil
}

func (p *parser) feedHunkLine(line string) {
	if line == "" {
		// A bare empty line inside a hunk is a context line with empty
		// content (some tools trim the leading space).
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type: LineContext, OldNum: p.oldLine, NewNum: p.newLine,
		})
		p.oldLine++
		p.newLine++
		return
	}

	content := ""
	if len(line) > 1 {
		content = line[1:]
	}

	switch line[0] {
	case ' ':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type: LineContext, OldNum: p.oldLine, NewNum: p.newLine, Content: content,
		})
		p.oldLine++
		p.newLine++
	case '-':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type: LineDeletion, OldNum: p.oldLine, Content: content,
		})
		p.file.Deletions++
		p.oldLine++
	case '+':
		p.hunk.Lines = append(p.hunk.Lines, Line{
			Type: LineAddition, NewNum: p.newLine, Content: content,
		})
		p.file.Additions++
		p.newLine++
	case '\\':
		// "\ No newline at end of file"
	default:
		// Unknown prefix at a hunk boundary; skip rather than fail.
	}
}

func (p *parser) flushHunk() {
	if p.hunk != nil {
		p.file.Hunks = append(p.file.Hunks, *p.hunk)
		p.hunk = nil
	}
}

func (p *parser) flushFile() {
	if p.file != nil {
		p.flushHunk()
		p.files = append(p.files, *p.file)
		p.file = nil
	}
}

func (p *parser) finish() []File {
	p.flushFile()
	return p.files
}
