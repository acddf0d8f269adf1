package git

import (
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/vines/internal/graph"
)

// logFormat encodes one commit per record. Fields are separated by the
// ASCII unit separator and records by the record separator, so commit
// bodies can contain newlines without breaking the parse.
const logFormat = "%H%x1f%h%x1f%P%x1f%an%x1f%aI%x1f%D%x1f%s%x1f%b%x1e"

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// parseCommitLog converts `git log --format=logFormat` output into
// commits ordered newest first.
func parseCommitLog(output string) ([]graph.Commit, error) {
	if output == "" {
		return nil, nil
	}

	var commits []graph.Commit
	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSep, 8)
		if len(fields) != 8 {
			return nil, fmt.Errorf("malformed log record: %d fields", len(fields))
		}

		date, err := time.Parse(time.RFC3339, fields[4])
		if err != nil {
			return nil, fmt.Errorf("parse commit date %q: %w", fields[4], err)
		}

		commits = append(commits, graph.Commit{
			Hash:      fields[0],
			ShortHash: fields[1],
			Parents:   splitParents(fields[2]),
			Author:    fields[3],
			Date:      date,
			Refs:      parseDecorations(fields[5]),
			Subject:   fields[6],
			Body:      strings.TrimRight(fields[7], "\n"),
		})
	}
	return commits, nil
}

func splitParents(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, " ")
}

// parseDecorations converts a %D decoration string into refs.
// Examples: "HEAD -> main, origin/main, tag: v1.2.0", "HEAD" (detached).
func parseDecorations(d string) []graph.Ref {
	if d == "" {
		return nil
	}

	var refs []graph.Ref
	for _, part := range strings.Split(d, ", ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch {
		case strings.HasPrefix(part, "HEAD -> "):
			refs = append(refs, graph.Ref{
				Name:   strings.TrimPrefix(part, "HEAD -> "),
				Type:   graph.RefTypeBranch,
				IsHead: true,
			})
		case part == "HEAD":
			refs = append(refs, graph.Ref{Name: "HEAD", Type: graph.RefTypeHead, IsHead: true})
		case strings.HasPrefix(part, "tag: "):
			refs = append(refs, graph.Ref{
				Name: strings.TrimPrefix(part, "tag: "),
				Type: graph.RefTypeTag,
			})
		default:
			refs = append(refs, graph.Ref{Name: part, Type: graph.RefTypeBranch})
		}
	}
	return refs
}
