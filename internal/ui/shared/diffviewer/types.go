package diffviewer

import "github.com/zjrosen/vines/internal/diff"

// alignedPair is one display row of the side by side layout. Either
// side may be nil when the row only exists in one version.
type alignedPair struct {
	Left  *diff.Line
	Right *diff.Line
}

// IsContext reports whether both sides show the same unchanged line.
func (p alignedPair) IsContext() bool {
	return p.Left != nil && p.Left.Type == diff.LineContext
}

// IsDeletion reports whether only the old side has content.
func (p alignedPair) IsDeletion() bool {
	return p.Left != nil && p.Left.Type == diff.LineDeletion && p.Right == nil
}

// IsAddition reports whether only the new side has content.
func (p alignedPair) IsAddition() bool {
	return p.Right != nil && p.Right.Type == diff.LineAddition && p.Left == nil
}

// IsModification reports whether a deletion lines up with an addition,
// which makes the pair a candidate for word level highlighting.
func (p alignedPair) IsModification() bool {
	return p.Left != nil && p.Left.Type == diff.LineDeletion &&
		p.Right != nil && p.Right.Type == diff.LineAddition
}

// alignHunk turns a hunk's line list into side by side rows. Context
// lines occupy both sides. A run of deletions followed by a run of
// additions is paired positionally; the longer run's tail renders
// against an empty opposite cell. The returned pairs point into
// h.Lines so callers can recover a line's original index.
func alignHunk(h diff.Hunk) []alignedPair {
	var pairs []alignedPair
	i := 0
	for i < len(h.Lines) {
		switch h.Lines[i].Type {
		case diff.LineContext:
			pairs = append(pairs, alignedPair{Left: &h.Lines[i], Right: &h.Lines[i]})
			i++
		case diff.LineDeletion:
			dels := collectRun(h.Lines, i, diff.LineDeletion)
			adds := collectRun(h.Lines, i+len(dels), diff.LineAddition)
			pairs = append(pairs, pairRuns(dels, adds)...)
			i += len(dels) + len(adds)
		case diff.LineAddition:
			pairs = append(pairs, alignedPair{Right: &h.Lines[i]})
			i++
		default:
			i++
		}
	}
	return pairs
}

// collectRun returns pointers to the consecutive lines of type t
// starting at i.
func collectRun(lines []diff.Line, i int, t diff.LineType) []*diff.Line {
	var run []*diff.Line
	for ; i < len(lines) && lines[i].Type == t; i++ {
		run = append(run, &lines[i])
	}
	return run
}

// pairRuns zips a deletion run against an addition run.
func pairRuns(dels, adds []*diff.Line) []alignedPair {
	n := max(len(dels), len(adds))
	pairs := make([]alignedPair, 0, n)
	for i := 0; i < n; i++ {
		var p alignedPair
		if i < len(dels) {
			p.Left = dels[i]
		}
		if i < len(adds) {
			p.Right = adds[i]
		}
		pairs = append(pairs, p)
	}
	return pairs
}
