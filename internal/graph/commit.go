// Package graph computes screen layout for a commit DAG: a column per
// lineage, explicit child-to-parent edges, and stable per-branch colors.
package graph

import "time"

// RefType distinguishes the kinds of refs that can decorate a commit.
type RefType int

const (
	// RefTypeBranch is a local or remote branch head.
	RefTypeBranch RefType = iota
	// RefTypeTag is an annotated or lightweight tag.
	RefTypeTag
	// RefTypeHead is the symbolic HEAD ref.
	RefTypeHead
)

// Ref is a branch, tag, or HEAD label attached to a commit.
type Ref struct {
	Name   string
	Type   RefType
	IsHead bool // True when HEAD points at this ref
}

// Commit is one node of the history window. Values are immutable once
// created; layout only ever appends them, never mutates them.
type Commit struct {
	Hash      string    // Full 40-char SHA, unique identity
	ShortHash string    // Abbreviated hash for display
	Parents   []string  // Ordered parent hashes; index 0 is the primary lineage
	Refs      []Ref     // Decorations attached to this commit
	Subject   string    // First line of the commit message
	Body      string    // Remaining message lines, if loaded
	Author    string    // Author name
	Date      time.Time // Author date
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// BranchRef returns the first branch ref decorating the commit, if any.
// Branch refs drive stable coloring; tags do not.
func (c Commit) BranchRef() (Ref, bool) {
	for _, r := range c.Refs {
		if r.Type == RefTypeBranch {
			return r, true
		}
	}
	return Ref{}, false
}
