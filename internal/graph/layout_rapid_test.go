package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// genHistory draws a random history in valid emitted order: every parent
// reference points at a commit later in the slice (or, occasionally, at a
// hash outside the window to exercise dangling edges).
func genHistory(t *rapid.T) []Commit {
	n := rapid.IntRange(1, 60).Draw(t, "n")
	commits := make([]Commit, n)
	for i := range n {
		c := Commit{Hash: fmt.Sprintf("c%d", i)}

		maxParents := 3
		if i == n-1 {
			maxParents = 0 // oldest commit in the window is a root
		}
		numParents := rapid.IntRange(0, maxParents).Draw(t, fmt.Sprintf("parents%d", i))
		seen := map[int]bool{}
		for p := 0; p < numParents; p++ {
			if rapid.IntRange(0, 19).Draw(t, fmt.Sprintf("dangle%d_%d", i, p)) == 0 {
				c.Parents = append(c.Parents, fmt.Sprintf("offwindow%d_%d", i, p))
				continue
			}
			idx := rapid.IntRange(i+1, n-1).Draw(t, fmt.Sprintf("pidx%d_%d", i, p))
			if seen[idx] {
				continue
			}
			seen[idx] = true
			c.Parents = append(c.Parents, fmt.Sprintf("c%d", idx))
		}

		if rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("ref%d", i)) == 0 {
			c.Refs = []Ref{{
				Name: rapid.SampledFrom([]string{"main", "develop", "feature/a", "feature/b", "hotfix"}).Draw(t, fmt.Sprintf("refname%d", i)),
				Type: RefTypeBranch,
			}}
		}
		commits[i] = c
	}
	return commits
}

// TestEngine_FoldEquivalence verifies the paginator property: extending
// over any append-only partition of a sequence is identical to one layout
// pass over the whole sequence.
func TestEngine_FoldEquivalence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		commits := genHistory(rt)

		full := NewEngine(DefaultPaletteSize).Extend(commits)

		paged := NewEngine(DefaultPaletteSize)
		var got Layout
		for i := 0; i < len(commits); {
			size := rapid.IntRange(1, len(commits)-i).Draw(rt, "batch")
			got = paged.Extend(commits[i : i+size])
			i += size
		}

		require.Equal(rt, full.Rows, got.Rows)
		require.Equal(rt, full.Edges, got.Edges)
		require.Equal(rt, full.MaxColumn, got.MaxColumn)
	})
}

// TestEngine_ColumnInvariants checks that at every step a column holds at
// most one live lineage: a commit is never placed on a column that a
// prior, still-active lineage occupies, and every commit's column is
// within MaxColumn.
func TestEngine_ColumnInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		commits := genHistory(rt)
		layout := NewEngine(DefaultPaletteSize).Extend(commits)

		require.Len(rt, layout.Rows, len(commits))

		// Replay the freeing discipline: walking rows in order, a column
		// may only be occupied by the hash the engine assigned it.
		occupied := map[int]string{}
		parentsOf := map[string][]string{}
		colOf := map[string]int{}
		for _, r := range layout.Rows {
			parentsOf[r.Commit.Hash] = r.Commit.Parents
			colOf[r.Commit.Hash] = r.Column
		}

		for _, r := range layout.Rows {
			require.Less(rt, r.Column, layout.MaxColumn)

			if holder, ok := occupied[r.Column]; ok {
				require.Equal(rt, holder, r.Commit.Hash,
					"column %d reused while lineage %s still active", r.Column, holder)
			}

			// The column passes to the primary parent when that parent
			// landed on the same column, otherwise it frees.
			continued := false
			for _, p := range r.Commit.Parents {
				if pc, ok := colOf[p]; ok && pc == r.Column {
					occupied[r.Column] = p
					continued = true
					break
				}
			}
			if !continued {
				delete(occupied, r.Column)
			}
		}
	})
}

// TestEngine_EdgeEndpointsConsistent checks that every edge's endpoints
// agree with the columns its commits were assigned.
func TestEngine_EdgeEndpointsConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		commits := genHistory(rt)
		layout := NewEngine(DefaultPaletteSize).Extend(commits)

		colOf := map[string]int{}
		for _, r := range layout.Rows {
			colOf[r.Commit.Hash] = r.Column
		}

		for _, e := range layout.Edges {
			require.Equal(rt, colOf[e.FromHash], e.FromColumn)
			if pc, ok := colOf[e.ToHash]; ok {
				require.Equal(rt, pc, e.ToColumn)
			}
		}
	})
}
