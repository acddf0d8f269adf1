package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "empty", line: "", want: nil},
		{name: "single word", line: "foo", want: []string{"foo"}},
		{name: "words and spaces", line: "const x = 1;", want: []string{"const", " ", "x", " ", "=", " ", "1;"}},
		{name: "leading indent preserved", line: "\tif err != nil {", want: []string{"\t", "if", " ", "err", " ", "!=", " ", "nil", " ", "{"}},
		{name: "whitespace run is one token", line: "a   b", want: []string{"a", "   ", "b"}},
		{name: "trailing space", line: "end ", want: []string{"end", " "}},
		{name: "only whitespace", line: "  \t ", want: []string{"  \t "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizeLine(tt.line)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.line, strings.Join(got, ""))
		})
	}
}

func TestWordDiff_SingleTokenChange(t *testing.T) {
	result := WordDiff("const x = 1;", "const x = 2;")

	require.Len(t, result.Old, 7)
	require.Len(t, result.New, 7)
	for i := 0; i < 6; i++ {
		require.False(t, result.Old[i].Removed, "token %d", i)
		require.False(t, result.New[i].Added, "token %d", i)
	}
	require.Equal(t, WordChange{Value: "1;", Removed: true}, result.Old[6])
	require.Equal(t, WordChange{Value: "2;", Added: true}, result.New[6])
}

func TestWordDiff_LengthMismatch(t *testing.T) {
	// New line is longer: the surplus tokens are all additions.
	result := WordDiff("return x", "return x + 1")
	require.Equal(t, "return x", joinSide(result.Old))
	require.Equal(t, "return x + 1", joinSide(result.New))
	for _, c := range result.Old {
		require.False(t, c.Removed)
	}
	require.True(t, result.New[len(result.New)-1].Added)
}

func TestWordDiff_GreedyShiftsOnInsertion(t *testing.T) {
	// The positional walk does not realign after an insertion; everything
	// past it is flagged on both sides. That behavior is the contract.
	result := WordDiff("a b c", "a x b c")
	require.True(t, result.Old[2].Removed)  // "b" vs "x"
	require.True(t, result.New[2].Added)
	require.True(t, result.Old[4].Removed)  // "c" vs "b"
}

func TestWordDiff_EmptySides(t *testing.T) {
	result := WordDiff("", "added")
	require.Empty(t, result.Old)
	require.Equal(t, []WordChange{{Value: "added", Added: true}}, result.New)

	result = WordDiff("removed", "")
	require.Empty(t, result.New)
	require.Equal(t, []WordChange{{Value: "removed", Removed: true}}, result.Old)
}

func TestWordDiff_IdenticalLines(t *testing.T) {
	result := WordDiff("same line", "same line")
	for _, c := range result.Old {
		require.False(t, c.Removed)
	}
	for _, c := range result.New {
		require.False(t, c.Added)
	}
}

func TestWordDiff_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		oldLine := rapid.StringMatching(`[ -~\t]{0,60}`).Draw(t, "old")
		newLine := rapid.StringMatching(`[ -~\t]{0,60}`).Draw(t, "new")

		result := WordDiff(oldLine, newLine)
		if joinSide(result.Old) != oldLine {
			t.Fatalf("old side lost content: %q -> %q", oldLine, joinSide(result.Old))
		}
		if joinSide(result.New) != newLine {
			t.Fatalf("new side lost content: %q -> %q", newLine, joinSide(result.New))
		}
		for _, c := range result.Old {
			if c.Added {
				t.Fatalf("old side carries an Added token: %+v", c)
			}
		}
		for _, c := range result.New {
			if c.Removed {
				t.Fatalf("new side carries a Removed token: %+v", c)
			}
		}
	})
}

func TestSemanticWordDiff_RealignsOnInsertion(t *testing.T) {
	result := SemanticWordDiff("a b c", "a x b c")
	// Unlike the greedy walk, the tail stays unflagged.
	require.Equal(t, "a b c", joinSide(result.Old))
	require.Equal(t, "a x b c", joinSide(result.New))
	for _, c := range result.Old {
		require.False(t, c.Removed, "no deletions expected: %+v", c)
	}
}

func TestSemanticWordDiff_EmptySides(t *testing.T) {
	require.Equal(t, WordDiffResult{}, SemanticWordDiff("", ""))

	result := SemanticWordDiff("", "new")
	require.Equal(t, []WordChange{{Value: "new", Added: true}}, result.New)
	require.Empty(t, result.Old)

	result = SemanticWordDiff("old", "")
	require.Equal(t, []WordChange{{Value: "old", Removed: true}}, result.Old)
	require.Empty(t, result.New)
}

func TestFindLinePairs(t *testing.T) {
	hunk := func(types ...LineType) Hunk {
		h := Hunk{}
		for _, ty := range types {
			h.Lines = append(h.Lines, Line{Type: ty})
		}
		return h
	}

	tests := []struct {
		name  string
		hunk  Hunk
		pairs []linePair
	}{
		{
			name:  "adjacent del add",
			hunk:  hunk(LineHunkHeader, LineDeletion, LineAddition),
			pairs: []linePair{{deletedIdx: 1, addedIdx: 2}},
		},
		{
			name: "context between breaks the pair",
			hunk: hunk(LineHunkHeader, LineDeletion, LineContext, LineAddition),
		},
		{
			name: "isolated deletion",
			hunk: hunk(LineHunkHeader, LineContext, LineDeletion, LineContext),
		},
		{
			name: "isolated addition",
			hunk: hunk(LineHunkHeader, LineAddition, LineContext),
		},
		{
			name:  "each addition consumed once",
			hunk:  hunk(LineHunkHeader, LineDeletion, LineDeletion, LineAddition),
			pairs: []linePair{{deletedIdx: 2, addedIdx: 3}},
		},
		{
			name: "two independent pairs",
			hunk: hunk(LineHunkHeader, LineDeletion, LineAddition, LineContext, LineDeletion, LineAddition),
			pairs: []linePair{
				{deletedIdx: 1, addedIdx: 2},
				{deletedIdx: 4, addedIdx: 5},
			},
		},
		{
			name:  "del add del add runs pair in order",
			hunk:  hunk(LineHunkHeader, LineDeletion, LineAddition, LineDeletion, LineAddition),
			pairs: []linePair{{deletedIdx: 1, addedIdx: 2}, {deletedIdx: 3, addedIdx: 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.pairs, findLinePairs(tt.hunk))
		})
	}
}

func joinSide(changes []WordChange) string {
	var b strings.Builder
	for _, c := range changes {
		b.WriteString(c.Value)
	}
	return b.String()
}

func BenchmarkWordDiff(b *testing.B) {
	oldLine := "func (s *CLIService) ListCommits(ctx context.Context, maxCount, skip int) ([]graph.Commit, error) {"
	newLine := "func (s *CLIService) ListCommits(ctx context.Context, batch, offset int) ([]graph.Commit, []error) {"
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		WordDiff(oldLine, newLine)
	}
}

func BenchmarkSemanticWordDiff(b *testing.B) {
	oldLine := "func (s *CLIService) ListCommits(ctx context.Context, maxCount, skip int) ([]graph.Commit, error) {"
	newLine := "func (s *CLIService) ListCommits(ctx context.Context, batch, offset int) ([]graph.Commit, []error) {"
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		SemanticWordDiff(oldLine, newLine)
	}
}
