package graph

// Row is one positioned commit: the commit itself, the column it renders
// in, and the palette index for its node glyph.
type Row struct {
	Commit     Commit
	Column     int
	ColorIndex int
}

// Edge connects a commit to one of its parents. FromColumn is the child's
// column, ToColumn the parent's. Same-column edges render as a straight
// vertical segment; differing columns as a curve. ColorIndex continues the
// lineage the edge visually extends.
type Edge struct {
	FromHash   string
	ToHash     string
	FromColumn int
	ToColumn   int
	ColorIndex int
}

// Layout is the accumulated result of one or more Extend calls. Rows and
// Edges are append-only: extending the engine never alters entries already
// present.
type Layout struct {
	Rows      []Row
	Edges     []Edge
	MaxColumn int // Highest assigned column + 1; sizes the render gutter
}

// Engine folds batches of commits into a Layout. All assignment state
// (column of each hash, active column slots, color registry) lives on the
// engine and threads across Extend calls, so processing a sequence in any
// append-only partition yields bit-identical rows, edges, and colors.
//
// Input order is assumed reverse-chronological with parents after
// children. A parent referenced but never delivered in the window is fine:
// its edge simply points at a column with no row, and the renderer lets it
// run off the bottom.
type Engine struct {
	columnOf map[string]int // hash -> assigned column
	active   []string       // column -> occupying hash, "" when free
	colors   *ColorRegistry

	rows      []Row
	edges     []Edge
	maxColumn int
}

// NewEngine creates an engine with a fresh color registry.
func NewEngine(paletteSize int) *Engine {
	return &Engine{
		columnOf: make(map[string]int),
		colors:   NewColorRegistry(paletteSize),
	}
}

// Colors exposes the engine's registry so the UI can color branch labels
// consistently with graph rows.
func (e *Engine) Colors() *ColorRegistry {
	return e.colors
}

// Extend folds newCommits into the layout and returns the full accumulated
// result. Callers must serialize Extend calls and feed batches in fetch
// order; duplicate or out-of-order batches are a caller error.
func (e *Engine) Extend(newCommits []Commit) Layout {
	for _, c := range newCommits {
		e.place(c)
	}
	return e.Snapshot()
}

// Snapshot returns the current accumulated layout without extending it.
func (e *Engine) Snapshot() Layout {
	return Layout{
		Rows:      e.rows,
		Edges:     e.edges,
		MaxColumn: e.maxColumn,
	}
}

// place runs the single-commit step of the forward pass.
func (e *Engine) place(c Commit) {
	col, ok := e.columnOf[c.Hash]
	if !ok {
		col = e.claimColumn(c.Hash)
	}

	// Assign parents their columns and emit edges. The primary parent
	// continues the child's column so unbroken lineages render as a
	// straight line.
	continued := false
	for i, p := range c.Parents {
		pcol, seen := e.columnOf[p]
		if !seen {
			if i == 0 {
				pcol = col
				e.columnOf[p] = pcol
				e.active[pcol] = p
			} else {
				pcol = e.claimColumn(p)
			}
		}
		if pcol == col {
			continued = true
		}
		e.edges = append(e.edges, Edge{
			FromHash:   c.Hash,
			ToHash:     p,
			FromColumn: col,
			ToColumn:   pcol,
			ColorIndex: e.edgeColor(c, col, pcol),
		})
	}

	// No parent carries this column forward (merge targets whose lineage
	// ends here, and root commits): release the slot for later commits.
	if !continued {
		e.active[col] = ""
	}

	e.rows = append(e.rows, Row{
		Commit:     c,
		Column:     col,
		ColorIndex: e.rowColor(c, col),
	})
}

// claimColumn gives hash the lowest-indexed free slot, appending a new one
// when every slot is occupied.
func (e *Engine) claimColumn(hash string) int {
	col := -1
	for i, occupant := range e.active {
		if occupant == "" {
			col = i
			break
		}
	}
	if col == -1 {
		col = len(e.active)
		e.active = append(e.active, "")
	}
	e.active[col] = hash
	e.columnOf[hash] = col
	if col+1 > e.maxColumn {
		e.maxColumn = col + 1
	}
	return col
}

// rowColor picks the branch color when the commit carries a branch ref,
// otherwise the column color.
func (e *Engine) rowColor(c Commit, col int) int {
	if ref, ok := c.BranchRef(); ok {
		return e.colors.Lookup(ref.Name)
	}
	return e.colors.ColumnColor(col)
}

// edgeColor continues the lineage the edge extends: the child's color for
// edges that stay in the child's column, the parent's column color for
// edges that branch away (the parent row is not placed yet, so its column
// is the only stable identity it has).
func (e *Engine) edgeColor(c Commit, fromCol, toCol int) int {
	if toCol == fromCol {
		return e.rowColor(c, fromCol)
	}
	return e.colors.ColumnColor(toCol)
}
