package graph

import "hash/fnv"

// DefaultPaletteSize matches the number of branch colors defined in the UI
// styles palette.
const DefaultPaletteSize = 8

// ColorRegistry assigns a stable palette index per branch name. An index is
// derived from a hash of the name the first time the name is observed and
// then pinned in a map, so later hash collisions or re-layouts can never
// change an assignment within a session.
type ColorRegistry struct {
	paletteSize int
	byName      map[string]int
}

// NewColorRegistry creates a registry for a palette of the given size.
// Sizes below 1 fall back to DefaultPaletteSize.
func NewColorRegistry(paletteSize int) *ColorRegistry {
	if paletteSize < 1 {
		paletteSize = DefaultPaletteSize
	}
	return &ColorRegistry{
		paletteSize: paletteSize,
		byName:      make(map[string]int),
	}
}

// Lookup returns the palette index for a branch name, assigning one on
// first observation.
func (r *ColorRegistry) Lookup(name string) int {
	if idx, ok := r.byName[name]; ok {
		return idx
	}
	idx := int(hashName(name) % uint32(r.paletteSize)) //nolint:gosec // G115: palette size is small and positive
	r.byName[name] = idx
	return idx
}

// ColumnColor returns the palette index for a commit without branch refs.
func (r *ColorRegistry) ColumnColor(column int) int {
	if column < 0 {
		column = 0
	}
	return column % r.paletteSize
}

// PaletteSize returns the size the registry was created with.
func (r *ColorRegistry) PaletteSize() int {
	return r.paletteSize
}

// Reset clears all assignments. Call when switching repositories; never
// during a session, or colors would jump under the user.
func (r *ColorRegistry) Reset() {
	r.byName = make(map[string]int)
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}
