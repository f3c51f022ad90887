// Package focus holds the index of the body under inspection on project
// detail views. The scene host is the only writer; the assembler and the
// camera controller read it through Reader.
package focus

// Reader exposes the current selection without allowing writes.
type Reader interface {
	// Resolve returns the selected index when one is set and lies in [0, n).
	Resolve(n int) (int, bool)
}

// Store is the single owned copy of the focus selection.
type Store struct {
	index int
	set   bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(index int) {
	s.index = index
	s.set = true
}

func (s *Store) Clear() {
	s.index = 0
	s.set = false
}

// Resolve treats an index outside the catalog as no selection.
func (s *Store) Resolve(n int) (int, bool) {
	if !s.set || s.index < 0 || s.index >= n {
		return -1, false
	}
	return s.index, true
}
