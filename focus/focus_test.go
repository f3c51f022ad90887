package focus

import "testing"

func TestResolve(t *testing.T) {
	s := NewStore()
	if _, ok := s.Resolve(8); ok {
		t.Fatal("empty store resolved")
	}

	s.Set(3)
	if i, ok := s.Resolve(8); !ok || i != 3 {
		t.Fatalf("Resolve = %d, %v", i, ok)
	}

	// catalog shrank under the selection
	if _, ok := s.Resolve(3); ok {
		t.Fatal("out-of-range index resolved")
	}
	// and comes back once it grows again
	if i, ok := s.Resolve(4); !ok || i != 3 {
		t.Fatalf("Resolve(4) = %d, %v", i, ok)
	}

	s.Set(-1)
	if _, ok := s.Resolve(8); ok {
		t.Fatal("negative index resolved")
	}

	s.Set(2)
	s.Clear()
	if _, ok := s.Resolve(8); ok {
		t.Fatal("cleared store still set")
	}
}
