package fd

import (
	"testing"
)

func newTestStore(t *testing.T, domains ...Domain) (*Model, *Store) {
	t.Helper()
	model := NewModel()
	for _, d := range domains {
		model.NewVariable(d)
	}
	return model, NewStore(model)
}

func TestStoreQueries(t *testing.T) {
	_, st := newTestStore(t,
		NewBitSetDomainFromValues(9, []int{4}),
		NewBitSetDomainFromValues(9, []int{1, 2, 3}),
	)

	if !st.IsFixed(0) {
		t.Error("variable 0 should be fixed")
	}
	if st.Value(0) != 4 {
		t.Errorf("Value(0) = %d, want 4", st.Value(0))
	}
	if st.IsFixed(1) {
		t.Error("variable 1 should not be fixed")
	}
	if st.Size(1) != 3 {
		t.Errorf("Size(1) = %d, want 3", st.Size(1))
	}
	if !st.Contains(1, 2) || st.Contains(1, 4) {
		t.Error("Contains gave wrong membership for variable 1")
	}
}

func TestStoreRemove(t *testing.T) {
	_, st := newTestStore(t, NewBitSetDomainFromValues(5, []int{1, 2}))

	if !st.Remove(0, 1) {
		t.Fatal("removal leaving one value should not report exhaustion")
	}
	if st.Size(0) != 1 || !st.IsFixed(0) {
		t.Fatalf("expected singleton after removal, got %s", st.Domain(0))
	}

	// Removing an absent value is a no-op.
	rev := st.Revision()
	if !st.Remove(0, 1) {
		t.Error("no-op removal reported exhaustion")
	}
	if st.Revision() != rev {
		t.Error("no-op removal bumped the revision")
	}

	// Removing the last value empties the domain and reports it.
	if st.Remove(0, 2) {
		t.Error("removal emptying the domain should return false")
	}
	if st.Size(0) != 0 {
		t.Errorf("Size(0) = %d, want 0", st.Size(0))
	}
}

func TestStoreUndo(t *testing.T) {
	_, st := newTestStore(t, NewBitSetDomain(5), NewBitSetDomain(5))

	mark := st.Snapshot()
	st.Remove(0, 1)
	st.Remove(0, 2)
	st.SetDomain(1, NewBitSetDomainFromValues(5, []int{3}))

	if st.Size(0) != 3 || st.Size(1) != 1 {
		t.Fatal("mutations did not apply")
	}

	st.UndoTo(mark)
	if st.Size(0) != 5 {
		t.Errorf("variable 0 not restored: %s", st.Domain(0))
	}
	if st.Size(1) != 5 {
		t.Errorf("variable 1 not restored: %s", st.Domain(1))
	}
	if st.Snapshot() != mark {
		t.Error("trail not truncated to mark")
	}
}

func TestStoreNestedUndo(t *testing.T) {
	_, st := newTestStore(t, NewBitSetDomain(4))

	outer := st.Snapshot()
	st.Remove(0, 1)
	inner := st.Snapshot()
	st.Remove(0, 2)
	st.Remove(0, 3)

	st.UndoTo(inner)
	if st.Size(0) != 3 || st.Contains(0, 1) {
		t.Fatalf("inner undo wrong: %s", st.Domain(0))
	}

	st.UndoTo(outer)
	if st.Size(0) != 4 {
		t.Fatalf("outer undo wrong: %s", st.Domain(0))
	}
}

func TestStoreRevisionTracksChanges(t *testing.T) {
	_, st := newTestStore(t, NewBitSetDomain(5))

	rev := st.Revision()
	st.Remove(0, 3)
	if st.Revision() == rev {
		t.Error("effective removal should bump revision")
	}

	rev = st.Revision()
	st.SetDomain(0, st.Domain(0)) // equal domain: no-op
	if st.Revision() != rev {
		t.Error("no-op SetDomain should not bump revision")
	}
}

func TestStoreSolution(t *testing.T) {
	_, st := newTestStore(t,
		NewBitSetDomainFromValues(5, []int{2}),
		NewBitSetDomainFromValues(5, []int{5}),
	)

	if !st.Assigned() {
		t.Fatal("store should be fully assigned")
	}
	sol := st.Solution()
	if sol[0] != 2 || sol[1] != 5 {
		t.Errorf("Solution() = %v, want [2 5]", sol)
	}
}
