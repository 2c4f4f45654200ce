package ledger

import "testing"

func TestUndoLogPushPop(t *testing.T) {
	u := NewUndoLog()
	if _, ok := u.Pop(); ok {
		t.Fatalf("empty log must not pop")
	}

	u.Push(UndoEntry{Action: ActionAdd, ID: 1})
	u.Push(UndoEntry{Action: ActionAdd, ID: 2})
	if u.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", u.Len())
	}

	e, ok := u.Pop()
	if !ok || e.ID != 2 {
		t.Fatalf("expected most recent entry back, got %+v", e)
	}
	if u.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", u.Len())
	}
}

func TestUndoLogEvictsOldestPastCap(t *testing.T) {
	u := NewUndoLog()
	for i := 1; i <= UndoStackMax+1; i++ {
		u.Push(UndoEntry{Action: ActionAdd, ID: int64(i)})
	}
	if u.Len() != UndoStackMax {
		t.Fatalf("expected exactly %d entries, got %d", UndoStackMax, u.Len())
	}

	// Drain: the very first entry (id 1) must be gone.
	var last UndoEntry
	for {
		e, ok := u.Pop()
		if !ok {
			break
		}
		last = e
	}
	if last.ID != 2 {
		t.Fatalf("oldest surviving entry expected id 2, got %d", last.ID)
	}
}

func TestUndoLogClear(t *testing.T) {
	u := NewUndoLog()
	u.Push(UndoEntry{Action: ActionAdd, ID: 1})
	u.Clear()
	if u.Len() != 0 {
		t.Fatalf("expected empty log after clear, got %d", u.Len())
	}
}
