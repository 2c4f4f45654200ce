package ledger

import "github.com/dominosyicem-blip/nakitakisi/internal/core"

// UndoStackMax bounds the undo history. The oldest entry is evicted first
// when the stack overflows.
const UndoStackMax = 100

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

type (
	// Action tags what kind of mutation an UndoEntry reverses.
	Action string

	// UndoEntry is one reversible operation. An add records only the
	// assigned id; a delete records full row snapshots so they can be
	// reinserted.
	UndoEntry struct {
		Action Action
		ID     int64
		Rows   []core.Transaction
	}

	// UndoLog is a bounded stack of reversible operations. It is owned by
	// the ledger session and cleared entirely on bulk replaces.
	UndoLog struct {
		entries []UndoEntry
	}
)

func NewUndoLog() *UndoLog {
	return &UndoLog{}
}

// Push appends an entry, evicting the oldest one past UndoStackMax.
func (u *UndoLog) Push(e UndoEntry) {
	u.entries = append(u.entries, e)
	if len(u.entries) > UndoStackMax {
		u.entries = u.entries[1:]
	}
}

// Pop removes and returns the most recent entry.
func (u *UndoLog) Pop() (UndoEntry, bool) {
	if len(u.entries) == 0 {
		return UndoEntry{}, false
	}
	e := u.entries[len(u.entries)-1]
	u.entries = u.entries[:len(u.entries)-1]
	return e, true
}

func (u *UndoLog) Len() int {
	return len(u.entries)
}

// Clear drops the whole history. Bulk replaces are not undoable.
func (u *UndoLog) Clear() {
	u.entries = u.entries[:0]
}
