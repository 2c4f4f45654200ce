package ledger

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"
	"github.com/dominosyicem-blip/nakitakisi/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *storage.SQLiteStore) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	led := New(store, NewUndoLog(), nil)
	if err := led.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return led, store
}

func mustAdd(t *testing.T, led *Ledger, date string, group core.Group, desc string, magnitude float64) int64 {
	t.Helper()
	id, err := led.Add(context.Background(), date, group, desc, magnitude)
	if err != nil {
		t.Fatalf("add %s %q: %v", group, desc, err)
	}
	return id
}

func TestAddAppliesGroupSign(t *testing.T) {
	led, _ := newTestLedger(t)

	cases := []struct {
		group core.Group
		want  float64
	}{
		{core.Income, 100},
		{core.Asset, 100},
		{core.Expense, -100},
		{core.Liability, -100},
	}
	for _, tc := range cases {
		id := mustAdd(t, led, "2025-01-01", tc.group, "x", 100)
		for _, row := range led.Rows() {
			if row.ID == id && row.Amount != tc.want {
				t.Fatalf("%s expected stored amount %v, got %v", tc.group, tc.want, row.Amount)
			}
		}
	}
}

func TestTotalsScenario(t *testing.T) {
	led, _ := newTestLedger(t)

	mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	tot := led.Totals()
	if tot.Income != 5000.0 {
		t.Fatalf("expected income 5000, got %v", tot.Income)
	}
	if tot.NetCash != 5000.0 {
		t.Fatalf("expected net cash 5000, got %v", tot.NetCash)
	}

	mustAdd(t, led, "2025-01-20", core.Expense, "Rent", 1200)
	mustAdd(t, led, "2025-03-01", core.Asset, "Building", 25000)
	mustAdd(t, led, "2025-03-15", core.Liability, "Loan", 10000)

	tot = led.Totals()
	if tot.Expense != -1200 {
		t.Fatalf("expected expense -1200, got %v", tot.Expense)
	}
	if tot.NetCash != 3800 {
		t.Fatalf("expected net cash 3800, got %v", tot.NetCash)
	}
	if tot.NetWorth != 15000 {
		t.Fatalf("expected net worth 15000, got %v", tot.NetWorth)
	}
}

func TestEmptyLedger(t *testing.T) {
	led, _ := newTestLedger(t)

	tot := led.Totals()
	if tot != (Totals{}) {
		t.Fatalf("empty ledger must yield all-zero totals, got %+v", tot)
	}
	if items := led.ExpenseBreakdown(); len(items) != 0 {
		t.Fatalf("empty ledger must yield empty breakdown, got %v", items)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	led, _ := newTestLedger(t)

	mustAdd(t, led, "2025-01-20", core.Expense, "Rent", 1200)
	mustAdd(t, led, "2025-02-10", core.Expense, "Supplies", 1800)
	mustAdd(t, led, "2025-02-11", core.Expense, "", 500)
	mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000) // ignored

	items := led.ExpenseBreakdown()
	if len(items) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(items))
	}
	if items[0].Description != "Supplies" || items[0].Amount != 1800 {
		t.Fatalf("expected Supplies 1800 first, got %+v", items[0])
	}
	if items[1].Description != "Rent" || items[1].Amount != 1200 {
		t.Fatalf("expected Rent 1200 second, got %+v", items[1])
	}
	if items[2].Description != "Other" || items[2].Amount != 500 {
		t.Fatalf("empty description must group under Other, got %+v", items[2])
	}

	wantPct := 1800.0 / 3500.0 * 100
	if math.Abs(items[0].Percent-wantPct) > 1e-9 {
		t.Fatalf("expected %v%%, got %v%%", wantPct, items[0].Percent)
	}
}

func TestPercentOf(t *testing.T) {
	led, _ := newTestLedger(t)

	id := mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	mustAdd(t, led, "2025-02-15", core.Income, "Service", 3000)
	aID := mustAdd(t, led, "2025-03-01", core.Asset, "Building", 25000)
	mustAdd(t, led, "2025-03-15", core.Liability, "Loan", 10000)

	var sale, building core.Transaction
	for _, row := range led.Rows() {
		switch row.ID {
		case id:
			sale = row
		case aID:
			building = row
		}
	}

	if got := led.PercentOf(sale); math.Abs(got-62.5) > 1e-9 {
		t.Fatalf("income row expected 62.5%%, got %v", got)
	}
	// Asset and Liability normalize against their combined absolute total.
	want := 25000.0 / 35000.0 * 100
	if got := led.PercentOf(building); math.Abs(got-want) > 1e-9 {
		t.Fatalf("asset row expected %v%%, got %v", want, got)
	}
}

func TestDeleteNonexistentIsNoOp(t *testing.T) {
	led, _ := newTestLedger(t)
	mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)

	undoLenBefore := led.undo.Len()
	n, err := led.Delete(context.Background(), []int64{9999})
	if err != nil {
		t.Fatalf("delete of nonexistent id must not error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 deletions, got %d", n)
	}
	if led.undo.Len() != undoLenBefore {
		t.Fatalf("undo log must be unchanged")
	}
	if len(led.Rows()) != 1 {
		t.Fatalf("table must be unchanged")
	}
}

func TestAddThenUndoRestoresExactState(t *testing.T) {
	led, store := newTestLedger(t)
	ctx := context.Background()

	keep := mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	before := led.Rows()

	mustAdd(t, led, "2025-01-20", core.Expense, "Rent", 1200)

	res, err := led.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Action != ActionAdd {
		t.Fatalf("expected add undone, got %v", res.Action)
	}

	after := led.Rows()
	if len(after) != len(before) || after[0].ID != keep {
		t.Fatalf("in-memory table not restored: %+v", after)
	}

	stored, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != keep {
		t.Fatalf("store not restored: %+v", stored)
	}
}

func TestDeleteThenUndoRestoresRows(t *testing.T) {
	led, store := newTestLedger(t)
	ctx := context.Background()

	id1 := mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	id2 := mustAdd(t, led, "2025-01-20", core.Expense, "Rent", 1200)
	mustAdd(t, led, "2025-02-10", core.Expense, "Supplies", 1800)
	before := led.Rows()

	n, err := led.Delete(ctx, []int64{id1, id2})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deletions, got %d", n)
	}
	if len(led.Rows()) != 1 {
		t.Fatalf("expected 1 row left, got %d", len(led.Rows()))
	}

	res, err := led.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Action != ActionDelete || res.Restored != 2 {
		t.Fatalf("expected 2 rows restored, got %+v", res)
	}

	rows := led.Rows()
	if len(rows) != len(before) {
		t.Fatalf("expected %d rows after undo, got %d", len(before), len(rows))
	}
	// Every field except possibly the id must match the pre-delete snapshot.
	for _, want := range before {
		found := false
		for _, got := range rows {
			if got.Date == want.Date && got.Group == want.Group &&
				got.Description == want.Description && got.Amount == want.Amount {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("pre-delete row %+v not restored; have %+v", want, rows)
		}
	}

	stored, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("store expected 3 rows, got %d", len(stored))
	}
}

func TestDeleteWithDuplicateIDs(t *testing.T) {
	led, store := newTestLedger(t)
	ctx := context.Background()

	id := mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	mustAdd(t, led, "2025-01-20", core.Expense, "Rent", 1200)

	// ids form a set: naming the same id twice removes one row once.
	n, err := led.Delete(ctx, []int64{id, id})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deletion, got %d", n)
	}

	res, err := led.Undo(ctx)
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Restored != 1 {
		t.Fatalf("expected 1 row restored, got %d", res.Restored)
	}

	rows := led.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after undo, got %d", len(rows))
	}
	stored, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("store expected 2 rows after undo, got %d", len(stored))
	}
	seen := 0
	for _, row := range stored {
		if row.Description == "Sale" {
			seen++
			if row.ID != id {
				t.Fatalf("id was free, so it must be preserved: got %d want %d", row.ID, id)
			}
		}
	}
	if seen != 1 {
		t.Fatalf("expected exactly one Sale row after undo, got %d", seen)
	}
}

func TestUndoOnEmptyStack(t *testing.T) {
	led, _ := newTestLedger(t)
	if _, err := led.Undo(context.Background()); err != core.ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndoIsNotItselfUndoable(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	mustAdd(t, led, "2025-01-05", core.Income, "Sale", 5000)
	if _, err := led.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := led.Undo(ctx); err != core.ErrNothingToUndo {
		t.Fatalf("undo of an undo must be unavailable, got %v", err)
	}
}

func TestLoadSampleClearsUndoLog(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	mustAdd(t, led, "2025-01-01", core.Income, "x", 1)
	if err := led.LoadSample(ctx); err != nil {
		t.Fatalf("load sample: %v", err)
	}

	rows := led.Rows()
	if len(rows) != len(SampleRows) {
		t.Fatalf("expected %d sample rows, got %d", len(SampleRows), len(rows))
	}
	for _, row := range rows {
		if (row.Group == core.Expense || row.Group == core.Liability) && row.Amount >= 0 {
			t.Fatalf("sample %s row must be stored negative: %+v", row.Group, row)
		}
	}
	if _, err := led.Undo(ctx); err != core.ErrNothingToUndo {
		t.Fatalf("bulk replace must clear the undo log, got %v", err)
	}
}
