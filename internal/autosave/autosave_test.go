package autosave

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"
)

func testRows() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Date: "2025-01-05", Group: core.Income, Description: "Sale", Amount: 5000},
		{ID: 2, Date: "2025-01-20", Group: core.Expense, Description: "Rent", Amount: -1200},
		{ID: 3, Date: "2025-02-11", Group: core.Expense, Description: "", Amount: -500},
	}
}

func TestSnapshotAndRecover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.csv")
	b := New(path)

	b.Snapshot(testRows())
	if !b.Exists() {
		t.Fatalf("snapshot must create the recovery file")
	}

	got, err := b.Recover()
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	want := testRows()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d did not round trip: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestSnapshotEmptyDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.csv")
	b := New(path)

	b.Snapshot(testRows())
	b.Snapshot(nil)
	if b.Exists() {
		t.Fatalf("empty table must remove the stale recovery file")
	}

	// Deleting when no file exists must stay silent.
	b.Snapshot(nil)
}

func TestRecoverRejectsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.csv")
	if err := os.WriteFile(path, []byte("id,date,description\n1,2025-01-05,Sale\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := New(path).Recover(); err == nil {
		t.Fatalf("file without required columns must be rejected")
	}
}

func TestRecoverRejectsBadAmountAsWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.csv")
	data := "id,date,group,description,amount\n" +
		"1,2025-01-05,Income,Sale,5000\n" +
		"2,2025-01-20,Expense,Rent,not-a-number\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rows, err := New(path).Recover()
	if err == nil {
		t.Fatalf("malformed file must be rejected as a whole, got %d rows", len(rows))
	}
}

func TestRecoverMissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "absent.csv"))
	if b.Exists() {
		t.Fatalf("missing file must not report as existing")
	}
	if _, err := b.Recover(); err == nil {
		t.Fatalf("recover of a missing file must error")
	}
}
