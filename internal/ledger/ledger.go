// Package ledger keeps the in-memory transaction table mirroring the store
// and owns the sorting, aggregation and undo rules.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"
)

const (
	ColDate        Column = "date"
	ColGroup       Column = "group"
	ColDescription Column = "description"
	ColAmount      Column = "amount"
	ColPercent     Column = "percent"
)

type (
	// Column names a sortable view column.
	Column string

	// Store is the durable backend the ledger mirrors.
	Store interface {
		Insert(ctx context.Context, date string, group core.Group, description string, amount float64) (int64, error)
		GetAll(ctx context.Context) ([]core.Transaction, error)
		DeleteIDs(ctx context.Context, ids []int64) error
		ClearAll(ctx context.Context) error
		ReinsertWithID(ctx context.Context, t core.Transaction) (int64, error)
	}

	// Snapshotter receives the full table after every mutation. Implemented
	// by the autosave bridge; failures must never surface here.
	Snapshotter interface {
		Snapshot(rows []core.Transaction)
	}

	// Totals are the group sums over the current table. Expense and
	// Liability totals are negative, so net values are plain sums.
	Totals struct {
		Income    float64
		Expense   float64
		Asset     float64
		Liability float64
		NetCash   float64
		NetWorth  float64
	}

	// BreakdownItem is one expense bucket: absolute summed amount and its
	// share of the total expense.
	BreakdownItem struct {
		Description string
		Amount      float64
		Percent     float64
	}

	// UndoResult reports what an undo reversed.
	UndoResult struct {
		Action   Action
		ID       int64 // id removed when an add was undone
		Restored int   // rows reinstated when a delete was undone
	}

	// Ledger is the sole owner of the in-memory table. It is not safe for
	// concurrent use; the session drives it from a single goroutine.
	Ledger struct {
		store    Store
		undo     *UndoLog
		snap     Snapshotter
		rows     []core.Transaction
		sortCol  Column
		sortAsc  bool
	}
)

// New builds a ledger over the given store. The undo log is passed in by
// the session that owns it; snap may be nil to disable autosave.
func New(store Store, undo *UndoLog, snap Snapshotter) *Ledger {
	return &Ledger{store: store, undo: undo, snap: snap}
}

// Load replaces the in-memory table with the full store contents and
// resets any cached sort key.
func (l *Ledger) Load(ctx context.Context) error {
	rows, err := l.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	l.rows = rows
	l.sortCol = ""
	l.sortAsc = true
	return nil
}

// reload refreshes the table from the store without touching the sort key.
// Used after undo-of-delete, where ids may have changed.
func (l *Ledger) reload(ctx context.Context) error {
	rows, err := l.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}
	l.rows = rows
	return nil
}

// Rows returns a copy of the current table in its visible order.
func (l *Ledger) Rows() []core.Transaction {
	out := make([]core.Transaction, len(l.rows))
	copy(out, l.rows)
	return out
}

// Add inserts one transaction. The magnitude is signed per the group rule,
// the row is mirrored in memory, an undo entry is pushed and the active
// sort is re-applied.
func (l *Ledger) Add(ctx context.Context, date string, group core.Group, description string, magnitude float64) (int64, error) {
	date = core.NormalizeDate(date)
	amount := core.SignedAmount(group, magnitude)

	id, err := l.store.Insert(ctx, date, group, description, amount)
	if err != nil {
		return 0, err
	}

	l.rows = append(l.rows, core.Transaction{
		ID:          id,
		Date:        date,
		Group:       group,
		Description: description,
		Amount:      amount,
	})
	l.undo.Push(UndoEntry{Action: ActionAdd, ID: id})
	l.applySort()
	l.snapshot()

	slog.InfoContext(ctx, "Transaction added",
		"id", id, "group", group, "description", description, "amount", amount)
	return id, nil
}

// Delete removes the given rows from store and memory, capturing snapshots
// for undo. Ids not present in the table are ignored; if nothing matched,
// the call is a no-op and no undo entry is pushed. Returns the number of
// rows removed.
func (l *Ledger) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// ids is a set: duplicates collapse so a row is captured once and the
	// count reflects rows actually removed.
	drop := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !drop[id] {
			drop[id] = true
			unique = append(unique, id)
		}
	}

	var captured []core.Transaction
	for _, t := range l.rows {
		if drop[t.ID] {
			captured = append(captured, t)
		}
	}
	if len(captured) == 0 {
		return 0, nil
	}

	if err := l.store.DeleteIDs(ctx, unique); err != nil {
		return 0, err
	}

	kept := l.rows[:0]
	for _, t := range l.rows {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	l.rows = kept

	l.undo.Push(UndoEntry{Action: ActionDelete, Rows: captured})
	l.applySort()
	l.snapshot()

	slog.InfoContext(ctx, "Transactions deleted", "count", len(captured))
	return len(captured), nil
}

// Undo reverses the most recent add or delete. Undo is not itself undoable.
func (l *Ledger) Undo(ctx context.Context) (UndoResult, error) {
	entry, ok := l.undo.Pop()
	if !ok {
		return UndoResult{}, core.ErrNothingToUndo
	}

	switch entry.Action {
	case ActionAdd:
		// Deleting an id that is already gone is a successful no-op.
		if err := l.store.DeleteIDs(ctx, []int64{entry.ID}); err != nil {
			return UndoResult{}, err
		}
		kept := l.rows[:0]
		for _, t := range l.rows {
			if t.ID != entry.ID {
				kept = append(kept, t)
			}
		}
		l.rows = kept
		l.applySort()
		l.snapshot()
		slog.InfoContext(ctx, "Add undone", "id", entry.ID)
		return UndoResult{Action: ActionAdd, ID: entry.ID}, nil

	case ActionDelete:
		// Row-by-row best effort: one failed reinsertion must not abort
		// the rest.
		restored := 0
		for _, t := range entry.Rows {
			if _, err := l.store.ReinsertWithID(ctx, t); err != nil {
				slog.WarnContext(ctx, "Undo reinsertion failed", "id", t.ID, "error", err)
				continue
			}
			restored++
		}
		if err := l.reload(ctx); err != nil {
			return UndoResult{}, err
		}
		l.applySort()
		l.snapshot()
		slog.InfoContext(ctx, "Delete undone", "restored", restored)
		return UndoResult{Action: ActionDelete, Restored: restored}, nil

	default:
		return UndoResult{}, fmt.Errorf("%w: unrecognized entry %q", core.ErrNothingToUndo, entry.Action)
	}
}

// SampleRows is the bulk-loadable demo data set.
var SampleRows = []core.Transaction{
	{Date: "2025-01-05", Group: core.Income, Description: "Sale", Amount: 5000},
	{Date: "2025-01-20", Group: core.Expense, Description: "Rent", Amount: 1200},
	{Date: "2025-02-10", Group: core.Expense, Description: "Supplies", Amount: 1800},
	{Date: "2025-02-15", Group: core.Income, Description: "Service", Amount: 3000},
	{Date: "2025-03-01", Group: core.Asset, Description: "Building", Amount: 25000},
	{Date: "2025-03-15", Group: core.Liability, Description: "Loan", Amount: 10000},
}

// LoadSample replaces the whole store with the demo data set. The undo log
// is cleared: a bulk replace is not reversible.
func (l *Ledger) LoadSample(ctx context.Context) error {
	if err := l.store.ClearAll(ctx); err != nil {
		return err
	}
	for _, r := range SampleRows {
		amount := core.SignedAmount(r.Group, r.Amount)
		if _, err := l.store.Insert(ctx, r.Date, r.Group, r.Description, amount); err != nil {
			return err
		}
	}
	if err := l.reload(ctx); err != nil {
		return err
	}
	l.undo.Clear()
	l.applySort()
	l.snapshot()
	slog.InfoContext(ctx, "Sample data loaded", "rows", len(SampleRows))
	return nil
}

// SortBy applies view-toggle semantics: re-selecting the active column
// flips the direction, any other column starts ascending.
func (l *Ledger) SortBy(col Column) {
	asc := true
	if l.sortCol == col {
		asc = !l.sortAsc
	}
	l.Sort(col, asc)
}

// Sort sets the active sort key to an explicit (column, direction) pair and
// applies it. Re-applying the same pair never reorders rows further: the
// sort is stable and ties keep their relative order.
func (l *Ledger) Sort(col Column, ascending bool) {
	l.sortCol = col
	l.sortAsc = ascending
	l.applySort()
}

// SortKey returns the active (column, direction) pair; column is empty when
// no sort has been applied since the last full load.
func (l *Ledger) SortKey() (Column, bool) {
	return l.sortCol, l.sortAsc
}

// applySort re-applies the stored sort key, if any. Mutations call this so
// the visible order survives adds, deletes and undos without flipping the
// direction.
func (l *Ledger) applySort() {
	if l.sortCol == "" {
		return
	}

	var less func(a, b core.Transaction) bool
	switch l.sortCol {
	case ColGroup:
		less = func(a, b core.Transaction) bool {
			return a.Group.SortPriority() < b.Group.SortPriority()
		}
	case ColAmount:
		less = func(a, b core.Transaction) bool { return a.Amount < b.Amount }
	case ColDate:
		less = func(a, b core.Transaction) bool {
			return core.ParseDateForSort(a.Date).Before(core.ParseDateForSort(b.Date))
		}
	case ColPercent:
		pct := l.percentFn()
		less = func(a, b core.Transaction) bool { return pct(a) < pct(b) }
	default:
		less = func(a, b core.Transaction) bool {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
	}

	asc := l.sortAsc
	sort.SliceStable(l.rows, func(i, j int) bool {
		if asc {
			return less(l.rows[i], l.rows[j])
		}
		return less(l.rows[j], l.rows[i])
	})
}

// Totals sums the signed amounts per group over the current table.
func (l *Ledger) Totals() Totals {
	var t Totals
	for _, row := range l.rows {
		switch row.Group {
		case core.Income:
			t.Income += row.Amount
		case core.Expense:
			t.Expense += row.Amount
		case core.Asset:
			t.Asset += row.Amount
		case core.Liability:
			t.Liability += row.Amount
		}
	}
	t.NetCash = t.Income + t.Expense
	t.NetWorth = t.Asset + t.Liability
	return t
}

// percentFn captures the group denominators once so per-row lookups during
// a sort or render don't rescan the table.
func (l *Ledger) percentFn() func(core.Transaction) float64 {
	t := l.Totals()
	absIncome := math.Abs(t.Income)
	absExpense := math.Abs(t.Expense)
	absAssetLiability := math.Abs(t.Asset) + math.Abs(t.Liability)

	return func(row core.Transaction) float64 {
		switch {
		case row.Group == core.Income && absIncome > 0:
			return math.Abs(row.Amount) / absIncome * 100
		case row.Group == core.Expense && absExpense > 0:
			return math.Abs(row.Amount) / absExpense * 100
		case (row.Group == core.Asset || row.Group == core.Liability) && absAssetLiability > 0:
			return math.Abs(row.Amount) / absAssetLiability * 100
		}
		return 0
	}
}

// PercentOf returns the row's share of its group's absolute total, as a
// percentage. Asset and Liability share a combined denominator. A zero
// denominator yields 0.
func (l *Ledger) PercentOf(row core.Transaction) float64 {
	return l.percentFn()(row)
}

// ExpenseBreakdown aggregates Expense rows by description into absolute
// amounts, descending. Rows with an empty description fall under "Other".
func (l *Ledger) ExpenseBreakdown() []BreakdownItem {
	sums := make(map[string]float64)
	var order []string
	for _, row := range l.rows {
		if row.Group != core.Expense {
			continue
		}
		label := row.Description
		if label == "" {
			label = "Other"
		}
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += row.Amount
	}
	if len(order) == 0 {
		return nil
	}

	var total float64
	for _, label := range order {
		total += math.Abs(sums[label])
	}

	items := make([]BreakdownItem, 0, len(order))
	for _, label := range order {
		amount := math.Abs(sums[label])
		pct := 0.0
		if total > 0 {
			pct = amount / total * 100
		}
		items = append(items, BreakdownItem{Description: label, Amount: amount, Percent: pct})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Amount > items[j].Amount })
	return items
}

func (l *Ledger) snapshot() {
	if l.snap != nil {
		l.snap.Snapshot(l.rows)
	}
}
