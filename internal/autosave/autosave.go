// Package autosave keeps a flat CSV recovery copy of the ledger beside the
// database, written after every mutation and read back only at startup.
package autosave

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dominosyicem-blip/nakitakisi/internal/core"
)

var header = []string{"id", "date", "group", "description", "amount"}

// Bridge snapshots the in-memory table to a recovery file. Writing is
// best-effort: a failed snapshot must never interrupt the operation that
// triggered it.
type Bridge struct {
	path string
}

func New(path string) *Bridge {
	return &Bridge{path: path}
}

// Snapshot writes the full table to the recovery file. An empty table
// deletes the file instead, so a later startup doesn't offer stale data.
// All failures are swallowed.
func (b *Bridge) Snapshot(rows []core.Transaction) {
	if len(rows) == 0 {
		if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
			slog.Debug("Autosave remove failed", "path", b.path, "error", err)
		}
		return
	}

	f, err := os.Create(b.path)
	if err != nil {
		slog.Debug("Autosave write failed", "path", b.path, "error", err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		slog.Debug("Autosave write failed", "path", b.path, "error", err)
		return
	}
	for _, t := range rows {
		rec := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			string(t.Group),
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			slog.Debug("Autosave write failed", "path", b.path, "error", err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		slog.Debug("Autosave flush failed", "path", b.path, "error", err)
	}
}

// Exists reports whether a recovery file is present.
func (b *Bridge) Exists() bool {
	_, err := os.Stat(b.path)
	return err == nil
}

// Recover reads the recovery file and validates it in full before anything
// is returned: a missing required column or an unparsable amount rejects
// the whole file. The returned rows still carry their old ids, but imports
// go through Store.Insert, which reassigns them.
func (b *Bridge) Recover() ([]core.Transaction, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("open autosave: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read autosave: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read autosave: empty file")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{"date", "group", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("autosave missing column %q", required)
		}
	}

	rows := make([]core.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		amount, err := strconv.ParseFloat(rec[cols["amount"]], 64)
		if err != nil {
			return nil, fmt.Errorf("autosave row %d: bad amount %q", i+1, rec[cols["amount"]])
		}
		t := core.Transaction{
			Date:        rec[cols["date"]],
			Group:       core.Group(rec[cols["group"]]),
			Description: rec[cols["description"]],
			Amount:      amount,
		}
		if idx, ok := cols["id"]; ok {
			if id, err := strconv.ParseInt(rec[idx], 10, 64); err == nil {
				t.ID = id
			}
		}
		rows = append(rows, t)
	}
	return rows, nil
}
