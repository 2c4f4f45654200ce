package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dominosyicem-blip/nakitakisi/internal/config"
	"github.com/dominosyicem-blip/nakitakisi/internal/core"
	"github.com/dominosyicem-blip/nakitakisi/internal/ledger"
	applog "github.com/dominosyicem-blip/nakitakisi/internal/log"
)

const usage = `Commands:
  add <date> <group> <amount> [description]   add a transaction (group: Income|Expense|Asset|Liability)
  del <id> [id...]                            delete transactions
  list                                        show the table in its current order
  sort <date|group|description|amount|percent>  sort; repeating a column flips direction
  undo                                        undo the last add or delete
  totals                                      show group totals
  breakdown                                   show the expense breakdown
  export <file>                               write the text report
  sample                                      replace everything with sample data
  quit`

// session is the thin interactive view over the ledger core. It owns no
// state beyond presentation; every command maps to one core call.
type session struct {
	led    *ledger.Ledger
	cfg    *config.Config
	logger *applog.Logger
}

func newSession(led *ledger.Ledger, cfg *config.Config, logger *applog.Logger) *session {
	return &session{led: led, cfg: cfg, logger: logger}
}

func (s *session) run(ctx context.Context, in *bufio.Scanner, out io.Writer) {
	fmt.Fprintln(out, usage)
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			fmt.Fprintln(out, usage)
		case "add":
			s.add(ctx, out, args)
		case "del":
			s.del(ctx, out, args)
		case "list":
			s.list(out)
		case "sort":
			s.sort(out, args)
		case "undo":
			s.undo(ctx, out)
		case "totals":
			s.totals(out)
		case "breakdown":
			s.breakdown(out)
		case "export":
			s.export(out, args)
		case "sample":
			if err := s.led.LoadSample(ctx); err != nil {
				fmt.Fprintln(out, "Error:", err)
				break
			}
			fmt.Fprintln(out, "Sample data loaded.")
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help'.\n", cmd)
		}
	}
}

func (s *session) add(ctx context.Context, out io.Writer, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(out, "Usage: add <date> <group> <amount> [description]")
		return
	}
	group := core.Group(args[1])
	if !group.Valid() {
		fmt.Fprintf(out, "Unknown group %q. Use one of %v.\n", args[1], core.Groups)
		return
	}
	amount, err := core.ParseAmount(args[2])
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	desc := strings.Join(args[3:], " ")

	id, err := s.led.Add(ctx, args[0], group, desc, math.Abs(amount))
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	fmt.Fprintf(out, "'%s' added -> %s %s (id=%d)\n",
		desc, group, core.FormatAmount(core.SignedAmount(group, amount), s.cfg.ExportDecimals), id)
}

func (s *session) del(ctx context.Context, out io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: del <id> [id...]")
		return
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			fmt.Fprintf(out, "Invalid id %q.\n", a)
			return
		}
		ids = append(ids, id)
	}
	n, err := s.led.Delete(ctx, ids)
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	fmt.Fprintf(out, "%d item(s) deleted.\n", n)
}

func (s *session) list(out io.Writer) {
	rows := s.led.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(out, "Ledger is empty.")
		return
	}
	fmt.Fprintf(out, "%4s  %-10s  %-9s  %-24s  %14s  %7s\n", "id", "date", "group", "description", "amount", "%")
	for _, r := range rows {
		fmt.Fprintf(out, "%4d  %-10s  %-9s  %-24s  %14s  %6.1f%%\n",
			r.ID, r.Date, r.Group, r.Description,
			core.FormatAmount(r.Amount, s.cfg.ExportDecimals), s.led.PercentOf(r))
	}
}

func (s *session) sort(out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: sort <date|group|description|amount|percent>")
		return
	}
	col := ledger.Column(args[0])
	switch col {
	case ledger.ColDate, ledger.ColGroup, ledger.ColDescription, ledger.ColAmount, ledger.ColPercent:
	default:
		fmt.Fprintf(out, "Unknown column %q. Use date, group, description, amount or percent.\n", args[0])
		return
	}
	s.led.SortBy(col)
	col, asc := s.led.SortKey()
	dir := "ascending"
	if !asc {
		dir = "descending"
	}
	fmt.Fprintf(out, "Sorted by %s, %s.\n", col, dir)
}

func (s *session) undo(ctx context.Context, out io.Writer) {
	res, err := s.led.Undo(ctx)
	if errors.Is(err, core.ErrNothingToUndo) {
		fmt.Fprintln(out, "Nothing to undo.")
		return
	}
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	switch res.Action {
	case ledger.ActionAdd:
		fmt.Fprintf(out, "Last add undone (id=%d).\n", res.ID)
	case ledger.ActionDelete:
		fmt.Fprintf(out, "Last delete undone (%d item(s) restored).\n", res.Restored)
	}
}

func (s *session) totals(out io.Writer) {
	t := s.led.Totals()
	d := s.cfg.ExportDecimals
	fmt.Fprintf(out, "Total Income: %s\n", core.FormatAmount(t.Income, d))
	fmt.Fprintf(out, "Total Expense: %s\n", core.FormatAmount(t.Expense, d))
	fmt.Fprintf(out, "Net Cash (Income + Expense): %s\n", core.FormatAmount(t.NetCash, d))
	fmt.Fprintf(out, "Total Assets: %s\n", core.FormatAmount(t.Asset, d))
	fmt.Fprintf(out, "Total Liabilities: %s\n", core.FormatAmount(t.Liability, d))
	fmt.Fprintf(out, "Net Worth (Assets + Liabilities): %s\n", core.FormatAmount(t.NetWorth, d))
}

func (s *session) breakdown(out io.Writer) {
	items := s.led.ExpenseBreakdown()
	if len(items) == 0 {
		fmt.Fprintln(out, "No expenses.")
		return
	}
	for _, item := range items {
		fmt.Fprintf(out, "%s: %s (%.1f%%)\n",
			item.Description, core.FormatAmount(item.Amount, s.cfg.ExportDecimals), item.Percent)
	}
}

func (s *session) export(out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: export <file>")
		return
	}
	if len(s.led.Rows()) == 0 {
		fmt.Fprintln(out, "Nothing to export.")
		return
	}
	f, err := os.Create(args[0])
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	defer f.Close()
	if err := s.led.WriteReport(f, s.cfg.ExportDecimals); err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	s.logger.Info("Report exported", applog.FieldPath, args[0])
	fmt.Fprintf(out, "Exported to %s.\n", args[0])
}
