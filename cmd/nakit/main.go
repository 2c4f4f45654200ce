package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dominosyicem-blip/nakitakisi/internal/autosave"
	"github.com/dominosyicem-blip/nakitakisi/internal/cli"
	"github.com/dominosyicem-blip/nakitakisi/internal/config"
	"github.com/dominosyicem-blip/nakitakisi/internal/ledger"
	applog "github.com/dominosyicem-blip/nakitakisi/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(config.Load())
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	ctx := context.Background()
	bridge := autosave.New(cfg.AutosavePath)
	led := ledger.New(store, ledger.NewUndoLog(), bridge)

	if err := led.Load(ctx); err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err)
		os.Exit(1)
	}

	in := bufio.NewScanner(os.Stdin)
	out := os.Stdout

	maybeRecover(ctx, led, store, bridge, in, out, logger)

	cli.OnInterrupt(func() {
		bridge.Snapshot(led.Rows())
		store.Close()
		logger.Info("Session ended")
	})

	logger.Info("Ledger ready", applog.FieldPath, cfg.DBPath)
	session := newSession(led, cfg, logger.WithComponent(applog.ComponentSession))
	session.run(ctx, in, out)
}

// maybeRecover offers to import the autosave file when the store is empty
// and a recovery file from a previous session exists.
func maybeRecover(ctx context.Context, led *ledger.Ledger, store ledger.Store, bridge *autosave.Bridge, in *bufio.Scanner, out *os.File, logger *applog.Logger) {
	if len(led.Rows()) != 0 || !bridge.Exists() {
		return
	}
	fmt.Fprint(out, "An autosave from a previous session was found and the database is empty. Import it? [y/N] ")
	if !in.Scan() || !strings.EqualFold(strings.TrimSpace(in.Text()), "y") {
		return
	}

	rows, err := bridge.Recover()
	if err != nil {
		logger.Error("Autosave could not be loaded", applog.FieldError, err)
		return
	}
	// Ids are reassigned on import.
	for _, r := range rows {
		if _, err := store.Insert(ctx, r.Date, r.Group, r.Description, r.Amount); err != nil {
			logger.Warn("Skipped autosave row", applog.FieldError, err)
		}
	}
	if err := led.Load(ctx); err != nil {
		logger.Error("Failed to reload ledger after recovery", applog.FieldError, err)
		return
	}
	logger.Info("Autosave imported", applog.FieldCount, len(rows))
}
