package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// SnapshotFunc hands the auto-saver the working invoice number and a
// read-only snapshot of the live ledger.
type SnapshotFunc func() (int, LedgerSnapshot)

// AutoSaver periodically writes the in-progress invoice to a scratch file
// in a user-scoped temp directory. Each tick supersedes the previous
// snapshot for the same invoice number; the file is never read back
// automatically; recovery is a manual operation.
type AutoSaver struct {
	dir      string
	interval time.Duration
	snapshot SnapshotFunc
	logger   *zap.Logger
}

func NewAutoSaver(dir string, interval time.Duration, snapshot SnapshotFunc, logger *zap.Logger) *AutoSaver {
	return &AutoSaver{
		dir:      dir,
		interval: interval,
		snapshot: snapshot,
		logger:   logger,
	}
}

// DefaultScratchDir is the per-user directory for auto-save snapshots.
func DefaultScratchDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "temp_bills")
	}
	return filepath.Join(home, "temp_bills")
}

// Run ticks until ctx is cancelled. It never mutates the ledger; write
// errors are logged and the timer rearmed unconditionally.
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Tick(); err != nil {
				a.logger.Error("auto-save failed", zap.Error(err))
			}
		}
	}
}

type scratchSnapshot struct {
	InvoiceNumber int            `json:"invoice_number"`
	SavedAt       time.Time      `json:"saved_at"`
	Ledger        LedgerSnapshot `json:"ledger"`
}

// Tick writes one snapshot. An empty ledger is a no-op.
func (a *AutoSaver) Tick() error {
	number, snap := a.snapshot()
	if len(snap.Items) == 0 {
		return nil
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}

	data, err := json.MarshalIndent(scratchSnapshot{
		InvoiceNumber: number,
		SavedAt:       time.Now(),
		Ledger:        snap,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := filepath.Join(a.dir, fmt.Sprintf("temp_invoice_%d.json", number))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	a.logger.Info("auto-saved working invoice",
		zap.Int("invoice_number", number),
		zap.String("path", path))
	return nil
}
