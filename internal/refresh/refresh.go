// Package refresh keeps the symbol directory cache warm on a schedule so
// interactive lookups rarely pay refetch latency at the TTL boundary.
package refresh

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
)

// Directory is the cache being kept warm.
type Directory interface {
	GetAll(ctx context.Context) []models.SymbolListing
}

// Warmer periodically reads the directory, which refreshes it whenever the
// TTL has lapsed. Reads are idempotent, so overlapping with UI-driven
// refetches is harmless.
type Warmer struct {
	cron      *cron.Cron
	directory Directory
	spec      string
}

// NewWarmer creates a warmer with a cron spec such as "@every 4m".
func NewWarmer(directory Directory, spec string) *Warmer {
	return &Warmer{
		cron:      cron.New(),
		directory: directory,
		spec:      spec,
	}
}

// Start registers the warm job and starts the scheduler. It also warms the
// directory once immediately so the first user request hits a full cache.
func (w *Warmer) Start() error {
	if w.spec == "" {
		return fmt.Errorf("empty refresh schedule")
	}
	if _, err := w.cron.AddFunc(w.spec, w.warm); err != nil {
		return fmt.Errorf("failed to schedule directory refresh: %w", err)
	}
	w.cron.Start()
	go w.warm()
	return nil
}

// Stop halts the scheduler and waits for a running warm job to finish.
func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *Warmer) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	listings := w.directory.GetAll(ctx)
	log.Printf("refresh: directory warm, %d listings", len(listings))
}
