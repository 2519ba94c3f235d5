// Package janitor implements best-effort cleanup of the scratch image
// directory. Cleanup is fire-and-forget: a missing directory, an unreadable
// listing or an undeletable file never surfaces as an error.
package janitor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardkeep/internal/logging"
)

// Clear deletes the immediate children of dir and returns how many were
// removed. Every failure is tolerated.
func Clear(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed
}

// Janitor periodically clears a scratch directory for long-running
// sessions.
type Janitor struct {
	dir      string
	interval time.Duration
	log      logging.Logger

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// New constructs but does not start a Janitor. A non-positive interval
// defaults to one minute.
func New(dir string, interval time.Duration, log logging.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		dir:      dir,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop in a new goroutine.
func (j *Janitor) Start(ctx context.Context) {
	go j.loop(ctx)
}

// Stop signals the loop to exit and waits for completion.
func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.stopCh) })
	<-j.doneCh
}

func (j *Janitor) loop(ctx context.Context) {
	log := j.log.With("component", "janitor")
	ticker := time.NewTicker(j.interval)
	defer func() {
		ticker.Stop()
		close(j.doneCh)
	}()
	for {
		select {
		case <-ctx.Done():
			log.Debug(ctx, "stopping", "reason", "context")
			return
		case <-j.stopCh:
			log.Debug(ctx, "stopping", "reason", "stop")
			return
		case <-ticker.C:
			if n := Clear(j.dir); n > 0 {
				log.Info(ctx, "cleared scratch files", "dir", j.dir, "removed", n)
			}
		}
	}
}
