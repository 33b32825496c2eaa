// Package regen drives the render-then-publish step. Every award triggers a
// run, and a midnight schedule rolls the daily/monthly pages over on days
// with no awards at all.
package regen

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/ouenpt/internal/model"
	"github.com/dukerupert/ouenpt/internal/publish"
	"github.com/dukerupert/ouenpt/internal/site"
	"github.com/dukerupert/ouenpt/internal/store"
)

const publishTimeout = 30 * time.Second

// Trigger regenerates the site from the current log and pushes it out.
// Runs are serialized by a mutex so a burst of awards cannot duplicate work;
// each run reads whatever the log contains at that moment.
type Trigger struct {
	mu      sync.Mutex
	log     *store.EventLogStore
	render  *site.Renderer
	pub     *publish.Publisher
	siteDir string
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewTrigger(log *store.EventLogStore, renderer *site.Renderer, pub *publish.Publisher, siteDir string, logger *slog.Logger) *Trigger {
	return &Trigger{
		log:     log,
		render:  renderer,
		pub:     pub,
		siteDir: siteDir,
		cron:    cron.New(cron.WithLocation(model.JST)),
		logger:  logger,
	}
}

// Run performs one regeneration. Every failure is logged and swallowed: by
// the time this runs the award is already durable, and that is the part
// that matters.
func (t *Trigger) Run() {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := t.log.Load()
	if err := t.render.Render(events); err != nil {
		t.logger.Error("render site", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := t.pub.Publish(ctx, t.siteDir); err != nil {
		t.logger.Error("publish site", "error", err)
	}
}

// Start arms the midnight JST rollover so the daily page resets at date
// boundaries even without new awards.
func (t *Trigger) Start() error {
	if _, err := t.cron.AddFunc("0 0 * * *", t.Run); err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("rollover schedule started")
	return nil
}

// Stop waits for any in-flight rollover run to finish.
func (t *Trigger) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}
