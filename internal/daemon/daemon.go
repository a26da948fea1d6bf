// Package daemon runs the synchronization on a schedule and publishes the
// resulting windows to the calendar server.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/engine"
	"github.com/tartampluch/go-holisync/internal/server"
)

// Daemon owns the sync schedule and the localized calendar rendering.
type Daemon struct {
	Ctx      context.Context
	Settings config.Settings
	Syncer   *engine.Syncer
	Server   *server.CalendarServer // nil in one-shot mode
	Clock    engine.Clock

	I18nBundle *i18n.Bundle
	Localizer  *i18n.Localizer

	SupportedLanguages []string
	triggerChan        chan struct{}
}

// New wires a daemon. The clock defaults to the syncer's.
func New(ctx context.Context, settings config.Settings, syncer *engine.Syncer, srv *server.CalendarServer) *Daemon {
	clock := engine.Clock(engine.RealClock{})
	if syncer != nil && syncer.Clock != nil {
		clock = syncer.Clock
	}

	d := &Daemon{
		Ctx:                ctx,
		Settings:           settings,
		Syncer:             syncer,
		Server:             srv,
		Clock:              clock,
		SupportedLanguages: config.SupportedLanguages,
		triggerChan:        make(chan struct{}, config.ChannelBufferSize),
	}
	d.SetupI18n()
	return d
}

// Run starts the HTTP server and the periodic worker. It blocks until the
// context is cancelled or the server fails to start.
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(d.Ctx)
	defer cancel()

	serverErr := make(chan error, config.ChannelBufferSize)
	if d.Server != nil {
		go func() {
			serverErr <- d.Server.Start(ctx)
		}()
	}

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		d.backgroundWorker(ctx)
	}()

	select {
	case err := <-serverErr:
		cancel()
		<-workerDone
		if err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err)
		}
		return err
	case <-workerDone:
		if d.Server != nil {
			return <-serverErr
		}
		return nil
	}
}

// RunOnce performs a single synchronization.
func (d *Daemon) RunOnce() engine.Report {
	return d.performSync(d.Ctx, false)
}

// Trigger requests an immediate synchronization. Requests arriving while
// one is already queued are dropped.
func (d *Daemon) Trigger() {
	select {
	case d.triggerChan <- struct{}{}:
	default:
	}
}

// backgroundWorker manages the periodic synchronization schedule.
func (d *Daemon) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	if ctx.Err() != nil {
		log.Info(config.MsgWorkerStop)
		return
	}
	d.performSync(ctx, false)

	interval := d.Settings.IntervalMin
	if interval <= 0 {
		interval = config.DefaultRefreshMin
	}
	duration := time.Duration(interval) * time.Minute

	ticker := time.NewTicker(duration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, duration)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-d.triggerChan:
			d.performSync(ctx, true)
			ticker.Reset(duration)

		case <-ticker.C:
			d.performSync(ctx, false)
		}
	}
}

// performSync runs the engine and publishes the preview calendar.
func (d *Daemon) performSync(ctx context.Context, manual bool) engine.Report {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyManual, manual)

	report := d.Syncer.Run(ctx, d.syncConfig())

	if d.Server != nil {
		ics, err := engine.BuildCalendar(report.Windows, d.Clock.Now(), d.eventFormatter())
		if err != nil {
			slog.Error(config.MsgSyncFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err)
			return report
		}
		d.Server.Update(ics)
	}

	return report
}

func (d *Daemon) syncConfig() engine.SyncConfig {
	return engine.SyncConfig{
		Country: d.Settings.Country,
		Year:    d.Settings.Year,
		DryRun:  d.Settings.DryRun,
	}
}
