package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/creatorstation/imgenhancer/internal/appcron"
	"github.com/creatorstation/imgenhancer/internal/background"
	"github.com/creatorstation/imgenhancer/internal/config"
	"github.com/creatorstation/imgenhancer/internal/db"
	"github.com/creatorstation/imgenhancer/internal/enhance"
	"github.com/creatorstation/imgenhancer/internal/history"
	"github.com/creatorstation/imgenhancer/internal/metrics"
	"github.com/creatorstation/imgenhancer/internal/panel"
	"github.com/creatorstation/imgenhancer/internal/pending"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// App holds every long-lived component, wired from one Config.
type App struct {
	Config   *config.Config
	Store    db.KeyValueStore
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	History  *history.Cache
	Sweeper  *history.Sweeper
	Pending  *pending.Handoff
	Enhancer *enhance.Client
	Panel    *panel.Controller
	Menus    *background.Menus
	Worker   *background.Worker
	Cron     *cron.Cron

	closeStore func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	opts := cfg.StoreOptions()
	opts.QuotaKeys = []string{history.Key, pending.Key}

	store, closeStore, err := db.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	a := &App{
		Config:     cfg,
		Store:      store,
		Registry:   metrics.NewRegistry(),
		closeStore: closeStore,
	}
	a.Metrics = metrics.New(a.Registry)

	clock := clockwork.NewRealClock()
	a.History = history.NewCache(store, clock, a.Metrics)
	a.Sweeper = history.NewSweeper(a.History, cfg.HistoryMaxAge)
	a.Pending = pending.NewHandoff(store)
	a.Enhancer = enhance.NewClient(cfg.EnhanceEndpoint, cfg.EnhanceTimeout)

	a.Panel = panel.NewController(panel.Deps{
		Enhancer:           a.Enhancer,
		History:            a.History,
		Pending:            a.Pending,
		Metrics:            a.Metrics,
		Clock:              clock,
		MaxInputMegapixels: cfg.MaxInputMegapixels,
	})

	a.Cron, err = appcron.NewSweepCron(a.Sweeper, cfg.SweepInterval)
	if err != nil {
		closeStore()
		return nil, err
	}

	var host background.PanelHost = background.LogPanelHost{}
	if cfg.OpenBrowser {
		host = background.NewBrowserPanelHost(cfg.PanelURL)
	}
	a.Menus = background.NewMenus()
	a.Worker = background.NewWorker(a.Menus, a.Pending, host, a.Cron)

	slog.Info("App wired", "store", cfg.StoreDriver, "endpoint", cfg.EnhanceEndpoint)
	return a, nil
}

// Close stops the schedule and releases the store.
func (a *App) Close() error {
	<-a.Cron.Stop().Done()
	return a.closeStore()
}
