package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/busradar/busradar/api/fleet"
	"github.com/busradar/busradar/api/roster"
	"github.com/busradar/busradar/api/tracks"
	"github.com/busradar/busradar/api/updates"
	"github.com/busradar/busradar/config"
	corefleet "github.com/busradar/busradar/core/fleet"
	coremetrics "github.com/busradar/busradar/core/metrics"
	"github.com/busradar/busradar/core/notify"
	coreroster "github.com/busradar/busradar/core/roster"
	"github.com/busradar/busradar/core/scheduler"
	"github.com/busradar/busradar/core/tracklog"
	"github.com/busradar/busradar/infra/logger"
	"github.com/busradar/busradar/infra/metrics"
	"github.com/busradar/busradar/infra/mqtt"
	infrapush "github.com/busradar/busradar/infra/push"
	infraroster "github.com/busradar/busradar/infra/roster"
	"github.com/busradar/busradar/infra/store"
	"github.com/busradar/busradar/internal/eventbus"
	"github.com/busradar/busradar/pkg/export"
)

// Service orchestrates the notification engine and its connectors.
type Service struct {
	Engine *notify.Engine

	cfg     *config.Config
	loader  *infraroster.Client
	tracks  tracklog.Store
	cutoff  *scheduler.Cutoff
	bus     eventbus.EventBus
	log     logger.Logger
	closers []func() error
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	svc := &Service{cfg: cfg, log: logg}

	rosterStore, err := newRosterStore(cfg.Storage, svc)
	if err != nil {
		return nil, fmt.Errorf("roster store: %w", err)
	}
	sender, err := infrapush.NewWebPushSender(cfg.Push)
	if err != nil {
		return nil, fmt.Errorf("push sender: %w", err)
	}
	engine, err := notify.NewEngine(rosterStore, corefleet.NewMemoryTracker(), sender, cfg.Notify, logger.New("notify"))
	if err != nil {
		return nil, fmt.Errorf("notify engine: %w", err)
	}

	svc.bus = eventbus.New()
	engine.SetEventBus(svc.bus)

	if sink := newMetricsSink(cfg.Metrics); sink != nil {
		engine.SetMetricsSink(sink)
	}

	if cfg.TrackLog.Enabled {
		tl, err := newTrackLog(cfg.TrackLog)
		if err != nil {
			return nil, fmt.Errorf("track log: %w", err)
		}
		engine.SetTrackLog(tl)
		svc.tracks = tl
		svc.closers = append(svc.closers, tl.Close)
	}

	if cfg.Roster.URL != "" {
		loader, err := infraroster.NewClient(cfg.Roster, logger.New("roster"))
		if err != nil {
			return nil, fmt.Errorf("roster client: %w", err)
		}
		svc.loader = loader
	}

	if cfg.Cutoff.Enabled {
		cutoff, err := scheduler.NewCutoff(cfg.Cutoff, svc.cutoffJob, logger.New("cutoff"))
		if err != nil {
			return nil, fmt.Errorf("cutoff scheduler: %w", err)
		}
		svc.cutoff = cutoff
	}

	svc.Engine = engine
	return svc, nil
}

func newRosterStore(cfg config.StorageConfig, svc *Service) (coreroster.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, s.Close)
		return s, nil
	default:
		return coreroster.NewMemoryStore(), nil
	}
}

func newTrackLog(cfg config.TrackLogConfig) (tracklog.Store, error) {
	if cfg.Backend == "sqlite" {
		return tracklog.NewSQLiteStore(cfg.Path)
	}
	return tracklog.NewJSONLStore(cfg.Path)
}

func newMetricsSink(cfg coremetrics.Config) coremetrics.Sink {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg)
		if err == nil {
			sinks = append(sinks, sink)
		}
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

// Handler builds the HTTP API surface of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/vehicles/update", updates.NewUpdateHandler(s.Engine, logger.New("api")))
	mux.Handle("/api/fleet", fleet.NewSnapshotHandler(s.Engine))
	mux.Handle("/api/fleet/reset", fleet.NewResetHandler(s.Engine))
	if s.loader != nil {
		mux.Handle("/api/roster/refresh", roster.NewRefreshHandler(s.loader, s.Engine, logger.New("api")))
	}
	if s.tracks != nil {
		mux.Handle("/api/tracks", tracks.NewTrackHandler(s.tracks))
	}
	return mux
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go runEventLog(s.bus, logger.New("events"))

	if s.loader != nil {
		if err := s.refreshRoster(ctx); err != nil {
			s.log.Errorf("initial roster load: %v", err)
		}
	}

	var sub *mqtt.Subscriber
	if s.cfg.MQTT.Enabled {
		var err error
		sub, err = mqtt.NewSubscriber(s.cfg.MQTT, s.Engine, logger.New("mqtt"))
		if err != nil {
			return fmt.Errorf("mqtt subscriber: %w", err)
		}
		defer sub.Close()
	}

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cutoff != nil {
		go s.cutoff.Run(ctx)
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Infof("listening on %s", s.cfg.HTTP.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func (s *Service) refreshRoster(ctx context.Context) error {
	subs, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	return s.Engine.RefreshRoster(ctx, subs)
}

// cutoffJob exports the finished service day, resets the cycle and,
// when a roster directory is configured, reloads the roster so the
// new day starts with fresh subscriber state.
func (s *Service) cutoffJob(ctx context.Context) error {
	if s.tracks != nil && s.cfg.Cutoff.ExportDir != "" {
		if err := s.exportTracks(ctx); err != nil {
			s.log.Errorf("track export: %v", err)
		}
	}
	if err := s.Engine.ResetCycle(ctx); err != nil {
		return err
	}
	if s.loader != nil {
		if err := s.refreshRoster(ctx); err != nil {
			s.log.Errorf("post-cutoff roster refresh: %v", err)
		}
	}
	return nil
}

func (s *Service) exportTracks(ctx context.Context) error {
	end := time.Now()
	points, err := s.tracks.Query(ctx, tracklog.Query{Start: end.Add(-24 * time.Hour), End: end})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.cfg.Cutoff.ExportDir, 0o750); err != nil {
		return err
	}
	path := filepath.Join(s.cfg.Cutoff.ExportDir, "tracks-"+end.Format("2006-01-02")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := export.WriteCSV(f, points); err != nil {
		return err
	}
	s.log.Infof("exported %d track points to %s", len(points), path)
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
	}
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
