package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/uk-accident-insights/internal/domain"
	"github.com/couchcryptid/uk-accident-insights/internal/observability"
)

// RecordSource loads the rows of an extract.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]domain.Record, error)
}

// Service builds the dashboard page and hands it to HTTP handlers. In reload
// mode every Page call rebuilds from the source.
type Service struct {
	source  RecordSource
	year    int
	opts    Options
	reload  bool
	logger  *slog.Logger
	metrics *observability.DashboardMetrics

	mu   sync.RWMutex
	page []byte
}

// NewService creates a Service. year titles the page when the extract has no
// rows to take it from.
func NewService(source RecordSource, year int, opts Options, reload bool, logger *slog.Logger, metrics *observability.DashboardMetrics) *Service {
	return &Service{
		source:  source,
		year:    year,
		opts:    opts,
		reload:  reload,
		logger:  logger,
		metrics: metrics,
	}
}

// Refresh rebuilds the page from the source and stores it.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Service) refreshLocked(ctx context.Context) error {
	start := domain.Now()
	s.metrics.PageBuilds.Inc()

	records, err := s.source.LoadRecords(ctx)
	if err != nil {
		s.metrics.PageBuildErrors.Inc()
		return fmt.Errorf("load extract: %w", err)
	}

	views := BuildViews(records, s.year, s.opts)
	page, err := Render(views)
	if err != nil {
		s.metrics.PageBuildErrors.Inc()
		return err
	}

	s.page = page
	s.metrics.RowsLoaded.Set(float64(views.Rows))
	s.metrics.RowsBadTime.Set(float64(views.Rows - views.TimedRows))
	s.metrics.MapPoints.Set(float64(len(views.Points)))
	s.metrics.PageBuildTime.Observe(domain.Now().Sub(start).Seconds())
	s.logger.Info("dashboard built",
		"year", views.Year,
		"rows", views.Rows,
		"rows_with_time", views.TimedRows,
		"map_points", len(views.Points),
	)
	return nil
}

// Page returns the rendered page, rebuilding it first in reload mode.
func (s *Service) Page(ctx context.Context) ([]byte, error) {
	if s.reload {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.refreshLocked(ctx); err != nil {
			return nil, err
		}
		return s.page, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.page == nil {
		return nil, errors.New("dashboard has not been built")
	}
	return s.page, nil
}

// CheckReadiness returns nil once a page has been built.
func (s *Service) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.page == nil {
		return errors.New("dashboard has not been built yet")
	}
	return nil
}
