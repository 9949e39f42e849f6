package application

import (
	"context"
	"time"

	"metalstats-service/internal/domain"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// MetalStatsService drives the fetch, derive, render and publish pipeline
// and answers read queries for the HTTP API.
type MetalStatsService struct {
	prices   PriceRepo
	stats    StatRepo
	spot     SpotProvider
	fixing   FixingProvider
	fixCache FixingCache
	charts   ChartRenderer
	site     SiteRenderer
	pub      Publisher

	base       string
	source     string
	minDate    time.Time
	useCache   bool
	fixingBack int
	clock      Clock
	log        *zap.Logger
}

type Option func(*MetalStatsService)

func WithClock(c Clock) Option { return func(s *MetalStatsService) { s.clock = c } }

// WithSpotCache toggles the read-through use of already-persisted spot rows.
func WithSpotCache(on bool) Option { return func(s *MetalStatsService) { s.useCache = on } }

func WithMinDate(t time.Time) Option { return func(s *MetalStatsService) { s.minDate = t } }

func WithLogger(l *zap.Logger) Option { return func(s *MetalStatsService) { s.log = l } }

// WithFixingFallback sets how many days RebuildDailyStats walks back for the
// last published fixing.
func WithFixingFallback(days int) Option {
	return func(s *MetalStatsService) { s.fixingBack = days }
}

func WithRenderers(charts ChartRenderer, site SiteRenderer) Option {
	return func(s *MetalStatsService) {
		s.charts = charts
		s.site = site
	}
}

func WithPublisher(p Publisher) Option { return func(s *MetalStatsService) { s.pub = p } }

func NewMetalStatsService(prices PriceRepo, stats StatRepo, spot SpotProvider, fixing FixingProvider, fixCache FixingCache, opts ...Option) *MetalStatsService {
	s := &MetalStatsService{
		prices:     prices,
		stats:      stats,
		spot:       spot,
		fixing:     fixing,
		fixCache:   fixCache,
		base:       "USD",
		source:     "metalpriceapi",
		useCache:   true,
		fixingBack: 7,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.fixCache == nil {
		s.fixCache = NoopFixingCache{}
	}
	if s.pub == nil {
		s.pub = NoopPublisher{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *MetalStatsService) LatestSnapshot(ctx context.Context) (domain.DailyStat, error) {
	return s.stats.Latest(ctx)
}

func (s *MetalStatsService) History(ctx context.Context, from, to string) ([]domain.DailyStat, error) {
	if from != "" {
		if _, err := domain.ParseDate(from); err != nil {
			return nil, ErrBadRequest
		}
	}
	if to != "" {
		if _, err := domain.ParseDate(to); err != nil {
			return nil, ErrBadRequest
		}
	}
	return s.stats.Range(ctx, from, to)
}

func (s *MetalStatsService) LastSpot(ctx context.Context, metal string) (domain.SpotPrice, error) {
	if !domain.ValidateMetal(metal) {
		return domain.SpotPrice{}, domain.ErrUnsupportedMetal
	}
	m := domain.Metal(metal)
	date, err := s.prices.MaxDate(ctx, m)
	if err != nil {
		return domain.SpotPrice{}, err
	}
	if date == "" {
		return domain.SpotPrice{}, ErrNotFound
	}
	return s.prices.Get(ctx, date, s.base, m, s.source)
}

// RunPipeline executes the full daily cycle: ingest missing days, fill
// derived columns, rebuild the joined stats, render charts and the index
// page, then publish.
func (s *MetalStatsService) RunPipeline(ctx context.Context) error {
	if err := s.EnsureUpToDate(ctx); err != nil {
		return err
	}
	if _, err := s.BackfillUSDPerOz(ctx); err != nil {
		return err
	}
	if err := s.RebuildDailyStats(ctx); err != nil {
		return err
	}
	if err := s.RenderCharts(ctx); err != nil {
		return err
	}
	if err := s.RenderIndex(ctx); err != nil {
		return err
	}
	return s.Publish(ctx)
}

// Publish syncs the regenerated artifacts to the remote with a timestamped
// message. A noop when publishing is disabled.
func (s *MetalStatsService) Publish(ctx context.Context) error {
	msg := "Update data and charts (" + s.clock.Now().Format("2006-01-02 15:04") + ")"
	return s.pub.Publish(ctx, msg)
}
