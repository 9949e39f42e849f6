package application

import (
	"context"
	"errors"
	"fmt"

	"metalstats-service/internal/domain"

	"go.uber.org/zap"
)

// RebuildDailyStats joins the gold and silver USD histories by date, derives
// the gold/silver ratio and PLN prices, and upserts the result.
func (s *MetalStatsService) RebuildDailyStats(ctx context.Context) error {
	points, err := s.prices.JoinedSeries(ctx)
	if err != nil {
		return fmt.Errorf("rebuild stats: joined series: %w", err)
	}
	if len(points) == 0 {
		s.log.Info("no_joined_data")
		return nil
	}

	existing, err := s.stats.All(ctx)
	if err != nil {
		return fmt.Errorf("rebuild stats: load existing: %w", err)
	}
	known := make(map[string]domain.DailyStat, len(existing))
	for _, st := range existing {
		known[st.Date] = st
	}

	stats := make([]domain.DailyStat, 0, len(points))
	for _, p := range points {
		if p.XAGUSD == 0 {
			continue
		}
		st := domain.DailyStat{
			Date:   p.Date,
			XAUUSD: p.XAUUSD,
			XAGUSD: p.XAGUSD,
			GSR:    p.XAUUSD / p.XAGUSD,
		}
		if prev, ok := known[p.Date]; ok && prev.USDPLN != nil && prev.XAUPLN != nil && prev.XAGPLN != nil {
			st.USDPLN, st.XAUPLN, st.XAGPLN = prev.USDPLN, prev.XAUPLN, prev.XAGPLN
		} else if fix, ok := s.resolveFixing(ctx, p.Date); ok {
			xau := p.XAUUSD * fix
			xag := p.XAGUSD * fix
			st.USDPLN, st.XAUPLN, st.XAGPLN = &fix, &xau, &xag
		}
		stats = append(stats, st)
	}

	if err := s.stats.UpsertBatch(ctx, stats); err != nil {
		return fmt.Errorf("rebuild stats: upsert: %w", err)
	}
	s.log.Info("daily_stats_rebuilt", zap.Int("rows", len(stats)))
	return nil
}

// resolveFixing finds the USD/PLN fixing for the date, walking back up to the
// configured number of days for the last published fixing. A miss is not an
// error; PLN columns stay empty for the date.
func (s *MetalStatsService) resolveFixing(ctx context.Context, date string) (float64, bool) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return 0, false
	}
	for i := 0; i <= s.fixingBack; i++ {
		ds := domain.FormatDate(d.AddDate(0, 0, -i))
		rate, ok := s.fixingFor(ctx, ds)
		if ok {
			return rate, true
		}
	}
	s.log.Warn("fixing_unresolved", zap.String("date", date), zap.Int("fallback_days", s.fixingBack))
	return 0, false
}

func (s *MetalStatsService) fixingFor(ctx context.Context, date string) (float64, bool) {
	if rate, hit, err := s.fixCache.Get(ctx, date); err == nil && hit {
		return rate, true
	} else if err != nil {
		s.log.Warn("fixing_cache_get_failed", zap.String("date", date), zap.Error(err))
	}
	rate, err := s.fixing.USDPLN(ctx, date)
	if err != nil {
		if !errors.Is(err, ErrNoFixing) {
			s.log.Warn("fixing_fetch_failed", zap.String("date", date), zap.Error(err))
		}
		return 0, false
	}
	if err := s.fixCache.Set(ctx, date, rate); err != nil {
		s.log.Warn("fixing_cache_set_failed", zap.String("date", date), zap.Error(err))
	}
	return rate, true
}
