package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metalstats-service/internal/domain"

	"go.uber.org/zap"
)

// FetchSpot returns the observation for one day, hitting the provider only
// when the store has no row for (date, base, symbol, source).
func (s *MetalStatsService) FetchSpot(ctx context.Context, date string, metal domain.Metal) (domain.SpotPrice, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return domain.SpotPrice{}, fmt.Errorf("fetch spot: bad date %q: %w", date, err)
	}
	if !domain.SupportedMetal[metal] {
		return domain.SpotPrice{}, domain.ErrUnsupportedMetal
	}

	if s.useCache {
		cached, err := s.prices.Get(ctx, date, s.base, metal, s.source)
		if err == nil {
			s.log.Debug("spot_cache_hit", zap.String("date", date), zap.String("metal", string(metal)))
			return cached, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return domain.SpotPrice{}, err
		}
	}

	p, err := s.spot.Fetch(ctx, date, s.base, metal)
	if err != nil {
		return domain.SpotPrice{}, err
	}
	if p.USDPerOz == nil {
		p.USDPerOz = domain.DeriveUSDPerOz(p.Base, string(p.Symbol), p.Rate)
	}
	if err := s.prices.Upsert(ctx, p); err != nil {
		return domain.SpotPrice{}, err
	}
	s.log.Info("spot_fetched",
		zap.String("date", date),
		zap.String("metal", string(metal)),
		zap.Float64("rate", p.Rate),
	)
	return p, nil
}

// FetchRange walks the inclusive date range one day at a time. A failing day
// is logged and skipped; the first failure is reported after the loop.
func (s *MetalStatsService) FetchRange(ctx context.Context, start, end string, metal domain.Metal) error {
	startDt, err := domain.ParseDate(start)
	if err != nil {
		return fmt.Errorf("fetch range: bad start %q: %w", start, err)
	}
	endDt, err := domain.ParseDate(end)
	if err != nil {
		return fmt.Errorf("fetch range: bad end %q: %w", end, err)
	}
	if endDt.Before(startDt) {
		return fmt.Errorf("fetch range: end %s before start %s", end, start)
	}

	var firstErr error
	for d := startDt; !d.After(endDt); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.FetchSpot(ctx, domain.FormatDate(d), metal); err != nil {
			s.log.Warn("spot_fetch_failed",
				zap.String("date", domain.FormatDate(d)),
				zap.String("metal", string(metal)),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// EnsureUpToDate ingests every missing day up to yesterday for each metal.
func (s *MetalStatsService) EnsureUpToDate(ctx context.Context) error {
	yesterday := s.clock.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	if !s.minDate.IsZero() && yesterday.Before(s.minDate) {
		s.log.Info("nothing_to_ingest", zap.Time("yesterday", yesterday))
		return nil
	}

	for _, metal := range domain.Metals() {
		latest, err := s.prices.MaxDate(ctx, metal)
		if err != nil {
			return fmt.Errorf("ensure up to date: max date for %s: %w", metal, err)
		}
		start := s.minDate
		if latest != "" {
			latestDt, err := domain.ParseDate(latest)
			if err != nil {
				return fmt.Errorf("ensure up to date: bad stored date %q: %w", latest, err)
			}
			start = latestDt.AddDate(0, 0, 1)
			if start.Before(s.minDate) {
				start = s.minDate
			}
		}
		if start.IsZero() || start.After(yesterday) {
			s.log.Info("metal_up_to_date", zap.String("metal", string(metal)))
			continue
		}
		s.log.Info("ingest_range",
			zap.String("metal", string(metal)),
			zap.String("start", domain.FormatDate(start)),
			zap.String("end", domain.FormatDate(yesterday)),
		)
		if err := s.FetchRange(ctx, domain.FormatDate(start), domain.FormatDate(yesterday), metal); err != nil {
			return fmt.Errorf("ensure up to date: %s: %w", metal, err)
		}
	}
	return nil
}

// BackfillUSDPerOz fills the derived USD-per-ounce column on old rows.
func (s *MetalStatsService) BackfillUSDPerOz(ctx context.Context) (int64, error) {
	n, err := s.prices.BackfillUSDPerOz(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("usd_per_oz_backfilled", zap.Int64("rows", n))
	}
	return n, nil
}
