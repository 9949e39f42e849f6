package httpserver

import (
	"context"
	"sort"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
)

var _ application.PriceRepo = (*memPriceRepo)(nil)
var _ application.StatRepo = (*memStatRepo)(nil)
var _ application.SpotProvider = (*memSpotProvider)(nil)
var _ application.FixingProvider = (*memFixingProvider)(nil)

type memPriceRepo struct {
	store map[string]domain.SpotPrice
}

func priceKey(date, base string, symbol domain.Metal, source string) string {
	return date + "|" + base + "|" + string(symbol) + "|" + source
}

func (m *memPriceRepo) Get(_ context.Context, date, base string, symbol domain.Metal, source string) (domain.SpotPrice, error) {
	p, ok := m.store[priceKey(date, base, symbol, source)]
	if !ok {
		return domain.SpotPrice{}, application.ErrNotFound
	}
	return p, nil
}

func (m *memPriceRepo) Upsert(_ context.Context, p domain.SpotPrice) error {
	if m.store == nil {
		m.store = map[string]domain.SpotPrice{}
	}
	m.store[priceKey(p.Date, p.Base, p.Symbol, p.Source)] = p
	return nil
}

func (m *memPriceRepo) MaxDate(_ context.Context, symbol domain.Metal) (string, error) {
	max := ""
	for _, p := range m.store {
		if p.Symbol == symbol && p.Date > max {
			max = p.Date
		}
	}
	return max, nil
}

func (m *memPriceRepo) BackfillUSDPerOz(_ context.Context) (int64, error) {
	var n int64
	for k, p := range m.store {
		if p.USDPerOz != nil {
			continue
		}
		if v := domain.DeriveUSDPerOz(p.Base, string(p.Symbol), p.Rate); v != nil {
			p.USDPerOz = v
			m.store[k] = p
			n++
		}
	}
	return n, nil
}

func (m *memPriceRepo) Series(_ context.Context, symbol domain.Metal) (domain.Series, error) {
	var prices []domain.SpotPrice
	for _, p := range m.store {
		if p.Symbol == symbol && p.USDPerOz != nil {
			prices = append(prices, p)
		}
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Date < prices[j].Date })
	var s domain.Series
	for _, p := range prices {
		s.Dates = append(s.Dates, p.Date)
		s.Values = append(s.Values, *p.USDPerOz)
	}
	return s, nil
}

func (m *memPriceRepo) JoinedSeries(_ context.Context) ([]application.JoinedPoint, error) {
	gold := map[string]float64{}
	silver := map[string]float64{}
	for _, p := range m.store {
		if p.USDPerOz == nil {
			continue
		}
		switch p.Symbol {
		case domain.Gold:
			gold[p.Date] = *p.USDPerOz
		case domain.Silver:
			silver[p.Date] = *p.USDPerOz
		}
	}
	var out []application.JoinedPoint
	for date, g := range gold {
		if s, ok := silver[date]; ok {
			out = append(out, application.JoinedPoint{Date: date, XAUUSD: g, XAGUSD: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type memStatRepo struct {
	stats map[string]domain.DailyStat
}

func (m *memStatRepo) UpsertBatch(_ context.Context, stats []domain.DailyStat) error {
	if m.stats == nil {
		m.stats = map[string]domain.DailyStat{}
	}
	for _, st := range stats {
		m.stats[st.Date] = st
	}
	return nil
}

func (m *memStatRepo) All(ctx context.Context) ([]domain.DailyStat, error) {
	return m.Range(ctx, "", "")
}

func (m *memStatRepo) Range(_ context.Context, from, to string) ([]domain.DailyStat, error) {
	var out []domain.DailyStat
	for _, st := range m.stats {
		if from != "" && st.Date < from {
			continue
		}
		if to != "" && st.Date > to {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memStatRepo) Latest(ctx context.Context) (domain.DailyStat, error) {
	all, err := m.All(ctx)
	if err != nil {
		return domain.DailyStat{}, err
	}
	if len(all) == 0 {
		return domain.DailyStat{}, application.ErrNotFound
	}
	return all[len(all)-1], nil
}

type memSpotProvider struct{}

func (memSpotProvider) Fetch(_ context.Context, date, base string, symbol domain.Metal) (domain.SpotPrice, error) {
	rate := 0.0005
	if symbol == domain.Silver {
		rate = 0.04
	}
	return domain.SpotPrice{
		Date:     date,
		Base:     base,
		Symbol:   symbol,
		Rate:     rate,
		USDPerOz: domain.DeriveUSDPerOz(base, string(symbol), rate),
		Source:   "metalpriceapi",
	}, nil
}

type memFixingProvider struct{}

func (memFixingProvider) USDPLN(context.Context, string) (float64, error) { return 4.0, nil }

// NewInMemoryService wires the service to in-memory adapters. Useful for
// router tests and local smoke runs without a database.
func NewInMemoryService() (*application.MetalStatsService, *memPriceRepo, *memStatRepo) {
	pr := &memPriceRepo{store: map[string]domain.SpotPrice{}}
	sr := &memStatRepo{stats: map[string]domain.DailyStat{}}
	svc := application.NewMetalStatsService(pr, sr, memSpotProvider{}, memFixingProvider{}, application.NoopFixingCache{})
	return svc, pr, sr
}
