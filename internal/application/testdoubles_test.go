package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"metalstats-service/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

func priceKey(date, base string, symbol domain.Metal, source string) string {
	return date + "|" + base + "|" + string(symbol) + "|" + source
}

type fakePriceRepo struct {
	store map[string]domain.SpotPrice
	err   error
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{store: map[string]domain.SpotPrice{}}
}

func (f *fakePriceRepo) Get(_ context.Context, date, base string, symbol domain.Metal, source string) (domain.SpotPrice, error) {
	if f.err != nil {
		return domain.SpotPrice{}, f.err
	}
	p, ok := f.store[priceKey(date, base, symbol, source)]
	if !ok {
		return domain.SpotPrice{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p domain.SpotPrice) error {
	if f.err != nil {
		return f.err
	}
	f.store[priceKey(p.Date, p.Base, p.Symbol, p.Source)] = p
	return nil
}

func (f *fakePriceRepo) MaxDate(_ context.Context, symbol domain.Metal) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	max := ""
	for _, p := range f.store {
		if p.Symbol == symbol && p.Date > max {
			max = p.Date
		}
	}
	return max, nil
}

func (f *fakePriceRepo) BackfillUSDPerOz(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for k, p := range f.store {
		if p.USDPerOz == nil {
			if v := domain.DeriveUSDPerOz(p.Base, string(p.Symbol), p.Rate); v != nil {
				p.USDPerOz = v
				f.store[k] = p
				n++
			}
		}
	}
	return n, nil
}

func (f *fakePriceRepo) Series(_ context.Context, symbol domain.Metal) (domain.Series, error) {
	if f.err != nil {
		return domain.Series{}, f.err
	}
	var rows []domain.SpotPrice
	for _, p := range f.store {
		if p.Symbol == symbol && p.USDPerOz != nil {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	var out domain.Series
	for _, p := range rows {
		out.Dates = append(out.Dates, p.Date)
		out.Values = append(out.Values, *p.USDPerOz)
	}
	return out, nil
}

func (f *fakePriceRepo) JoinedSeries(_ context.Context) ([]JoinedPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	gold := map[string]float64{}
	silver := map[string]float64{}
	for _, p := range f.store {
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
	var out []JoinedPoint
	for d, g := range gold {
		if s, ok := silver[d]; ok {
			out = append(out, JoinedPoint{Date: d, XAUUSD: g, XAGUSD: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeStatRepo struct {
	store map[string]domain.DailyStat
	err   error
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{store: map[string]domain.DailyStat{}}
}

func (f *fakeStatRepo) UpsertBatch(_ context.Context, stats []domain.DailyStat) error {
	if f.err != nil {
		return f.err
	}
	for _, st := range stats {
		f.store[st.Date] = st
	}
	return nil
}

func (f *fakeStatRepo) All(_ context.Context) ([]domain.DailyStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.DailyStat
	for _, st := range f.store {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStatRepo) Range(_ context.Context, from, to string) ([]domain.DailyStat, error) {
	all, err := f.All(context.Background())
	if err != nil {
		return nil, err
	}
	var out []domain.DailyStat
	for _, st := range all {
		if from != "" && st.Date < from {
			continue
		}
		if to != "" && st.Date > to {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeStatRepo) Latest(_ context.Context) (domain.DailyStat, error) {
	all, err := f.All(context.Background())
	if err != nil {
		return domain.DailyStat{}, err
	}
	if len(all) == 0 {
		return domain.DailyStat{}, ErrNotFound
	}
	return all[len(all)-1], nil
}

type fakeSpotProvider struct {
	rates map[string]float64 // date -> metal per USD rate
	calls int
	err   error
}

func (f *fakeSpotProvider) Fetch(_ context.Context, date, base string, symbol domain.Metal) (domain.SpotPrice, error) {
	f.calls++
	if f.err != nil {
		return domain.SpotPrice{}, f.err
	}
	rate, ok := f.rates[date]
	if !ok {
		return domain.SpotPrice{}, errors.New("provider: no rate")
	}
	return domain.SpotPrice{
		Date:   date,
		Base:   base,
		Symbol: symbol,
		Rate:   rate,
		Source: "metalpriceapi",
		Raw:    `{"success":true}`,
	}, nil
}

type fakeFixingProvider struct {
	fixings map[string]float64
	calls   []string
}

func (f *fakeFixingProvider) USDPLN(_ context.Context, date string) (float64, error) {
	f.calls = append(f.calls, date)
	if v, ok := f.fixings[date]; ok {
		return v, nil
	}
	return 0, ErrNoFixing
}

type memFixingCache struct {
	store map[string]float64
	hits  int
}

func newMemFixingCache() *memFixingCache { return &memFixingCache{store: map[string]float64{}} }

func (c *memFixingCache) Get(_ context.Context, date string) (float64, bool, error) {
	v, ok := c.store[date]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *memFixingCache) Set(_ context.Context, date string, rate float64) error {
	c.store[date] = rate
	return nil
}

type fakeChartRenderer struct {
	lines    map[string]LinePlot
	overlays map[string]OverlayPlot
	err      error
}

func newFakeChartRenderer() *fakeChartRenderer {
	return &fakeChartRenderer{lines: map[string]LinePlot{}, overlays: map[string]OverlayPlot{}}
}

func (f *fakeChartRenderer) Line(name string, p LinePlot) error {
	if f.err != nil {
		return f.err
	}
	f.lines[name] = p
	return nil
}

func (f *fakeChartRenderer) Overlay(name string, p OverlayPlot) error {
	if f.err != nil {
		return f.err
	}
	f.overlays[name] = p
	return nil
}

type fakeSiteRenderer struct {
	last *domain.DailyStat
	err  error
}

func (f *fakeSiteRenderer) WriteIndex(snap domain.DailyStat) error {
	if f.err != nil {
		return f.err
	}
	f.last = &snap
	return nil
}

type fakePublisher struct {
	messages []string
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, msg string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func floatPtr(v float64) *float64 { return &v }
