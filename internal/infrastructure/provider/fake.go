package provider

import (
	"context"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
)

// Ensure fakes implement the provider ports.
var _ application.SpotProvider = (*FakeSpot)(nil)
var _ application.FixingProvider = (*FakeFixing)(nil)

type FakeSpot struct {
	prices map[domain.Metal]float64 // USD per troy oz
}

// NewFakeSpot returns a provider that answers every date with fixed
// USD-per-ounce prices. Rows carry the same source as the real provider;
// the store and the read paths key on it.
func NewFakeSpot(gold, silver float64) *FakeSpot {
	return &FakeSpot{prices: map[domain.Metal]float64{
		domain.Gold:   gold,
		domain.Silver: silver,
	}}
}

func (f *FakeSpot) Fetch(_ context.Context, date, base string, symbol domain.Metal) (domain.SpotPrice, error) {
	var rate float64
	if oz := f.prices[symbol]; oz > 0 {
		rate = 1.0 / oz
	}
	return domain.SpotPrice{
		Date:     date,
		Base:     base,
		Symbol:   symbol,
		Rate:     rate,
		USDPerOz: domain.DeriveUSDPerOz(base, string(symbol), rate),
		Source:   SourceMetalpriceAPI,
		Raw:      `{"success":true,"fake":true}`,
	}, nil
}

type FakeFixing struct {
	rate float64
}

func NewFakeFixing(rate float64) *FakeFixing { return &FakeFixing{rate: rate} }

func (f *FakeFixing) USDPLN(context.Context, string) (float64, error) {
	return f.rate, nil
}
