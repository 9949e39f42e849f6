package application

import (
	"context"
	"testing"

	"metalstats-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func seedJoined(pr *fakePriceRepo, date string, xau, xag float64) {
	pr.store[priceKey(date, "USD", domain.Gold, "metalpriceapi")] = domain.SpotPrice{
		Date: date, Base: "USD", Symbol: domain.Gold, Rate: 1 / xau, USDPerOz: floatPtr(xau), Source: "metalpriceapi",
	}
	pr.store[priceKey(date, "USD", domain.Silver, "metalpriceapi")] = domain.SpotPrice{
		Date: date, Base: "USD", Symbol: domain.Silver, Rate: 1 / xag, USDPerOz: floatPtr(xag), Source: "metalpriceapi",
	}
}

func Test_RebuildDailyStats_DerivesGSRAndPLN(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	seedJoined(pr, "2026-01-05", 2000, 25)
	st := newFakeStatRepo()
	fx := &fakeFixingProvider{fixings: map[string]float64{"2026-01-05": 4.0}}
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, fx, nil)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)

	got := st.store["2026-01-05"]
	require.InDelta(t, 2000.0, got.XAUUSD, 1e-9)
	require.InDelta(t, 25.0, got.XAGUSD, 1e-9)
	require.InDelta(t, 80.0, got.GSR, 1e-9)
	require.NotNil(t, got.USDPLN)
	require.InDelta(t, 4.0, *got.USDPLN, 1e-9)
	require.InDelta(t, 8000.0, *got.XAUPLN, 1e-9)
	require.InDelta(t, 100.0, *got.XAGPLN, 1e-9)
}

func Test_RebuildDailyStats_FixingFallback(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	// Sunday; last fixing published on Friday the 2nd.
	seedJoined(pr, "2026-01-04", 2000, 25)
	st := newFakeStatRepo()
	fx := &fakeFixingProvider{fixings: map[string]float64{"2026-01-02": 4.1}}
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, fx, nil)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)

	got := st.store["2026-01-04"]
	require.NotNil(t, got.USDPLN)
	require.InDelta(t, 4.1, *got.USDPLN, 1e-9)
	require.Equal(t, []string{"2026-01-04", "2026-01-03", "2026-01-02"}, fx.calls)
}

func Test_RebuildDailyStats_FallbackExhausted(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	seedJoined(pr, "2026-01-20", 2000, 25)
	st := newFakeStatRepo()
	fx := &fakeFixingProvider{fixings: map[string]float64{}}
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, fx, nil)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)

	got := st.store["2026-01-20"]
	require.Nil(t, got.USDPLN)
	require.Nil(t, got.XAUPLN)
	require.Nil(t, got.XAGPLN)
	// Requested date plus 7 fallback days, no more.
	require.Len(t, fx.calls, 8)
}

func Test_RebuildDailyStats_ReusesPersistedFixings(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	seedJoined(pr, "2026-01-05", 2000, 25)
	st := newFakeStatRepo()
	st.store["2026-01-05"] = domain.DailyStat{
		Date: "2026-01-05", XAUUSD: 1990, XAGUSD: 24, GSR: 82.9,
		USDPLN: floatPtr(3.9), XAUPLN: floatPtr(7761), XAGPLN: floatPtr(93.6),
	}
	fx := &fakeFixingProvider{fixings: map[string]float64{"2026-01-05": 4.0}}
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, fx, nil)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)
	require.Empty(t, fx.calls)
	// USD columns refreshed from the price store, fixing kept.
	got := st.store["2026-01-05"]
	require.InDelta(t, 2000.0, got.XAUUSD, 1e-9)
	require.InDelta(t, 3.9, *got.USDPLN, 1e-9)
}

func Test_RebuildDailyStats_UsesFixingCache(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	seedJoined(pr, "2026-01-05", 2000, 25)
	seedJoined(pr, "2026-01-06", 2010, 26)
	cache := newMemFixingCache()
	cache.store["2026-01-05"] = 4.2
	fx := &fakeFixingProvider{fixings: map[string]float64{"2026-01-06": 4.3}}
	st := newFakeStatRepo()
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, fx, cache)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)
	require.NotContains(t, fx.calls, "2026-01-05")
	require.InDelta(t, 4.2, *st.store["2026-01-05"].USDPLN, 1e-9)
	// The freshly fetched fixing lands in the cache.
	require.InDelta(t, 4.3, cache.store["2026-01-06"], 1e-9)
}

func Test_RebuildDailyStats_SkipsZeroSilver(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	seedJoined(pr, "2026-01-05", 2000, 25)
	pr.store[priceKey("2026-01-06", "USD", domain.Gold, "metalpriceapi")] = domain.SpotPrice{
		Date: "2026-01-06", Base: "USD", Symbol: domain.Gold, Rate: 0.0005, USDPerOz: floatPtr(2000), Source: "metalpriceapi",
	}
	pr.store[priceKey("2026-01-06", "USD", domain.Silver, "metalpriceapi")] = domain.SpotPrice{
		Date: "2026-01-06", Base: "USD", Symbol: domain.Silver, Rate: 0, USDPerOz: floatPtr(0), Source: "metalpriceapi",
	}
	st := newFakeStatRepo()
	svc := NewMetalStatsService(pr, st, &fakeSpotProvider{}, &fakeFixingProvider{}, nil)

	err := svc.RebuildDailyStats(context.Background())
	require.NoError(t, err)
	require.Contains(t, st.store, "2026-01-05")
	require.NotContains(t, st.store, "2026-01-06")
}

func Test_BackfillUSDPerOz(t *testing.T) {
	t.Parallel()
	pr := newFakePriceRepo()
	pr.store[priceKey("2026-01-05", "USD", domain.Gold, "metalpriceapi")] = domain.SpotPrice{
		Date: "2026-01-05", Base: "USD", Symbol: domain.Gold, Rate: 0.0005, Source: "metalpriceapi",
	}
	svc := NewMetalStatsService(pr, newFakeStatRepo(), &fakeSpotProvider{}, &fakeFixingProvider{}, nil)

	n, err := svc.BackfillUSDPerOz(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	got := pr.store[priceKey("2026-01-05", "USD", domain.Gold, "metalpriceapi")]
	require.NotNil(t, got.USDPerOz)
	require.InDelta(t, 2000.0, *got.USDPerOz, 1e-9)
}
