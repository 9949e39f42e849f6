package site_test

import (
	"os"
	"path/filepath"
	"testing"

	"metalstats-service/internal/domain"
	"metalstats-service/internal/infrastructure/site"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestWriteIndex(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "index.html")
	w := site.NewWriter(path)

	err := w.WriteIndex(domain.DailyStat{
		Date:   "2026-01-07",
		XAUUSD: 2012.345,
		XAGUSD: 25.5,
		GSR:    78.9,
		USDPLN: floatPtr(4.02),
		XAUPLN: floatPtr(8089.63),
		XAGPLN: floatPtr(102.51),
	})
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(html), `<strong id="rate-date">2026-01-07</strong>`)
	require.Contains(t, string(html), `<strong id="rate-xauusd">2012.35</strong>`)
	require.Contains(t, string(html), `<strong id="rate-xagusd">25.50</strong>`)
	require.Contains(t, string(html), `<strong id="rate-xaupln">8089.63</strong>`)
}

func TestWriteIndex_MissingPLN(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "index.html")
	w := site.NewWriter(path)

	err := w.WriteIndex(domain.DailyStat{Date: "2026-01-07", XAUUSD: 2000, XAGUSD: 25, GSR: 80})
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(html), `<strong id="rate-xaupln">—</strong>`)
	require.Contains(t, string(html), `<strong id="rate-xagpln">—</strong>`)
}

func TestWriteIndex_Overwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "index.html")
	w := site.NewWriter(path)

	require.NoError(t, w.WriteIndex(domain.DailyStat{Date: "2026-01-06", XAUUSD: 1990, XAGUSD: 24, GSR: 82.9}))
	require.NoError(t, w.WriteIndex(domain.DailyStat{Date: "2026-01-07", XAUUSD: 2000, XAGUSD: 25, GSR: 80}))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(html), "2026-01-07")
	require.NotContains(t, string(html), "2026-01-06")
}
