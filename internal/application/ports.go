package application

import (
	"context"

	"metalstats-service/internal/domain"
)

type PriceRepo interface {
	Get(ctx context.Context, date, base string, symbol domain.Metal, source string) (domain.SpotPrice, error)
	Upsert(ctx context.Context, p domain.SpotPrice) error
	// MaxDate returns the latest persisted date for the symbol, "" when none.
	MaxDate(ctx context.Context, symbol domain.Metal) (string, error)
	// BackfillUSDPerOz fills the derived column where it is NULL but
	// derivable from the raw rate. Returns the number of updated rows.
	BackfillUSDPerOz(ctx context.Context) (int64, error)
	Series(ctx context.Context, symbol domain.Metal) (domain.Series, error)
	// JoinedSeries returns dates present in both metals' USD-per-ounce
	// histories, ascending.
	JoinedSeries(ctx context.Context) ([]JoinedPoint, error)
}

type JoinedPoint struct {
	Date   string
	XAUUSD float64
	XAGUSD float64
}

type StatRepo interface {
	UpsertBatch(ctx context.Context, stats []domain.DailyStat) error
	All(ctx context.Context) ([]domain.DailyStat, error)
	Range(ctx context.Context, from, to string) ([]domain.DailyStat, error)
	// Latest returns the most recent stat with both USD prices present.
	Latest(ctx context.Context) (domain.DailyStat, error)
}

type SpotProvider interface {
	Fetch(ctx context.Context, date, base string, symbol domain.Metal) (domain.SpotPrice, error)
}

// FixingProvider resolves the official USD/PLN fixing for a date.
// Implementations return ErrNoFixing for non-trading days.
type FixingProvider interface {
	USDPLN(ctx context.Context, date string) (float64, error)
}

// FixingCache is a shared short-lived cache of resolved fixings.
type FixingCache interface {
	Get(ctx context.Context, date string) (float64, bool, error)
	Set(ctx context.Context, date string, rate float64) error
}

// NoopFixingCache never hits; used when Redis is disabled.
type NoopFixingCache struct{}

func (NoopFixingCache) Get(context.Context, string) (float64, bool, error) { return 0, false, nil }
func (NoopFixingCache) Set(context.Context, string, float64) error         { return nil }

type LinePlot struct {
	Title   string
	YLabel  string
	Style   string // "gold", "silver" or "ratio"
	ZeroMin bool
	Series  domain.Series
}

type OverlayLine struct {
	Label  string
	Style  string
	Series domain.Series
}

type OverlayPlot struct {
	Title string
	Lines []OverlayLine
}

// ChartRenderer writes chart images into its configured output directory.
// The name argument is the file stem without extension.
type ChartRenderer interface {
	Line(name string, p LinePlot) error
	Overlay(name string, p OverlayPlot) error
}

// SiteRenderer regenerates the static index page from the latest snapshot.
type SiteRenderer interface {
	WriteIndex(snap domain.DailyStat) error
}

// Publisher syncs generated artifacts to the remote. A clean worktree is a
// no-op.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

// NoopPublisher is used when publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string) error { return nil }
