package application

import (
	"context"
	"fmt"

	"metalstats-service/internal/domain"

	"go.uber.org/zap"
)

const (
	styleGold   = "gold"
	styleSilver = "silver"
	styleRatio  = "ratio"
)

// RenderCharts writes the USD charts, the derivative charts, the normalized
// overlay, and (when fixings exist) the PLN charts.
func (s *MetalStatsService) RenderCharts(ctx context.Context) error {
	if s.charts == nil {
		return fmt.Errorf("render charts: no renderer configured")
	}
	stats, err := s.stats.All(ctx)
	if err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("render charts: no daily stats")
	}

	var xau, xag, gsr domain.Series
	var plnDates []string
	var xauPLN, xagPLN, gsrPLN []float64
	for _, st := range stats {
		xau.Dates = append(xau.Dates, st.Date)
		xau.Values = append(xau.Values, st.XAUUSD)
		xag.Dates = append(xag.Dates, st.Date)
		xag.Values = append(xag.Values, st.XAGUSD)
		gsr.Dates = append(gsr.Dates, st.Date)
		gsr.Values = append(gsr.Values, st.GSR)
		if st.XAUPLN != nil && st.XAGPLN != nil {
			plnDates = append(plnDates, st.Date)
			xauPLN = append(xauPLN, *st.XAUPLN)
			xagPLN = append(xagPLN, *st.XAGPLN)
			gsrPLN = append(gsrPLN, st.GSR)
		}
	}

	lines := []struct {
		name string
		plot LinePlot
	}{
		{"xauusd", LinePlot{Title: "XAUUSD (USD per troy oz)", YLabel: "USD / XAU", Style: styleGold, ZeroMin: true, Series: xau}},
		{"xagusd", LinePlot{Title: "XAGUSD (USD per troy oz)", YLabel: "USD / XAG", Style: styleSilver, ZeroMin: true, Series: xag}},
		{"gsr", LinePlot{Title: "GSR (XAUUSD / XAGUSD)", YLabel: "Ratio", Style: styleRatio, Series: gsr}},
		{"dxauusd", LinePlot{Title: "dXAUUSD (day-to-day change)", YLabel: "Δ XAUUSD", Style: styleGold, Series: xau.Diff()}},
		{"dxagusd", LinePlot{Title: "dXAGUSD (day-to-day change)", YLabel: "Δ XAGUSD", Style: styleSilver, Series: xag.Diff()}},
		{"dgsr", LinePlot{Title: "dGSR (day-to-day change)", YLabel: "Δ GSR", Style: styleRatio, Series: gsr.Diff()}},
	}
	for _, l := range lines {
		if err := s.charts.Line(l.name, l.plot); err != nil {
			return fmt.Errorf("render charts: %s: %w", l.name, err)
		}
	}

	overlay := OverlayPlot{
		Title: "Trends overlay (normalized)",
		Lines: []OverlayLine{
			{Label: "XAUUSD", Style: styleGold, Series: xau.Normalize()},
			{Label: "XAGUSD", Style: styleSilver, Series: xag.Normalize()},
			{Label: "GSR", Style: styleRatio, Series: gsr.Normalize()},
		},
	}
	if err := s.charts.Overlay("overlay", overlay); err != nil {
		return fmt.Errorf("render charts: overlay: %w", err)
	}

	if len(plnDates) == 0 {
		s.log.Info("no_pln_data_for_charts")
		return nil
	}
	pXAU := domain.Series{Dates: plnDates, Values: xauPLN}
	pXAG := domain.Series{Dates: plnDates, Values: xagPLN}
	pGSR := domain.Series{Dates: plnDates, Values: gsrPLN}
	plnLines := []struct {
		name string
		plot LinePlot
	}{
		{"xaupln", LinePlot{Title: "XAUPLN (PLN per troy oz)", YLabel: "PLN / XAU", Style: styleGold, ZeroMin: true, Series: pXAU}},
		{"xagpln", LinePlot{Title: "XAGPLN (PLN per troy oz)", YLabel: "PLN / XAG", Style: styleSilver, ZeroMin: true, Series: pXAG}},
	}
	for _, l := range plnLines {
		if err := s.charts.Line(l.name, l.plot); err != nil {
			return fmt.Errorf("render charts: %s: %w", l.name, err)
		}
	}
	overlayPLN := OverlayPlot{
		Title: "Trends overlay PLN (normalized)",
		Lines: []OverlayLine{
			{Label: "XAUPLN", Style: styleGold, Series: pXAU.Normalize()},
			{Label: "XAGPLN", Style: styleSilver, Series: pXAG.Normalize()},
			{Label: "GSR", Style: styleRatio, Series: pGSR.Normalize()},
		},
	}
	if err := s.charts.Overlay("overlay_pln", overlayPLN); err != nil {
		return fmt.Errorf("render charts: overlay_pln: %w", err)
	}
	s.log.Info("charts_rendered", zap.Int("points", len(stats)), zap.Int("pln_points", len(plnDates)))
	return nil
}

// RenderIndex regenerates the static index page from the latest snapshot.
func (s *MetalStatsService) RenderIndex(ctx context.Context) error {
	if s.site == nil {
		return fmt.Errorf("render index: no site renderer configured")
	}
	snap, err := s.stats.Latest(ctx)
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := s.site.WriteIndex(snap); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	s.log.Info("index_rendered", zap.String("date", snap.Date))
	return nil
}
