package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"

	"github.com/shopspring/decimal"
)

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>MetalStats</title>
</head>
<body>
  <h1>MetalStats</h1>
  <p>Latest fixing date: <strong id="rate-date">{{.Date}}</strong></p>
  <ul>
    <li>XAU/USD: <strong id="rate-xauusd">{{.XAUUSD}}</strong> USD per troy oz</li>
    <li>XAG/USD: <strong id="rate-xagusd">{{.XAGUSD}}</strong> USD per troy oz</li>
    <li>XAU/PLN: <strong id="rate-xaupln">{{.XAUPLN}}</strong> PLN per troy oz</li>
    <li>XAG/PLN: <strong id="rate-xagpln">{{.XAGPLN}}</strong> PLN per troy oz</li>
  </ul>
  <h2>Charts</h2>
  <p>
    <img src="charts/xauusd.png" alt="XAUUSD" />
    <img src="charts/xagusd.png" alt="XAGUSD" />
    <img src="charts/gsr.png" alt="GSR" />
    <img src="charts/overlay.png" alt="Trends overlay" />
  </p>
</body>
</html>
`

var tmpl = template.Must(template.New("index").Parse(indexTemplate))

// Writer renders the static index page with the latest snapshot.
type Writer struct {
	Path string
}

var _ application.SiteRenderer = (*Writer)(nil)

func NewWriter(path string) *Writer { return &Writer{Path: path} }

type indexData struct {
	Date   string
	XAUUSD string
	XAGUSD string
	XAUPLN string
	XAGPLN string
}

func (w *Writer) WriteIndex(snap domain.DailyStat) error {
	data := indexData{
		Date:   snap.Date,
		XAUUSD: money(snap.XAUUSD),
		XAGUSD: money(snap.XAGUSD),
		XAUPLN: moneyPtr(snap.XAUPLN),
		XAGPLN: moneyPtr(snap.XAGPLN),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return writeAtomic(w.Path, buf.Bytes())
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func moneyPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return money(*v)
}

// writeAtomic writes via a temp file and rename so a crashed run never
// leaves a half-written page.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create site dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
