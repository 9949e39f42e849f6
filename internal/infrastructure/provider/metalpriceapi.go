package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
	"metalstats-service/internal/infrastructure/httpx"
)

// Cloudflare in front of the API rejects Go's default UA.
const browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

const SourceMetalpriceAPI = "metalpriceapi"

type MetalpriceAPIProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ application.SpotProvider = (*MetalpriceAPIProvider)(nil)

type mpHistoricalResp struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

func (p *MetalpriceAPIProvider) Fetch(ctx context.Context, date, base string, symbol domain.Metal) (domain.SpotPrice, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return domain.SpotPrice{}, errors.New("metalpriceapi: missing configuration")
	}
	if !domain.SupportedMetal[symbol] {
		return domain.SpotPrice{}, domain.ErrUnsupportedMetal
	}
	if _, err := domain.ParseDate(date); err != nil {
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: invalid date %q: %w", date, err)
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: invalid base url: %w", err)
	}
	// Historical endpoint is {base}/v1/{date}; the base URL may carry a
	// path prefix (e.g. behind a proxy).
	u = u.JoinPath("v1", date)
	q := u.Query()
	q.Set("api_key", p.APIKey)
	q.Set("base", base)
	q.Set("currencies", string(symbol))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: create request: %w", err)
	}

	client := &httpx.Client{
		HTTP: p.Client,
		Headers: map[string]string{
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
			"User-Agent":      browserUA,
			"X-API-Key":       p.APIKey,
		},
	}
	var body mpHistoricalResp
	if err := client.DoJSON(ctx, req, &body); err != nil {
		// A 4xx still carries the provider envelope; prefer its message.
		var se *httpx.StatusError
		if errors.As(err, &se) && body.Error != nil {
			return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: %d %s", body.Error.Code, body.Error.Info)
		}
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: %w", err)
	}
	if !body.Success {
		if body.Error != nil {
			return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: %d %s", body.Error.Code, body.Error.Info)
		}
		return domain.SpotPrice{}, errors.New("metalpriceapi: unsuccessful response")
	}

	rate, ok := extractRate(body.Rates, base, string(symbol))
	if !ok {
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: missing rate for %s", symbol)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return domain.SpotPrice{}, fmt.Errorf("metalpriceapi: marshal raw: %w", err)
	}

	return domain.SpotPrice{
		Date:     date,
		Base:     base,
		Symbol:   symbol,
		Rate:     rate,
		USDPerOz: domain.DeriveUSDPerOz(base, string(symbol), rate),
		Source:   SourceMetalpriceAPI,
		Raw:      string(raw),
	}, nil
}

// extractRate accepts both plain symbol keys and BASE-prefixed keys
// ("XAU" and "USDXAU") since the API has served both shapes.
func extractRate(rates map[string]float64, base, symbol string) (float64, bool) {
	if v, ok := rates[symbol]; ok {
		return v, true
	}
	v, ok := rates[base+symbol]
	return v, ok
}
