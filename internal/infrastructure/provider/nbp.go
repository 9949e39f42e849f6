package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
	"metalstats-service/internal/infrastructure/httpx"
)

// NBPProvider resolves the National Bank of Poland table-A USD/PLN fixing.
type NBPProvider struct {
	BaseURL string
	Client  *http.Client
}

var _ application.FixingProvider = (*NBPProvider)(nil)

type nbpRatesResp struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string  `json:"no"`
		EffectiveDate string  `json:"effectiveDate"`
		Mid           float64 `json:"mid"`
	} `json:"rates"`
}

func (p *NBPProvider) USDPLN(ctx context.Context, date string) (float64, error) {
	if p.BaseURL == "" {
		return 0, errors.New("nbp: missing configuration")
	}
	if _, err := domain.ParseDate(date); err != nil {
		return 0, fmt.Errorf("nbp: invalid date %q: %w", date, err)
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return 0, fmt.Errorf("nbp: invalid base url: %w", err)
	}
	u.Path = "/api/exchangerates/rates/a/usd/" + date + "/"
	q := u.Query()
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("nbp: create request: %w", err)
	}

	client := &httpx.Client{
		HTTP: p.Client,
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "MetalStats/1.0",
		},
	}
	var body nbpRatesResp
	if err := client.DoJSON(ctx, req, &body); err != nil {
		// NBP answers 404 for dates without a published fixing.
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return 0, application.ErrNoFixing
		}
		return 0, fmt.Errorf("nbp: %w", err)
	}
	if len(body.Rates) == 0 {
		return 0, application.ErrNoFixing
	}
	return body.Rates[0].Mid, nil
}
