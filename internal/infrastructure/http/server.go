package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
)

type Server struct {
	svc  *application.MetalStatsService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.MetalStatsService) *Server { return &Server{svc: svc} }

// WithPing wires the readiness probe to the storage layer.
func (s *Server) WithPing(ping func(ctx context.Context) error) *Server {
	s.ping = ping
	return s
}

type spotResponse struct {
	Date     string   `json:"date"`
	Base     string   `json:"base"`
	Symbol   string   `json:"symbol"`
	Rate     float64  `json:"rate"`
	USDPerOz *float64 `json:"usd_per_oz,omitempty"`
	Source   string   `json:"source"`
}

type statResponse struct {
	Date   string   `json:"date"`
	XAUUSD float64  `json:"xauusd"`
	XAGUSD float64  `json:"xagusd"`
	GSR    float64  `json:"gsr"`
	USDPLN *float64 `json:"usdpln,omitempty"`
	XAUPLN *float64 `json:"xaupln,omitempty"`
	XAGPLN *float64 `json:"xagpln,omitempty"`
}

func (s *Server) GetLastSpot(w http.ResponseWriter, r *http.Request) {
	metal := r.URL.Query().Get("metal")
	if metal == "" {
		writeError(w, http.StatusBadRequest, "metal is required")
		return
	}
	p, err := s.svc.LastSpot(r.Context(), metal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spotResponse{
		Date:     p.Date,
		Base:     p.Base,
		Symbol:   string(p.Symbol),
		Rate:     p.Rate,
		USDPerOz: p.USDPerOz,
		Source:   p.Source,
	})
}

func (s *Server) GetLatestStat(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.LatestSnapshot(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatResponse(st))
}

func (s *Server) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	stats, err := s.svc.History(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]statResponse, 0, len(stats))
	for _, st := range stats {
		out = append(out, toStatResponse(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func toStatResponse(st domain.DailyStat) statResponse {
	return statResponse{
		Date:   st.Date,
		XAUUSD: st.XAUUSD,
		XAGUSD: st.XAGUSD,
		GSR:    st.GSR,
		USDPLN: st.USDPLN,
		XAUPLN: st.XAUPLN,
		XAGPLN: st.XAGPLN,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrBadRequest), errors.Is(err, domain.ErrUnsupportedMetal):
		writeError(w, http.StatusBadRequest, "bad request")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
