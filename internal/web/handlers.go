package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/segmentio/encoding/json"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/oracle"
)

// maxQueryBytes bounds the oracle request body.
const maxQueryBytes = 4 << 10

// TokenView is a buffered token as served to clients.
type TokenView struct {
	Mint        string    `json:"mint"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	URI         string    `json:"uri,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
	Age         string    `json:"age"`
	CAShort     string    `json:"ca_short"`
	ExplorerURL string    `json:"explorer_url,omitempty"`
}

// TokensResponse is the JSON response for /api/tokens.
type TokensResponse struct {
	Status string      `json:"status"`
	Tokens []TokenView `json:"tokens"`
}

// StatusResponse is the JSON response for /api/status.
type StatusResponse struct {
	State  string `json:"state"`
	Label  string `json:"label"`
	Recent int    `json:"recent"`
}

// OracleRequest is the body of POST /api/oracle.
type OracleRequest struct {
	Query string `json:"query"`
}

// OracleResponse is the JSON response for /api/oracle.
type OracleResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// pagePollInterval is how often the landing page refreshes cards and status.
const pagePollInterval = 5 * time.Second

// pageData feeds the landing page template.
type pageData struct {
	Site        SiteConfig
	State       string
	StatusLabel string
	HeroStatus  string
	Live        bool
	Recent      int
	Tokens      []TokenView
	Placeholder []int
	Capacity    int
	PollMillis  int64
	Welcome     string
}

func (s *Server) tokenViews(tokens []domain.ObservedToken) []TokenView {
	now := s.now()
	views := make([]TokenView, len(tokens))
	for i, t := range tokens {
		views[i] = TokenView{
			Mint:        t.Mint,
			Name:        t.Name,
			Symbol:      t.Symbol,
			URI:         t.URI,
			ObservedAt:  t.ObservedAt,
			Age:         TimeAgo(now, t.ObservedAt),
			CAShort:     FormatCA(t.Mint),
			ExplorerURL: ExplorerURL(t.Mint),
		}
	}
	return views
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	tokens := s.feed.Tokens()
	state := s.feed.State()

	data := pageData{
		Site:        s.site,
		State:       state.String(),
		StatusLabel: StatusLabel(state),
		HeroStatus:  HeroStatus(state),
		Live:        state.IsLive(),
		Recent:      len(tokens),
		Tokens:      s.tokenViews(tokens),
		Capacity:    domain.BufferCapacity,
		PollMillis:  pagePollInterval.Milliseconds(),
		Welcome:     oracle.WelcomeMessage,
	}
	if len(tokens) == 0 {
		data.Placeholder = make([]int, domain.BufferCapacity)
		for i := range data.Placeholder {
			data.Placeholder[i] = i + 1
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Errorw("[http] render page", "err", err, "corr", CorrelationID(r.Context()))
	}
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, TokensResponse{
		Status: s.feed.State().String(),
		Tokens: s.tokenViews(s.feed.Tokens()),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	state := s.feed.State()
	writeJSON(w, http.StatusOK, StatusResponse{
		State:  state.String(),
		Label:  StatusLabel(state),
		Recent: len(s.feed.Tokens()),
	})
}

func (s *Server) handleOracle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req OracleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	reply, err := s.oracle.Ask(r.Context(), req.Query)
	switch {
	case errors.Is(err, oracle.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client went away while the reply was pending
		s.logger.Debugw("[http] oracle query abandoned", "corr", CorrelationID(r.Context()))
		return
	case err != nil:
		s.logger.Errorw("[http] oracle query failed", "err", err, "corr", CorrelationID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "oracle unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, OracleResponse{Reply: reply})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
