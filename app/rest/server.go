// Package rest serves the dashboard state, the term dictionary and the search over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/search"
	"github.com/Semior001/cryptodash/app/store"
	"golang.org/x/exp/slog"
)

// Terms is the term dictionary.
type Terms interface {
	GetTerm(ctx context.Context, word string) (store.Term, error)
	PutTerm(ctx context.Context, t store.Term) error
	ListTerms(ctx context.Context) ([]string, error)
}

// Searcher resolves search queries.
type Searcher interface {
	Search(ctx context.Context, query string) (search.Result, error)
}

// Server is the http server of the dashboard.
type Server struct {
	Log       *slog.Logger
	Addr      string
	Terms     Terms
	Coins     search.Coins
	Searcher  Searcher
	Dashboard *Dashboard
	Timeout   time.Duration
}

// Run starts the server and shuts it down when the context is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.Log.Handler(), slog.LevelWarn),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Log.Warn("failed to shutdown http server", slog.Any("err", err))
		}
	}()

	s.Log.Info("starting http server", slog.String("addr", s.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return ctx.Err()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })

	mux.HandleFunc("GET /term/{word}", s.getTerm)
	mux.HandleFunc("GET /all_terms", s.listTerms)
	mux.HandleFunc("POST /add_term", s.addTerm)
	mux.HandleFunc("GET /crypto/{coin}", s.getCoin)
	mux.HandleFunc("GET /search", s.search)

	mux.HandleFunc("GET /fragments/news", s.newsFragment)
	mux.HandleFunc("GET /fragments/market", s.marketFragment)
	mux.HandleFunc("GET /api/news", s.newsJSON)
	mux.HandleFunc("GET /api/market", s.marketJSON)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return Wrap(mux, RequestID, Logger(s.Log), Recover(s.Log), Timeout(timeout))
}

// noDefinition is the definition of an unknown term.
const noDefinition = "No definition found."

// GET /term/{word}
func (s *Server) getTerm(w http.ResponseWriter, r *http.Request) {
	word := strings.ToLower(strings.TrimSpace(r.PathValue("word")))

	t, err := s.Terms.GetTerm(r.Context(), word)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, store.Term{Word: word, Definition: noDefinition})
	case err != nil:
		s.Log.WarnCtx(r.Context(), "failed to get term", slog.String("word", word), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to get term")
	default:
		writeJSON(w, http.StatusOK, t)
	}
}

// GET /all_terms
func (s *Server) listTerms(w http.ResponseWriter, r *http.Request) {
	words, err := s.Terms.ListTerms(r.Context())
	if err != nil {
		s.Log.WarnCtx(r.Context(), "failed to list terms", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to list terms")
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// POST /add_term
func (s *Server) addTerm(w http.ResponseWriter, r *http.Request) {
	var req store.Term
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Word = strings.ToLower(strings.TrimSpace(req.Word))
	req.Definition = strings.TrimSpace(req.Definition)
	if req.Word == "" || req.Definition == "" {
		writeError(w, http.StatusBadRequest, "Missing term or definition")
		return
	}

	if err := s.Terms.PutTerm(r.Context(), req); err != nil {
		s.Log.WarnCtx(r.Context(), "failed to put term", slog.String("word", req.Word), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to add term")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Added %s to dictionary!", req.Word)})
}

// coinInfo is a short description of a coin.
type coinInfo struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Rank   int     `json:"rank"`
}

// GET /crypto/{coin}
func (s *Server) getCoin(w http.ResponseWriter, r *http.Request) {
	c, err := s.Coins.Coin(r.Context(), r.PathValue("coin"))
	switch {
	case errors.Is(err, market.ErrCoinNotFound):
		writeError(w, http.StatusNotFound, "Coin not found")
	case err != nil:
		s.Log.WarnCtx(r.Context(), "failed to get coin", slog.Any("err", err))
		writeError(w, http.StatusBadGateway, "Failed to fetch coin data")
	default:
		writeJSON(w, http.StatusOK, coinInfo{
			Name:   c.Name,
			Symbol: strings.ToUpper(c.Symbol),
			Price:  c.Price,
			Rank:   c.Rank,
		})
	}
}

// GET /search?q=
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	res, err := s.Searcher.Search(r.Context(), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "Enter a term or coin!")
	case errors.Is(err, search.ErrNotFound):
		writeError(w, http.StatusNotFound, "No term or coin found!")
	case errors.Is(err, search.ErrUnavailable):
		s.Log.WarnCtx(r.Context(), "coin lookup failed", slog.Any("err", err))
		writeError(w, http.StatusBadGateway, "Couldn't fetch coin data. Try again later.")
	case err != nil:
		s.Log.WarnCtx(r.Context(), "search failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "search failed")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /fragments/news
func (s *Server) newsFragment(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, s.Dashboard.News().HTML)
}

// GET /fragments/market
func (s *Server) marketFragment(w http.ResponseWriter, r *http.Request) {
	html, err := market.Grid(s.Dashboard.Board.Coins())
	if err != nil {
		s.Log.WarnCtx(r.Context(), "failed to render market grid", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to render market")
		return
	}
	writeHTML(w, html)
}

// GET /api/news
func (s *Server) newsJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Dashboard.News())
}

// GET /api/market
func (s *Server) marketJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Coins   []market.Coin `json:"coins"`
		Updated time.Time     `json:"updated"`
	}{
		Coins:   s.Dashboard.Board.Coins(),
		Updated: s.Dashboard.Board.Updated(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
