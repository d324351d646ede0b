// Package search resolves a query against the term dictionary, then against coin lookups.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/store"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

var (
	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotFound is returned when neither a term nor a coin matches the query.
	ErrNotFound = errors.New("no term or coin found")
	// ErrUnavailable is returned when no term matches and coin lookups failed upstream.
	ErrUnavailable = errors.New("coin data unavailable")
)

//go:generate moq -out mock_dictionary.go . Dictionary

// Dictionary looks up terms.
type Dictionary interface {
	GetTerm(ctx context.Context, word string) (store.Term, error)
}

//go:generate moq -out mock_coins.go . Coins

// Coins looks up coins by id.
type Coins interface {
	Coin(ctx context.Context, id string) (market.Coin, error)
}

// Result is either a term or a coin.
type Result struct {
	Query string       `json:"query"`
	Term  *store.Term  `json:"term,omitempty"`
	Coin  *market.Coin `json:"coin,omitempty"`
}

// Service searches terms and coins.
type Service struct {
	Log        *slog.Logger
	Dictionary Dictionary
	Coins      Coins
	// CoinMap maps ticker symbols to coin ids, e.g. btc -> bitcoin.
	CoinMap map[string]string
}

// Search normalizes the query and looks it up in the dictionary first.
// Otherwise the mapped coin id and the query itself are tried as coin ids.
// ErrNotFound is returned only when every coin lookup answered "not found".
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	term, err := s.Dictionary.GetTerm(ctx, q)
	switch {
	case err == nil:
		return Result{Query: q, Term: &term}, nil
	case !errors.Is(err, store.ErrNotFound):
		s.warn(ctx, "failed to look up term", q, err)
	}

	var upstreamErr error
	for _, id := range Candidates(q, s.CoinMap) {
		coin, err := s.Coins.Coin(ctx, id)
		if err == nil {
			return Result{Query: q, Coin: &coin}, nil
		}

		if !errors.Is(err, market.ErrCoinNotFound) {
			s.warn(ctx, "failed to look up coin", id, err)
			upstreamErr = err
		}
	}

	if upstreamErr != nil {
		return Result{}, fmt.Errorf("search %q: %w: %w", q, ErrUnavailable, upstreamErr)
	}

	return Result{}, fmt.Errorf("search %q: %w", q, ErrNotFound)
}

// Candidates returns coin ids to try for the normalized query: the mapped id first,
// then the query itself, with spaces replaced by dashes.
func Candidates(q string, coinMap map[string]string) []string {
	var ids []string
	if id, ok := coinMap[q]; ok {
		ids = append(ids, id)
	}
	ids = append(ids, strings.ReplaceAll(q, " ", "-"))
	return lo.Uniq(ids)
}

func (s *Service) warn(ctx context.Context, msg, q string, err error) {
	if s.Log == nil {
		return
	}
	s.Log.WarnCtx(ctx, msg, slog.String("query", q), slog.Any("err", err))
}
