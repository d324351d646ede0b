package search

import (
	"context"
	"errors"
	"testing"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noTerms() *DictionaryMock {
	return &DictionaryMock{GetTermFunc: func(context.Context, string) (store.Term, error) {
		return store.Term{}, store.ErrNotFound
	}}
}

func TestService_Search_TermFirst(t *testing.T) {
	coins := &CoinsMock{}
	svc := &Service{
		Dictionary: &DictionaryMock{GetTermFunc: func(_ context.Context, word string) (store.Term, error) {
			assert.Equal(t, "wallet", word)
			return store.Term{Word: "wallet", Definition: "keeps keys"}, nil
		}},
		Coins: coins,
	}

	res, err := svc.Search(context.Background(), "  Wallet ")
	require.NoError(t, err)
	require.NotNil(t, res.Term)
	assert.Equal(t, "keeps keys", res.Term.Definition)
	assert.Nil(t, res.Coin)
	assert.Empty(t, coins.CoinCalls())
}

func TestService_Search_MappedCoin(t *testing.T) {
	coins := &CoinsMock{CoinFunc: func(_ context.Context, id string) (market.Coin, error) {
		if id == "ripple" {
			return market.Coin{ID: "ripple", Symbol: "xrp", Name: "XRP", Price: 0.6, Rank: 7}, nil
		}
		return market.Coin{}, market.ErrCoinNotFound
	}}
	svc := &Service{Dictionary: noTerms(), Coins: coins, CoinMap: map[string]string{"xrp": "ripple"}}

	res, err := svc.Search(context.Background(), "XRP")
	require.NoError(t, err)
	require.NotNil(t, res.Coin)
	assert.Equal(t, "XRP", res.Coin.Name)
	require.Len(t, coins.CoinCalls(), 1)
	assert.Equal(t, "ripple", coins.CoinCalls()[0].ID)
}

func TestService_Search_FallsBackToQueryAsID(t *testing.T) {
	coins := &CoinsMock{CoinFunc: func(_ context.Context, id string) (market.Coin, error) {
		switch id {
		case "shiba-inu":
			return market.Coin{ID: "shiba-inu", Name: "Shiba Inu"}, nil
		case "broken":
			return market.Coin{}, errors.New("rate limited")
		}
		return market.Coin{}, market.ErrCoinNotFound
	}}
	svc := &Service{Dictionary: noTerms(), Coins: coins, CoinMap: map[string]string{"shiba inu": "broken"}}

	res, err := svc.Search(context.Background(), "Shiba Inu")
	require.NoError(t, err)
	assert.Equal(t, "shiba-inu", res.Coin.ID)

	var ids []string
	for _, c := range coins.CoinCalls() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"broken", "shiba-inu"}, ids)
}

func TestService_Search_NotFound(t *testing.T) {
	svc := &Service{
		Dictionary: &DictionaryMock{GetTermFunc: func(context.Context, string) (store.Term, error) {
			return store.Term{}, errors.New("db is closed")
		}},
		Coins: &CoinsMock{CoinFunc: func(context.Context, string) (market.Coin, error) {
			return market.Coin{}, market.ErrCoinNotFound
		}},
	}

	_, err := svc.Search(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestService_Search_Unavailable(t *testing.T) {
	rateLimited := errors.New("status 429 too many requests")
	coins := &CoinsMock{CoinFunc: func(context.Context, string) (market.Coin, error) {
		return market.Coin{}, rateLimited
	}}
	svc := &Service{Dictionary: noTerms(), Coins: coins, CoinMap: map[string]string{"btc": "bitcoin"}}

	_, err := svc.Search(context.Background(), "btc")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, rateLimited)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Len(t, coins.CoinCalls(), 2, "every candidate is tried")
}

func TestCandidates(t *testing.T) {
	m := map[string]string{"btc": "bitcoin", "bitcoin": "bitcoin"}
	assert.Equal(t, []string{"bitcoin", "btc"}, Candidates("btc", m))
	assert.Equal(t, []string{"bitcoin"}, Candidates("bitcoin", m))
	assert.Equal(t, []string{"the-open-network"}, Candidates("the open network", m))
}
