// Package store contains the persistent state of the dashboard:
// the term dictionary and rendered snapshots.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Interface defines methods for store
type Interface interface {
	GetTerm(ctx context.Context, word string) (Term, error)
	PutTerm(ctx context.Context, t Term) error
	ListTerms(ctx context.Context) ([]string, error)

	GetSnapshot(ctx context.Context, key string) (string, error)
	PutSnapshot(ctx context.Context, key, content string) error
}

// Term is a dictionary entry.
type Term struct {
	Word       string `json:"term"`
	Definition string `json:"definition"`
}

// DefaultTerms seed an empty dictionary.
var DefaultTerms = []Term{
	{Word: "bitcoin", Definition: "Bitcoin is a decentralized digital currency."},
	{Word: "wallet", Definition: "A crypto wallet stores your private keys securely."},
	{Word: "blockchain", Definition: "A distributed ledger technology for recording transactions."},
	{Word: "defi", Definition: "Decentralized finance, financial systems built on blockchain."},
	{Word: "nft", Definition: "Non-fungible token, unique digital asset verified on a blockchain."},
}
