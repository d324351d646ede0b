package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	bolt "go.etcd.io/bbolt"
)

const (
	termsBktName     = "terms"
	snapshotsBktName = "snapshots"
)

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage in the given directory.
// An empty dictionary is filled with DefaultTerms.
func NewBolt(dir string) (*Bolt, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("make dir %s: %w", dir, err)
	}

	db, err := bolt.Open(filepath.Join(dir, "cryptodash.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{termsBktName, snapshotsBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}

		terms := tx.Bucket([]byte(termsBktName))
		if k, _ := terms.Cursor().First(); k != nil {
			return nil
		}

		for _, t := range DefaultTerms {
			if err := terms.Put([]byte(t.Word), []byte(t.Definition)); err != nil {
				return fmt.Errorf("seed term %s: %w", t.Word, err)
			}
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// GetTerm returns the definition of the word, words are case-insensitive.
func (b *Bolt) GetTerm(_ context.Context, word string) (t Term, err error) {
	word = normalizeWord(word)

	err = b.db.View(func(tx *bolt.Tx) error {
		bts := tx.Bucket([]byte(termsBktName)).Get([]byte(word))
		if bts == nil {
			return ErrNotFound
		}

		t = Term{Word: word, Definition: string(bts)}
		return nil
	})
	if err != nil {
		return Term{}, fmt.Errorf("view storage: %w", err)
	}

	return t, nil
}

// PutTerm adds or replaces the definition of the word.
func (b *Bolt) PutTerm(_ context.Context, t Term) error {
	word := normalizeWord(t.Word)
	if word == "" {
		return fmt.Errorf("empty term")
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(termsBktName)).Put([]byte(word), []byte(t.Definition)); err != nil {
			return fmt.Errorf("put term to storage: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// ListTerms returns all known words in lexical order.
func (b *Bolt) ListTerms(context.Context) ([]string, error) {
	result := []string{}
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(termsBktName)).ForEach(func(k, _ []byte) error {
			result = append(result, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}
	return result, nil
}

// GetSnapshot returns the content stored under the key.
func (b *Bolt) GetSnapshot(_ context.Context, key string) (content string, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bts := tx.Bucket([]byte(snapshotsBktName)).Get([]byte(key))
		if bts == nil {
			return ErrNotFound
		}

		content = string(bts)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("view storage: %w", err)
	}

	return content, nil
}

// PutSnapshot overwrites the content stored under the key.
func (b *Bolt) PutSnapshot(_ context.Context, key, content string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(snapshotsBktName)).Put([]byte(key), []byte(content)); err != nil {
			return fmt.Errorf("put snapshot %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }

func normalizeWord(w string) string { return strings.ToLower(strings.TrimSpace(w)) }
