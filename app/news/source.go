package news

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Transform maps a raw provider response to articles.
type Transform func(body []byte) ([]Article, error)

// Source is a named news provider.
type Source struct {
	Name      string
	Endpoint  string
	Format    string
	Transform Transform
}

var formats = map[string]Transform{
	"cryptopanic":   cryptoPanic,
	"cryptocompare": cryptoCompare,
	"rss2json":      rss2JSON,
	"rss":           rssFeed,
}

// Formats returns names of the supported response formats.
func Formats() []string {
	names := lo.Keys(formats)
	sort.Strings(names)
	return names
}

// TransformFor returns the transform registered for the format.
func TransformFor(format string) (Transform, error) {
	if t, ok := formats[format]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("format %q is not supported", format)
}

// NewSource makes a source for one of the supported formats.
func NewSource(name, endpoint, format string) (Source, error) {
	t, err := TransformFor(format)
	if err != nil {
		return Source{}, fmt.Errorf("source %s: %w", name, err)
	}
	return Source{Name: name, Endpoint: endpoint, Format: format, Transform: t}, nil
}
