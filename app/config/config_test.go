package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	require.NoError(t, validate(cfg))

	names := make([]string, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"cryptopanic", "cryptocompare", "cointelegraph", "coindesk"}, names)
	assert.Len(t, cfg.Coins, 20)
	assert.Equal(t, "avalanche-2", cfg.Coins["avax"])
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT"}, cfg.Symbols)
	assert.Equal(t, 5, cfg.Limit())

	sources, err := cfg.NewsSources()
	require.NoError(t, err)
	require.Len(t, sources, 4)
	assert.Equal(t, "rss2json", sources[2].Format)
	assert.NotNil(t, sources[2].Transform)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultPath(t *testing.T) {
	if _, err := os.Stat(DefaultPath()); err == nil {
		t.Skip("user config file exists")
	}

	cfg, err := Load(DefaultPath())
	require.NoError(t, err)

	def, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: local
    format: rss
    url: http://localhost:8081/feed.xml
  - name: off
    format: cryptopanic
    url: https://example.com
    disabled: true
news_limit: 3
coins:
  BTC: bitcoin
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Limit())
	assert.Equal(t, map[string]string{"btc": "bitcoin"}, cfg.CoinMap())
	assert.Len(t, cfg.Symbols, 5, "symbols are taken from defaults")

	sources, err := cfg.NewsSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "local", sources[0].Name)
}

func TestValidate(t *testing.T) {
	tbl := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "no name",
			cfg:     Config{Sources: []Source{{Format: "rss", URL: "https://a"}}},
			wantErr: "name is required",
		},
		{
			name: "duplicate",
			cfg: Config{Sources: []Source{
				{Name: "a", Format: "rss", URL: "https://a"},
				{Name: "a", Format: "rss", URL: "https://b"},
			}},
			wantErr: "duplicate name",
		},
		{
			name:    "bad scheme",
			cfg:     Config{Sources: []Source{{Name: "a", Format: "rss", URL: "ftp://a"}}},
			wantErr: "scheme must be http or https",
		},
		{
			name:    "unknown format",
			cfg:     Config{Sources: []Source{{Name: "a", Format: "atom-json", URL: "https://a"}}},
			wantErr: "not supported",
		},
		{
			name:    "all disabled",
			cfg:     Config{Sources: []Source{{Name: "a", Format: "rss", URL: "https://a", Disabled: true}}},
			wantErr: "no enabled sources",
		},
		{
			name: "lower-case symbol",
			cfg: Config{
				Sources: []Source{{Name: "a", Format: "rss", URL: "https://a"}},
				Symbols: []string{"btcusdt"},
			},
			wantErr: "upper-case",
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
