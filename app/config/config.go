// Package config loads the data configuration of the dashboard: news providers,
// coin identifiers and ticker symbols.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Semior001/cryptodash/app/news"
	"github.com/adrg/xdg"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source describes a news provider.
type Source struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format"`
	URL      string `yaml:"url"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Config is the data configuration.
type Config struct {
	Sources      []Source          `yaml:"sources"`
	NewsLimit    int               `yaml:"news_limit,omitempty"`
	DefaultImage string            `yaml:"default_image,omitempty"`
	Coins        map[string]string `yaml:"coins"`
	Symbols      []string          `yaml:"symbols"`
}

// DefaultPath returns the location of the user configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "cryptodash", "config.yaml")
}

// Defaults returns the embedded configuration.
func Defaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded config: %w", err)
	}

	return &cfg, nil
}

// Load reads the configuration file. An empty path, or a missing file at
// the DefaultPath, gives the embedded defaults. Sections missing in the file
// are taken from the defaults too.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && path == DefaultPath():
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	merge(cfg, file)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// merge overrides sections of dst with the non-empty sections of src.
func merge(dst *Config, src Config) {
	if len(src.Sources) > 0 {
		dst.Sources = src.Sources
	}
	if src.NewsLimit > 0 {
		dst.NewsLimit = src.NewsLimit
	}
	if src.DefaultImage != "" {
		dst.DefaultImage = src.DefaultImage
	}
	if len(src.Coins) > 0 {
		dst.Coins = src.Coins
	}
	if len(src.Symbols) > 0 {
		dst.Symbols = src.Symbols
	}
}

func validate(cfg *Config) error {
	seen := map[string]bool{}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if _, err := news.TransformFor(s.Format); err != nil {
			return fmt.Errorf("source %q: %w (valid: %s)", s.Name, err, strings.Join(news.Formats(), ", "))
		}
	}

	if len(cfg.EnabledSources()) == 0 {
		return fmt.Errorf("no enabled sources")
	}

	for _, sym := range cfg.Symbols {
		if sym == "" || sym != strings.ToUpper(sym) {
			return fmt.Errorf("symbol %q must be an upper-case trading pair", sym)
		}
	}

	return nil
}

// EnabledSources returns the sources that are not disabled, in the configured order.
func (c *Config) EnabledSources() []Source {
	return lo.Filter(c.Sources, func(s Source, _ int) bool { return !s.Disabled })
}

// NewsSources builds the ordered provider list for the news resolver.
func (c *Config) NewsSources() ([]news.Source, error) {
	res := make([]news.Source, 0, len(c.Sources))
	for _, s := range c.EnabledSources() {
		src, err := news.NewSource(s.Name, s.URL, s.Format)
		if err != nil {
			return nil, err
		}
		res = append(res, src)
	}
	return res, nil
}

// Limit returns the maximum number of rendered articles.
func (c *Config) Limit() int {
	if c.NewsLimit <= 0 {
		return news.DefaultLimit
	}
	return c.NewsLimit
}

// CoinMap returns the symbol to coin id map with lower-cased keys.
func (c *Config) CoinMap() map[string]string {
	return lo.MapKeys(c.Coins, func(_ string, k string) string { return strings.ToLower(k) })
}
