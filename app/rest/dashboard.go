package rest

import (
	"sync"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/news"
)

// Dashboard is the latest state shown by the dashboard.
// The last writer wins, stale results may overwrite fresher ones.
type Dashboard struct {
	Board *market.Board

	mu   sync.RWMutex
	news news.Result
}

// NewDashboard makes an empty dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{
		Board: &market.Board{},
		news:  news.Result{Origin: news.OriginUnavailable, HTML: news.Unavailable},
	}
}

// SetNews replaces the news feed.
func (d *Dashboard) SetNews(r news.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.news = r
}

// News returns the news feed.
func (d *Dashboard) News() news.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.news
}
