package news

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// cryptoPanic handles the posts API of cryptopanic.com.
func cryptoPanic(body []byte) ([]Article, error) {
	var resp struct {
		Results *[]struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			PublishedAt string `json:"published_at"`
			Source      struct {
				Title string `json:"title"`
			} `json:"source"`
			Metadata struct {
				Image string `json:"image"`
			} `json:"metadata"`
		} `json:"results"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cryptopanic response: %w", err)
	}

	if resp.Results == nil {
		return nil, errors.New("no results in cryptopanic response")
	}

	res := make([]Article, 0, len(*resp.Results))
	for _, r := range *resp.Results {
		res = append(res, Article{
			Title:  r.Title,
			URL:    r.URL,
			Source: r.Source.Title,
			Date:   formatDate(parseTime(r.PublishedAt, time.RFC3339)),
			Image:  r.Metadata.Image,
		})
	}

	return res, nil
}

// cryptoCompare handles the news API of min-api.cryptocompare.com.
func cryptoCompare(body []byte) ([]Article, error) {
	var resp struct {
		Message string          `json:"Message"`
		Data    json.RawMessage `json:"Data"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cryptocompare response: %w", err)
	}

	var data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		ImageURL    string `json:"imageurl"`
		PublishedOn int64  `json:"published_on"`
		Source      string `json:"source"`
		SourceInfo  struct {
			Name string `json:"name"`
		} `json:"source_info"`
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no data in cryptocompare response, message: %q", resp.Message)
	}

	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("unmarshal cryptocompare data (message: %q): %w", resp.Message, err)
	}

	res := make([]Article, 0, len(data))
	for _, d := range data {
		src := d.SourceInfo.Name
		if src == "" {
			src = d.Source
		}

		var published time.Time
		if d.PublishedOn > 0 {
			published = time.Unix(d.PublishedOn, 0)
		}

		res = append(res, Article{
			Title:  d.Title,
			URL:    d.URL,
			Source: src,
			Date:   formatDate(published),
			Image:  d.ImageURL,
		})
	}

	return res, nil
}

// rss2JSON handles responses of api.rss2json.com.
func rss2JSON(body []byte) ([]Article, error) {
	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Feed    struct {
			Title string `json:"title"`
		} `json:"feed"`
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			PubDate     string `json:"pubDate"`
			Thumbnail   string `json:"thumbnail"`
			Description string `json:"description"`
			Enclosure   struct {
				Link string `json:"link"`
				Type string `json:"type"`
			} `json:"enclosure"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal rss2json response: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("rss2json status %q: %s", resp.Status, resp.Message)
	}

	res := make([]Article, 0, len(resp.Items))
	for _, it := range resp.Items {
		img := it.Thumbnail
		if img == "" && strings.HasPrefix(it.Enclosure.Type, "image/") {
			img = it.Enclosure.Link
		}
		if img == "" {
			img = firstImage(it.Description)
		}

		res = append(res, Article{
			Title:  it.Title,
			URL:    it.Link,
			Source: resp.Feed.Title,
			Date:   formatDate(parseTime(it.PubDate, "2006-01-02 15:04:05", time.RFC3339)),
			Image:  img,
		})
	}

	return res, nil
}

// rssFeed handles plain RSS, Atom and JSON feeds.
func rssFeed(body []byte) ([]Article, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	res := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		var published time.Time
		switch {
		case item.PublishedParsed != nil:
			published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			published = *item.UpdatedParsed
		}

		res = append(res, Article{
			Title:  strings.TrimSpace(item.Title),
			URL:    item.Link,
			Source: feed.Title,
			Date:   formatDate(published),
			Image:  itemImage(item),
		})
	}

	return res, nil
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	if img := firstImage(item.Content); img != "" {
		return img
	}

	return firstImage(item.Description)
}

// firstImage returns the source of the first image in the html snippet.
func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func parseTime(s string, layouts ...string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
