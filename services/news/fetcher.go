// Package news searches DeepSearch articles for stock detail and headline pages.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Search parameters
const (
	SearchLookbackDays = 3
	SearchPageSize     = 10
	LatestPageSize     = 20
	LatestKeyword      = "경제 OR AI OR 투자 OR 금리"
)

// Item is one news article
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Press       string `json:"press"`
	Summary     string `json:"summary"`
	FullContent string `json:"fullContent"`
	URL         string `json:"url"`
}

type articleResponse struct {
	TotalItems int       `json:"total_items"`
	Data       []article `json:"data"`
}

type article struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Summary   string `json:"summary"`
	Highlight *struct {
		Content []string `json:"content"`
	} `json:"highlight"`
	ContentURL string `json:"content_url"`
}

// Fetcher queries GET {baseURL}/v1/articles
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	location   *time.Location
	now        func() time.Time
}

// NewFetcher creates a news fetcher on the shared HTTP client
func NewFetcher(httpClient *http.Client, baseURL, apiKey string, timeout time.Duration, loc *time.Location) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Fetcher{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		location:   loc,
		now:        time.Now,
	}
}

// Search returns recent articles matching keyword. Failures yield an empty slice.
func (f *Fetcher) Search(ctx context.Context, keyword string) []Item {
	today := f.now().In(f.location)
	items, err := f.query(ctx, keyword, today.AddDate(0, 0, -SearchLookbackDays), today, SearchPageSize)
	if err != nil {
		log.Printf("[WARN] news search %q failed: %v", keyword, err)
		return []Item{}
	}
	return items
}

// Latest returns today's market-wide headlines
func (f *Fetcher) Latest(ctx context.Context) []Item {
	today := f.now().In(f.location)
	items, err := f.query(ctx, LatestKeyword, today, today, LatestPageSize)
	if err != nil {
		log.Printf("[WARN] latest news failed: %v", err)
		return []Item{}
	}
	return items
}

func (f *Fetcher) query(ctx context.Context, keyword string, from, to time.Time, pageSize int) ([]Item, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("api_key", f.apiKey)
	params.Set("keyword", keyword)
	params.Set("date_from", from.Format(time.DateOnly))
	params.Set("date_to", to.Format(time.DateOnly))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("order", "published_at")
	params.Set("highlight", "unified")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/articles?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload articleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	items := make([]Item, 0, len(payload.Data))
	for _, a := range payload.Data {
		items = append(items, toItem(a))
	}
	return items, nil
}

func toItem(a article) Item {
	item := Item{
		ID:          a.ID,
		Title:       a.Title,
		Press:       a.Publisher,
		FullContent: a.Summary,
		URL:         a.ContentURL,
	}
	if a.Highlight != nil && len(a.Highlight.Content) > 0 {
		item.Summary = a.Highlight.Content[0]
	}
	return item
}

// Titles returns the titles of at most n items
func Titles(items []Item, n int) []string {
	if n > len(items) {
		n = len(items)
	}
	titles := make([]string, 0, n)
	for _, it := range items[:n] {
		titles = append(titles, it.Title)
	}
	return titles
}
