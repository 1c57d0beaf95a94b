package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const articlesBody = `{"total_items":2,"data":[
	{"id":"a1","title":"삼성전자 실적 발표","publisher":"연합뉴스","summary":"본문 요약","highlight":{"content":["<b>삼성전자</b> 3분기"]},"content_url":"https://news.example/a1"},
	{"id":"a2","title":"반도체 업황","publisher":"한국경제","summary":"long","content_url":"https://news.example/a2"}
]}`

func fixedNow() time.Time {
	return time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/v1/articles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		want := map[string]string{
			"api_key":   "secret",
			"keyword":   "삼성전자",
			"date_from": "2024-06-07",
			"date_to":   "2024-06-10",
			"page_size": "10",
			"order":     "published_at",
			"highlight": "unified",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("%s: expected %q, got %q", k, v, got)
			}
		}
		w.Write([]byte(articlesBody))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), srv.URL, "secret", time.Second, time.UTC)
	f.now = fixedNow

	items := f.Search(context.Background(), "삼성전자")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.Press != "연합뉴스" || first.Summary != "<b>삼성전자</b> 3분기" || first.FullContent != "본문 요약" || first.URL != "https://news.example/a1" {
		t.Errorf("unexpected mapping: %+v", first)
	}
	if items[1].Summary != "" {
		t.Errorf("expected empty summary without highlight, got %q", items[1].Summary)
	}
}

func TestSearch_DateInMarketLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 15:00 UTC on the 10th is already the 11th in Seoul
		if got := r.URL.Query().Get("date_to"); got != "2024-06-11" {
			t.Errorf("expected date_to 2024-06-11, got %s", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), srv.URL, "k", time.Second, seoul)
	f.now = fixedNow
	f.Search(context.Background(), "x")
}

func TestLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("keyword") != LatestKeyword || q.Get("page_size") != "20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("date_from") != "2024-06-10" || q.Get("date_to") != "2024-06-10" {
			t.Errorf("expected today only, got %s..%s", q.Get("date_from"), q.Get("date_to"))
		}
		w.Write([]byte(articlesBody))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), srv.URL, "k", time.Second, time.UTC)
	f.now = fixedNow
	if items := f.Latest(context.Background()); len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestSearch_FailuresReturnEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
		{"malformed", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"data":[`)) }},
		{"null data", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"data":null}`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewFetcher(srv.Client(), srv.URL, "k", 50*time.Millisecond, nil)
			items := f.Search(context.Background(), "x")
			if items == nil || len(items) != 0 {
				t.Errorf("expected empty non-nil slice, got %v", items)
			}
		})
	}
}

func TestTitles(t *testing.T) {
	items := []Item{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	if got := Titles(items, 3); len(got) != 3 || got[2] != "c" {
		t.Errorf("unexpected titles %v", got)
	}
	if got := Titles(nil, 3); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil titles")
	}
}
