package openfront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/galclan/openfront-clanstats/internal/platform/logging"
	"github.com/galclan/openfront-clanstats/internal/usecase"
)

func rankingPage(offset, n int) string {
	rows := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, fmt.Sprintf(`{"username":"p%d","elo":%d,"wins":3,"losses":1}`, offset+i, 2000-offset-i))
	}
	return `{"1v1":[` + strings.Join(rows, ",") + `]}`
}

func TestRankingClient_PagesUntilLimit(t *testing.T) {
	t.Parallel()

	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)
		w.Header().Set("X-Ratelimit-Remaining", "41")
		_, _ = w.Write([]byte(rankingPage((page-1)*rankingPageSize, rankingPageSize)))
	}))
	t.Cleanup(srv.Close)

	client := NewRankingClient(RankingClientConfig{URL: srv.URL, Timeout: 5 * time.Second, Logger: logging.NewNop()})

	entries, err := client.FetchOfficialRanking(context.Background(), 60)
	if err != nil {
		t.Fatalf("fetch ranking: %v", err)
	}
	if len(entries) != 60 {
		t.Fatalf("expected 60 entries, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[59].Rank != 60 || entries[59].Username != "p59" {
		t.Fatalf("unexpected ranks: first=%+v last=%+v", entries[0], entries[59])
	}
	if entries[0].WinRate != 75 || entries[0].Games != 4 {
		t.Fatalf("unexpected derived stats: %+v", entries[0])
	}
	if len(pages) != 2 || pages[0] != 1 || pages[1] != 2 {
		t.Fatalf("unexpected pages requested: %v", pages)
	}
	if got := client.RateLimit().Remaining; got != 41 {
		t.Fatalf("expected rate limit remaining 41, got %d", got)
	}
}

func TestRankingClient_StopsOnShortPage(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"items":[{"name":"solo","rating":1200}]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewRankingClient(RankingClientConfig{URL: srv.URL, Logger: logging.NewNop()})

	entries, err := client.FetchOfficialRanking(context.Background(), 25)
	if err != nil {
		t.Fatalf("fetch ranking: %v", err)
	}
	if len(entries) != 1 || entries[0].Elo != 1200 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestRankingClient_AuthFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "k" {
			t.Errorf("expected api key header")
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := NewRankingClient(RankingClientConfig{URL: srv.URL, APIKey: "k", Logger: logging.NewNop()})

	_, err := client.FetchOfficialRanking(context.Background(), 10)
	if !errors.Is(err, usecase.ErrUpstreamAuth) {
		t.Fatalf("expected upstream auth error, got %v", err)
	}
}
