package watchlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"roboadvisor_backend/models"
	"roboadvisor_backend/services/quote"
)

type listStore struct {
	racingStore
	rows []models.UserWatchlist
}

func (l *listStore) FindByUserWithStock(_ context.Context, _ string) ([]models.UserWatchlist, error) {
	return l.rows, nil
}

func TestStreamer_PushesSnapshots(t *testing.T) {
	store := &listStore{rows: []models.UserWatchlist{
		{StockID: "005930", Stock: models.Stock{StockID: "005930", StockName: "삼성전자"}},
	}}
	svc := NewService(store, &stubUsers{}, stubStocks{}, &fakeQuotes{}, 0)
	streamer := NewStreamer(svc, 20*time.Millisecond)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		streamer.Serve(w, r, "u1")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}

		var msg struct {
			Type string           `json:"type"`
			Data []quote.Snapshot `json:"data"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		if msg.Type != "watchlist" || len(msg.Data) != 1 || msg.Data[0].StockName != "삼성전자" {
			t.Errorf("unexpected frame %d: %s", i, raw)
		}
	}

	if streamer.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", streamer.ClientCount())
	}
}
