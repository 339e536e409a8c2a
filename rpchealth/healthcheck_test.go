package rpchealth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newRPCServer serves eth_getBlockByNumber with the given head timestamp.
func newRPCServer(t *testing.T, timestamp int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
		}
		if req.Method != "eth_getBlockByNumber" {
			t.Errorf("unexpected method %q", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":{"timestamp":"0x%x"}}`, req.ID, timestamp)
	}))
}

func TestCheckEndpointFresh(t *testing.T) {
	srv := newRPCServer(t, time.Now().Unix())
	defer srv.Close()

	if !CheckEndpoint(context.Background(), srv.URL) {
		t.Fatal("fresh endpoint reported unhealthy")
	}
}

func TestCheckEndpointStale(t *testing.T) {
	srv := newRPCServer(t, time.Now().Add(-10*time.Minute).Unix())
	defer srv.Close()

	if CheckEndpoint(context.Background(), srv.URL) {
		t.Fatal("stale endpoint reported healthy")
	}
}

func TestCheckEndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if CheckEndpoint(context.Background(), srv.URL) {
		t.Fatal("erroring endpoint reported healthy")
	}
	if CheckEndpoint(context.Background(), "http://127.0.0.1:1") {
		t.Fatal("unreachable endpoint reported healthy")
	}
}

func TestFetchChainlist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"1":["http://endpoint1","http://endpoint2"],"137":["http://endpoint3"]}`)
	}))
	defer srv.Close()

	endpoints, err := fetchChainlist(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchChainlist: %v", err)
	}
	if len(endpoints) != 2 || len(endpoints[1]) != 2 || endpoints[137][0] != "http://endpoint3" {
		t.Fatalf("endpoints: %v", endpoints)
	}
}

func TestChainlistFetchIsBounded(t *testing.T) {
	if chainlistClient.Timeout <= 0 {
		t.Fatal("chainlist client must carry a timeout, a stalled server would hang callers")
	}

	// A cancelled context aborts the fetch immediately.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fetchChainlist(ctx, "http://127.0.0.1:1"); err == nil {
		t.Fatal("cancelled fetch must error")
	}
}

func TestFetchChainlistFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := fetchChainlist(context.Background(), srv.URL); err == nil {
		t.Fatal("non-200 chainlist must error")
	}
}

func TestFilterHealthy(t *testing.T) {
	fresh := newRPCServer(t, time.Now().Unix())
	defer fresh.Close()
	stale := newRPCServer(t, time.Now().Add(-time.Hour).Unix())
	defer stale.Close()
	fresh2 := newRPCServer(t, time.Now().Unix())
	defer fresh2.Close()

	in := map[uint64][]string{
		1:   {stale.URL, fresh.URL, fresh2.URL},
		137: {stale.URL},
	}
	got := filterHealthy(context.Background(), in)

	if _, ok := got[137]; ok {
		t.Fatal("chain with only stale endpoints must be dropped")
	}
	want := []string{fresh.URL, fresh2.URL}
	if len(got[1]) != 2 || got[1][0] != want[0] || got[1][1] != want[1] {
		t.Fatalf("healthy endpoints: got %v want %v", got[1], want)
	}
}
