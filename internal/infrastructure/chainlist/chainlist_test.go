package chainlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketFeed/internal/config"
)

const (
	chainIDsPayload = `{"1":"ethereum","137":"polygon"}`
	rpcsPayload     = `[
		{"chainId":1,"rpc":[{"url":"https://eth.example.org"},{"url":"https://eth2.example.org"}]},
		{"chainId":137,"rpc":[{"url":"https://polygon.example.org"}]}
	]`
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/chainIds"):
			_, _ = w.Write([]byte(chainIDsPayload))
		case strings.HasPrefix(r.URL.Path, "/rpcs"):
			_, _ = w.Write([]byte(rpcsPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return NewRegistry(config.ChainlistConfig{
		ChainIDsURL: server.URL + "/chainIds.json",
		RPCsURL:     server.URL + "/rpcs.json",
	}, server.Client())
}

func TestRefreshAndLookups(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	if err := registry.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	id, ok := registry.ChainID("Ethereum")
	if !ok || id != 1 {
		t.Fatalf("ChainID(Ethereum) = %d, %v", id, ok)
	}

	name, ok := registry.ChainName(137)
	if !ok || name != "polygon" {
		t.Fatalf("ChainName(137) = %q, %v", name, ok)
	}

	urls := registry.RPCURLs(1)
	if len(urls) != 2 || urls[0] != "https://eth.example.org" {
		t.Fatalf("RPCURLs(1) = %v", urls)
	}
}

func TestLookupsBeforeRefreshAreEmpty(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(config.ChainlistConfig{}, nil)

	if _, ok := registry.ChainID("ethereum"); ok {
		t.Fatal("ChainID should miss on an empty registry")
	}
	if urls := registry.RPCURLs(1); urls != nil {
		t.Fatalf("RPCURLs = %v, want nil", urls)
	}
}

func TestRefreshFailsOnBadPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(server.Close)

	registry := NewRegistry(config.ChainlistConfig{
		ChainIDsURL: server.URL + "/chainIds.json",
		RPCsURL:     server.URL + "/rpcs.json",
	}, server.Client())

	if err := registry.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for malformed dataset")
	}
}
