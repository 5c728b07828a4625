// Package chainlist serves chain-name/chain-id/RPC lookups from the public
// chainlist datasets. The registry is explicitly constructed and refreshed
// by its owner; it is never a package-level singleton.
package chainlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"MarketFeed/internal/config"
	"MarketFeed/internal/ports"
)

type rpcChain struct {
	ChainID int `json:"chainId"`
	RPC     []struct {
		URL string `json:"url"`
	} `json:"rpc"`
}

// Registry caches the chainlist datasets behind a read lock. Call Refresh
// before first use and whenever stale data is suspected.
type Registry struct {
	client      *http.Client
	chainIDsURL string
	rpcsURL     string

	mu       sync.RWMutex
	chainIDs map[string]string // chain id (decimal string) -> chain name
	rpcs     []rpcChain
}

var _ ports.RPCDirectory = (*Registry)(nil)

// NewRegistry builds an empty registry against the configured endpoints.
func NewRegistry(cfg config.ChainlistConfig, client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Registry{
		client:      client,
		chainIDsURL: cfg.ChainIDsURL,
		rpcsURL:     cfg.RPCsURL,
	}
}

// Refresh reloads both datasets, replacing the cached state atomically.
func (r *Registry) Refresh(ctx context.Context) error {
	var chainIDs map[string]string
	if err := r.getJSON(ctx, r.chainIDsURL, &chainIDs); err != nil {
		return fmt.Errorf("load chain ids: %w", err)
	}

	var rpcs []rpcChain
	if err := r.getJSON(ctx, r.rpcsURL, &rpcs); err != nil {
		return fmt.Errorf("load rpcs: %w", err)
	}

	r.mu.Lock()
	r.chainIDs = chainIDs
	r.rpcs = rpcs
	r.mu.Unlock()
	return nil
}

// ChainID resolves a chain name (case-insensitive) to its numeric id.
func (r *Registry) ChainID(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, chainName := range r.chainIDs {
		if strings.EqualFold(chainName, name) {
			numeric, err := strconv.Atoi(id)
			if err != nil {
				return 0, false
			}
			return numeric, true
		}
	}
	return 0, false
}

// ChainName resolves a numeric chain id to its name.
func (r *Registry) ChainName(chainID int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.chainIDs[strconv.Itoa(chainID)]
	return name, ok
}

// RPCURLs lists the known RPC endpoints for a chain, empty when unknown.
func (r *Registry) RPCURLs(chainID int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, chain := range r.rpcs {
		if chain.ChainID == chainID {
			urls := make([]string, 0, len(chain.RPC))
			for _, rpc := range chain.RPC {
				urls = append(urls, rpc.URL)
			}
			return urls
		}
	}
	return nil
}

func (r *Registry) getJSON(ctx context.Context, rawURL string, v any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned %s", rawURL, resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", rawURL, err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}
