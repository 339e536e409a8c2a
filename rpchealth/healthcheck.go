// Package rpchealth probes public JSON-RPC endpoints and selects healthy
// ones for a TACo domain. An endpoint is healthy when it answers for the
// head block and the block timestamp is close to local time; a node serving
// a stale chain answers quickly but is useless.
package rpchealth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/errgroup"

	"github.com/taco-network/gtaco/params"
)

const (
	// probeTimeout bounds one endpoint probe.
	probeTimeout = 5 * time.Second

	// maxDrift is the tolerated gap between the head block timestamp and
	// local time.
	maxDrift = 60 * time.Second

	// maxConcurrentProbes bounds parallel probing in HealthyEndpoints.
	maxConcurrentProbes = 8

	// chainlistTimeout bounds the chainlist fetch even when the caller's
	// context has no deadline.
	chainlistTimeout = 10 * time.Second
)

var chainlistClient = &http.Client{Timeout: chainlistTimeout}

// CheckEndpoint reports whether endpoint serves a fresh head block. Any
// transport, protocol or staleness problem makes it unhealthy; there is
// nothing for the caller to handle, so no error is returned.
func CheckEndpoint(ctx context.Context, endpoint string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		log.Debug("RPC endpoint unreachable", "endpoint", endpoint, "err", err)
		return false
	}
	defer client.Close()

	var head struct {
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}
	if err := client.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		log.Debug("RPC endpoint probe failed", "endpoint", endpoint, "err", err)
		return false
	}

	drift := time.Since(time.Unix(int64(head.Timestamp), 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > maxDrift {
		log.Debug("RPC endpoint is stale", "endpoint", endpoint, "drift", drift)
		return false
	}
	return true
}

// DefaultEndpoints fetches the default public endpoints for a domain from
// the chainlist, keyed by chain id.
func DefaultEndpoints(ctx context.Context, domain params.Domain) (map[uint64][]string, error) {
	return fetchChainlist(ctx, params.ChainlistURL(domain))
}

func fetchChainlist(ctx context.Context, url string) (map[uint64][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rpchealth: build chainlist request: %w", err)
	}
	resp, err := chainlistClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpchealth: fetch chainlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpchealth: fetch chainlist: status %d", resp.StatusCode)
	}

	// Chain ids arrive as JSON object keys, i.e. strings.
	var raw map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("rpchealth: decode chainlist: %w", err)
	}
	endpoints := make(map[uint64][]string, len(raw))
	for key, urls := range raw {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("rpchealth: chainlist key %q: %w", key, err)
		}
		endpoints[chainID] = urls
	}
	return endpoints, nil
}

// HealthyEndpoints returns the domain's default endpoints filtered down to
// the ones that pass CheckEndpoint, probing them concurrently. Chains where
// every endpoint fails are dropped from the result.
func HealthyEndpoints(ctx context.Context, domain params.Domain) (map[uint64][]string, error) {
	defaults, err := DefaultEndpoints(ctx, domain)
	if err != nil {
		return nil, err
	}
	return filterHealthy(ctx, defaults), nil
}

func filterHealthy(ctx context.Context, endpoints map[uint64][]string) map[uint64][]string {
	type probe struct {
		chainID  uint64
		endpoint string
	}

	var (
		mu      sync.Mutex
		healthy = make(map[uint64][]string)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for chainID, urls := range endpoints {
		for _, url := range urls {
			p := probe{chainID, url}
			g.Go(func() error {
				if CheckEndpoint(ctx, p.endpoint) {
					mu.Lock()
					healthy[p.chainID] = append(healthy[p.chainID], p.endpoint)
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait() // probes never return errors

	// Map iteration scrambled the order; restore the chainlist's.
	for chainID, urls := range healthy {
		original := endpoints[chainID]
		rank := make(map[string]int, len(original))
		for i, url := range original {
			rank[url] = i
		}
		sort.Slice(urls, func(i, j int) bool { return rank[urls[i]] < rank[urls[j]] })
	}
	return healthy
}
