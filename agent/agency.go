package agent

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"

	"github.com/taco-network/gtaco/params"
	"github.com/taco-network/gtaco/types"
)

// agencyCacheSize bounds the number of cached agents. One deployment has a
// handful of contracts, so evictions only happen when an Agency is shared
// across many addresses.
const agencyCacheSize = 32

// Agency hands out cached agent instances bound to one chain caller, so
// repeated lookups of the same contract reuse one agent (and its parsed
// ABI) instead of rebuilding it.
type Agency struct {
	caller ethereum.ContractCaller

	mu    sync.Mutex
	cache *lru.Cache
}

// NewAgency creates an Agency over caller.
func NewAgency(caller ethereum.ContractCaller) (*Agency, error) {
	cache, err := lru.New(agencyCacheSize)
	if err != nil {
		return nil, err
	}
	return &Agency{caller: caller, cache: cache}, nil
}

// GetAgent returns the cached agent of type A at address, constructing it
// with make on first use. The cache key is the concrete agent type plus the
// address, so distinct agent types at the same address do not collide.
func GetAgent[A types.ContractAgent](ag *Agency, address common.Address, make func(common.Address, ethereum.ContractCaller) (A, error)) (A, error) {
	var zero A
	key := fmt.Sprintf("%T@%s", zero, address.Hex())

	ag.mu.Lock()
	defer ag.mu.Unlock()
	if cached, ok := ag.cache.Get(key); ok {
		return cached.(A), nil
	}
	built, err := make(address, ag.caller)
	if err != nil {
		return zero, err
	}
	ag.cache.Add(key, built)
	return built, nil
}

// Coordinator returns the cached CoordinatorAgent for a domain.
func Coordinator(ag *Agency, cfg params.DomainConfig) (*CoordinatorAgent, error) {
	return GetAgent(ag, cfg.Coordinator, NewCoordinatorAgent)
}

// Token returns the cached TokenAgent for a domain.
func Token(ag *Agency, cfg params.DomainConfig) (*TokenAgent, error) {
	return GetAgent(ag, cfg.NuToken, NewTokenAgent)
}

// Application returns the cached ApplicationAgent for a domain.
func Application(ag *Agency, cfg params.DomainConfig) (*ApplicationAgent, error) {
	return GetAgent(ag, cfg.Application, NewApplicationAgent)
}
