// Package latency tracks per-node request latency statistics so callers can
// prefer the fastest peers when farming out work.
package latency

import (
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MaxLatency is the sentinel average reported for nodes with no recorded
// measurements. It only needs to be larger than any plausible real latency
// so unmeasured nodes sort last.
const MaxLatency = time.Duration(1<<16) * time.Second

type nodeStats struct {
	avg   time.Duration
	count uint64
}

// Collector accumulates a rolling average latency per staker address. It is
// safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	stats map[common.Address]nodeStats
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{stats: make(map[common.Address]nodeStats)}
}

// Update folds one measurement into the rolling average for staker.
func (c *Collector) Update(staker common.Address, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats[staker]
	total := s.avg*time.Duration(s.count) + took
	s.count++
	s.avg = total / time.Duration(s.count)
	c.stats[staker] = s
}

// Reset discards the statistics for staker. Callers reset after a failed
// exchange, since connectivity was compromised and the old average no
// longer predicts anything.
func (c *Collector) Reset(staker common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stats, staker)
}

// Average returns the rolling average latency for staker, or MaxLatency if
// nothing has been recorded.
func (c *Collector) Average(staker common.Address) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stats[staker]
	if !ok || s.count == 0 {
		return MaxLatency
	}
	return s.avg
}

// Measure starts timing an exchange with staker and returns the completion
// func. Pass the exchange error to it: a nil error records the elapsed
// time, a non-nil error resets the node's statistics.
func (c *Collector) Measure(staker common.Address) func(err error) {
	start := time.Now()
	return func(err error) {
		if err != nil {
			c.Reset(staker)
			return
		}
		c.Update(staker, time.Since(start))
	}
}

// ByLatency returns stakers ordered by ascending average latency. Nodes
// without measurements go last. The input slice is not modified.
func (c *Collector) ByLatency(stakers []common.Address) []common.Address {
	ordered := make([]common.Address, len(stakers))
	copy(ordered, stakers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return c.Average(ordered[i]) < c.Average(ordered[j])
	})
	return ordered
}
