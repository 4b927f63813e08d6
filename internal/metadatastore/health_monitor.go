// Package metadatastore: this file implements health monitoring for the
// BlockStore shards a MetadataStore depends on.
package metadatastore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/rs/zerolog"
)

// ShardHealth tracks the health status of a single BlockStore shard.
// Thread-safe: protected by HealthMonitor's mutex when accessed.
type ShardHealth struct {
	LastCheck        time.Time
	LastHealthy      time.Time
	Status           string
	ConsecutiveFails int
}

// HealthMonitor performs periodic health checks against every configured
// BlockStore shard's /health endpoint. It has no bearing on protocol
// correctness — ModifyFile trusts a shard's claimed presence regardless of
// monitored health — it exists purely so an operator can see a shard go
// dark before clients start hitting MISSING_BLOCKS against it.
type HealthMonitor struct {
	shards      map[cluster.ShardID]*ShardHealth
	httpClient  *http.Client
	checkFunc   func(addr string) error
	onUnhealthy func(shard cluster.ShardID)
	log         zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	interval    time.Duration
	timeout     time.Duration
	mu          sync.RWMutex
	wg          sync.WaitGroup
	maxFailures int
}

// NewHealthMonitor creates a health monitor that checks each shard every
// interval, marking a shard unhealthy after 3 consecutive failures.
func NewHealthMonitor(interval time.Duration, log zerolog.Logger) *HealthMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &HealthMonitor{
		interval:    interval,
		timeout:     2 * time.Second,
		maxFailures: 3,
		shards:      make(map[cluster.ShardID]*ShardHealth),
		httpClient:  &http.Client{Timeout: 2 * time.Second},
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetOnUnhealthy sets the callback invoked the moment a shard crosses into
// the unhealthy state.
func (h *HealthMonitor) SetOnUnhealthy(callback func(shard cluster.ShardID)) {
	h.onUnhealthy = callback
}

// SetCheckFunction overrides the default HTTP health check, for tests.
func (h *HealthMonitor) SetCheckFunction(checkFunc func(addr string) error) {
	h.checkFunc = checkFunc
}

// Start begins periodic monitoring of the shards named by descriptor. It
// blocks until ctx (or the monitor's own context) is canceled.
func (h *HealthMonitor) Start(ctx context.Context, descriptor *cluster.Descriptor) {
	h.wg.Add(1)
	defer h.wg.Done()

	if ctx == nil {
		ctx = h.ctx
	}
	if h.checkFunc == nil {
		h.checkFunc = h.defaultHealthCheck
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.log.Info().Dur("interval", h.interval).Msg("health monitor started")
	h.checkAllShards(descriptor)

	for {
		select {
		case <-ticker.C:
			h.checkAllShards(descriptor)
		case <-ctx.Done():
			return
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the health monitor.
func (h *HealthMonitor) Stop() {
	h.cancel()
	h.wg.Wait()
}

func (h *HealthMonitor) checkAllShards(descriptor *cluster.Descriptor) {
	for id, addr := range descriptor.BlockStores {
		h.checkShard(id, addr)
	}
}

func (h *HealthMonitor) checkShard(id cluster.ShardID, addr string) {
	h.mu.Lock()
	health, exists := h.shards[id]
	if !exists {
		health = &ShardHealth{Status: "unknown", LastCheck: time.Now(), LastHealthy: time.Now()}
		h.shards[id] = health
	}
	h.mu.Unlock()

	err := h.checkFunc(addr)

	h.mu.Lock()
	defer h.mu.Unlock()

	health.LastCheck = time.Now()

	if err != nil {
		health.ConsecutiveFails++
		h.log.Warn().Int("shard", int(id)).Int("fails", health.ConsecutiveFails).Err(err).Msg("shard health check failed")

		if health.ConsecutiveFails >= h.maxFailures {
			previousStatus := health.Status
			health.Status = "unhealthy"
			if previousStatus != "unhealthy" && h.onUnhealthy != nil {
				go h.onUnhealthy(id)
			}
		}
		return
	}

	health.Status = "healthy"
	health.ConsecutiveFails = 0
	health.LastHealthy = time.Now()
}

func (h *HealthMonitor) defaultHealthCheck(addr string) error {
	url := addr
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	url = strings.TrimRight(url, "/") + "/health"

	resp, err := h.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// GetShardHealth returns the current health status of a shard, or nil if it
// isn't being monitored.
func (h *HealthMonitor) GetShardHealth(id cluster.ShardID) *ShardHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health, exists := h.shards[id]
	if !exists {
		return nil
	}
	snapshot := *health
	return &snapshot
}

// AllShardHealth returns a snapshot of every monitored shard's health.
func (h *HealthMonitor) AllShardHealth() map[cluster.ShardID]*ShardHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[cluster.ShardID]*ShardHealth, len(h.shards))
	for id, health := range h.shards {
		snapshot := *health
		result[id] = &snapshot
	}
	return result
}

// IsHealthy reports whether shard id is currently healthy.
func (h *HealthMonitor) IsHealthy(id cluster.ShardID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health, exists := h.shards[id]
	return exists && health.Status == "healthy"
}
