package metadatastore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() *cluster.Descriptor {
	return &cluster.Descriptor{
		NumBlockStores: 2,
		BlockStores: map[cluster.ShardID]string{
			0: "http://localhost:9081",
			1: "http://localhost:9082",
		},
	}
}

func TestNewHealthMonitor(t *testing.T) {
	monitor := NewHealthMonitor(5*time.Second, zerolog.Nop())
	defer monitor.Stop()

	assert.NotNil(t, monitor)
	assert.Equal(t, 5*time.Second, monitor.interval)
	assert.Equal(t, 2*time.Second, monitor.timeout)
	assert.Equal(t, 3, monitor.maxFailures)
	assert.Len(t, monitor.shards, 0)
}

func TestHealthMonitorStartChecksEveryShard(t *testing.T) {
	monitor := NewHealthMonitor(100*time.Millisecond, zerolog.Nop())
	defer monitor.Stop()

	checkCalls := 0
	var mu sync.Mutex
	monitor.SetCheckFunction(func(addr string) error {
		mu.Lock()
		checkCalls++
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, testDescriptor())

	time.Sleep(350 * time.Millisecond)

	mu.Lock()
	calls := checkCalls
	mu.Unlock()
	assert.GreaterOrEqual(t, calls, 6)

	all := monitor.AllShardHealth()
	assert.Len(t, all, 2)
	assert.True(t, monitor.IsHealthy(0))
	assert.True(t, monitor.IsHealthy(1))
}

func TestHealthMonitorShardFailureTriggersCallback(t *testing.T) {
	monitor := NewHealthMonitor(50*time.Millisecond, zerolog.Nop())
	defer monitor.Stop()

	var mu sync.Mutex
	failing := false
	monitor.SetCheckFunction(func(addr string) error {
		mu.Lock()
		defer mu.Unlock()
		if addr == "http://localhost:9081" && failing {
			return fmt.Errorf("shard is down")
		}
		return nil
	})

	var unhealthyCalls []cluster.ShardID
	monitor.SetOnUnhealthy(func(shard cluster.ShardID) {
		mu.Lock()
		unhealthyCalls = append(unhealthyCalls, shard)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, testDescriptor())

	time.Sleep(100 * time.Millisecond)
	assert.True(t, monitor.IsHealthy(0))
	assert.True(t, monitor.IsHealthy(1))

	mu.Lock()
	failing = true
	mu.Unlock()

	time.Sleep(250 * time.Millisecond)

	assert.False(t, monitor.IsHealthy(0))
	assert.True(t, monitor.IsHealthy(1))

	mu.Lock()
	assert.Contains(t, unhealthyCalls, cluster.ShardID(0))
	mu.Unlock()

	health := monitor.GetShardHealth(0)
	require.NotNil(t, health)
	assert.Equal(t, "unhealthy", health.Status)
	assert.GreaterOrEqual(t, health.ConsecutiveFails, 3)
}

func TestHealthMonitorShardRecovery(t *testing.T) {
	monitor := NewHealthMonitor(50*time.Millisecond, zerolog.Nop())
	defer monitor.Stop()

	var mu sync.Mutex
	healthy := true
	monitor.SetCheckFunction(func(addr string) error {
		mu.Lock()
		defer mu.Unlock()
		if addr == "http://localhost:9081" && !healthy {
			return fmt.Errorf("shard is down")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, testDescriptor())

	time.Sleep(100 * time.Millisecond)
	assert.True(t, monitor.IsHealthy(0))

	mu.Lock()
	healthy = false
	mu.Unlock()
	time.Sleep(250 * time.Millisecond)
	assert.False(t, monitor.IsHealthy(0))

	mu.Lock()
	healthy = true
	mu.Unlock()
	time.Sleep(100 * time.Millisecond)

	assert.True(t, monitor.IsHealthy(0))
	health := monitor.GetShardHealth(0)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.ConsecutiveFails)
}

func TestHealthMonitorStop(t *testing.T) {
	monitor := NewHealthMonitor(50*time.Millisecond, zerolog.Nop())

	var mu sync.Mutex
	checkCount := 0
	monitor.SetCheckFunction(func(addr string) error {
		mu.Lock()
		defer mu.Unlock()
		checkCount++
		return nil
	})

	go monitor.Start(nil, testDescriptor())
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	before := checkCount
	mu.Unlock()

	monitor.Stop()
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	after := checkCount
	mu.Unlock()

	assert.Greater(t, before, 0)
	assert.Equal(t, before, after)
}

func TestHealthMonitorGetShardHealthUnknown(t *testing.T) {
	monitor := NewHealthMonitor(50*time.Millisecond, zerolog.Nop())
	defer monitor.Stop()
	assert.Nil(t, monitor.GetShardHealth(99))
}
