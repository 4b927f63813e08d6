// Command surfmetadatastore serves SurfStore's single MetadataStore instance.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dreamware/surfstore/internal/blockstoreclient"
	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/metadatastore"
	"github.com/dreamware/surfstore/internal/surfstorelog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "surfmetadatastore <descriptor>",
	Short: "Serve the SurfStore MetadataStore",
	Long: `surfmetadatastore reads a cluster descriptor file, listens on the
address it names for metadata, and tracks file version/placement state
for every BlockStore shard the descriptor lists.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.Flags().Duration("health-interval", 5*time.Second, "Interval between BlockStore shard health checks")
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	surfstorelog.Init(surfstorelog.Config{Level: level, JSON: jsonOutput})
}

func runServe(cmd *cobra.Command, args []string) error {
	log := surfstorelog.WithComponent("metadatastore")

	descriptor, err := cluster.ParseDescriptor(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse cluster descriptor")
	}
	if descriptor.Metadata == "" {
		log.Fatal().Msg("descriptor has no metadata: line")
	}

	healthInterval, _ := cmd.Flags().GetDuration("health-interval")

	log.Info().Ints("shards", shardInts(descriptor.SortedShardIDs())).Msg("configured block stores")

	pool := blockstoreclient.NewPool(descriptor)
	registry := prometheus.NewRegistry()
	store := metadatastore.New(pool, metadatastore.NewMetrics(registry))
	srv := metadatastore.NewServer(store, log, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	monitor := metadatastore.NewHealthMonitor(healthInterval, log)
	monitor.SetOnUnhealthy(func(shard cluster.ShardID) {
		log.Warn().Int("shard", int(shard)).Msg("blockstore shard marked unhealthy")
	})
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	go monitor.Start(monitorCtx, descriptor)
	defer stopMonitor()

	httpServer := &http.Server{
		Addr:    listenAddr(descriptor.Metadata),
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Int("shards", descriptor.NumBlockStores).Msg("metadatastore listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("metadatastore server error: %w", err)
	}

	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func listenAddr(addr string) string {
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	return addr
}

func shardInts(ids []cluster.ShardID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
