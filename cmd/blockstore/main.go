// Command surfblockstore serves one BlockStore shard over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dreamware/surfstore/internal/blockstore"
	"github.com/dreamware/surfstore/internal/cluster"
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
	Use:   "surfblockstore <descriptor> <shard>",
	Short: "Serve one BlockStore shard of a SurfStore cluster",
	Long: `surfblockstore reads a cluster descriptor file and serves the
BlockStore shard at the given index, listening on the address the
descriptor names for that shard.`,
	Args: cobra.ExactArgs(2),
	RunE: runServe,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	surfstorelog.Init(surfstorelog.Config{Level: level, JSON: jsonOutput})
}

func runServe(cmd *cobra.Command, args []string) error {
	log := surfstorelog.WithComponent("blockstore")

	descriptor, err := cluster.ParseDescriptor(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse cluster descriptor")
	}

	shardIdx, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal().Err(err).Str("shard", args[1]).Msg("shard index must be an integer")
	}
	shard := cluster.ShardID(shardIdx)

	addr, err := descriptor.BlockStoreAddr(shard)
	if err != nil {
		log.Fatal().Err(err).Msg("shard not present in descriptor")
	}

	registry := prometheus.NewRegistry()
	store := blockstore.New(shard, blockstore.NewMetrics(registry))
	srv := blockstore.NewServer(store, log, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:    listenAddr(addr),
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("shard", int(shard)).Str("addr", httpServer.Addr).Msg("blockstore listening")
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
		return fmt.Errorf("blockstore server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// listenAddr strips any scheme from a descriptor address so it can be
// passed to http.Server.Addr, which expects a bare host:port.
func listenAddr(addr string) string {
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	return addr
}
