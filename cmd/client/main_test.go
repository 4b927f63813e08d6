package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamware/surfstore/internal/blockstore"
	"github.com/dreamware/surfstore/internal/blockstoreclient"
	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/metadatastore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// writeTestDescriptor spins up a one-shard cluster and writes a matching
// descriptor file, returning its path.
func writeTestDescriptor(t *testing.T) string {
	t.Helper()

	registry := prometheus.NewRegistry()
	store := blockstore.New(0, blockstore.NewMetrics(registry))
	blockSrv := blockstore.NewServer(store, zerolog.Nop(), promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	blockTS := httptest.NewServer(blockSrv)
	t.Cleanup(blockTS.Close)

	descriptor := &cluster.Descriptor{
		BlockStores:    map[cluster.ShardID]string{0: blockTS.URL},
		NumBlockStores: 1,
	}
	pool := blockstoreclient.NewPool(descriptor)
	metaRegistry := prometheus.NewRegistry()
	metaStore := metadatastore.New(pool, metadatastore.NewMetrics(metaRegistry))
	metaSrv := metadatastore.NewServer(metaStore, zerolog.Nop(), promhttp.HandlerFor(metaRegistry, promhttp.HandlerOpts{}))
	metaTS := httptest.NewServer(metaSrv)
	t.Cleanup(metaTS.Close)

	path := filepath.Join(t.TempDir(), "cluster.conf")
	content := "B: 1\nmetadata: " + metaTS.URL + "\nblock0: " + blockTS.URL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestUploadDownloadViaCLI(t *testing.T) {
	descriptorPath := writeTestDescriptor(t)
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "a.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("hello"), 0o644))

	out, err := execRoot(t, descriptorPath, "hash", "upload", srcPath)
	require.NoError(t, err)
	require.Equal(t, "OK\n", out)

	dstDir := t.TempDir()
	out, err = execRoot(t, descriptorPath, "hash", "download", "a.txt", dstDir)
	require.NoError(t, err)
	require.Equal(t, "OK\n", out)

	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestDeleteUnknownFileViaCLI(t *testing.T) {
	descriptorPath := writeTestDescriptor(t)

	out, err := execRoot(t, descriptorPath, "hash", "delete", "nope.txt")
	require.NoError(t, err)
	require.Equal(t, "Not Found\n", out)
}

func TestUploadMissingLocalFileViaCLI(t *testing.T) {
	descriptorPath := writeTestDescriptor(t)

	out, err := execRoot(t, descriptorPath, "hash", "upload", filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	require.Equal(t, "Not Found\n", out)
}

func TestInvalidLocMethodFailsBeforeContactingAnyServer(t *testing.T) {
	_, err := execRoot(t, "/does/not/exist.conf", "bogus", "upload", "x")
	require.Error(t, err)
}

func TestUnknownVerbFails(t *testing.T) {
	descriptorPath := writeTestDescriptor(t)

	_, err := execRoot(t, descriptorPath, "hash", "frobnicate", "x")
	require.Error(t, err)
}
