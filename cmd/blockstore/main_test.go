package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenAddrStripsScheme(t *testing.T) {
	require.Equal(t, "127.0.0.1:9000", listenAddr("http://127.0.0.1:9000"))
	require.Equal(t, "127.0.0.1:9000", listenAddr("https://127.0.0.1:9000"))
	require.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}

func TestRootCmdRequiresTwoArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"only-one-arg"})

	err := rootCmd.Execute()
	require.Error(t, err)
}
