// Command surfclient drives upload/download/delete against a SurfStore
// cluster named by a cluster descriptor file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dreamware/surfstore/internal/cluster"
	"github.com/dreamware/surfstore/internal/surfclient"
	"github.com/dreamware/surfstore/internal/surfstorelog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "surfclient <descriptor> <loc_method>",
	Short: "Upload, download, or delete files against a SurfStore cluster",
	Long: `surfclient <descriptor> <loc_method> upload   <filepath>
surfclient <descriptor> <loc_method> download <filename> <dest_dir>
surfclient <descriptor> <loc_method> delete   <filename>

loc_method selects block placement on upload: "hash" or "dist".`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRoot,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	surfstorelog.Init(surfstorelog.Config{Level: level, JSON: jsonOutput})
}

// runRoot handles the positional grammar `<descriptor> <loc_method> <verb> ...`
// directly, since cobra's subcommand dispatch can't see past two leading
// positional arguments on its own.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: surfclient <descriptor> <loc_method> upload|download|delete ...")
	}

	descriptorPath, locMethod, verb, rest := args[0], args[1], args[2], args[3:]

	policy, err := surfclient.ParsePolicy(locMethod)
	if err != nil {
		return err
	}

	descriptor, err := cluster.ParseDescriptor(descriptorPath)
	if err != nil {
		return fmt.Errorf("surfclient: %w", err)
	}

	log := surfstorelog.WithComponent("client")
	c := surfclient.New(descriptor, policy, log)
	ctx := context.Background()

	var outcome surfclient.Outcome
	switch verb {
	case "upload":
		if len(rest) != 1 {
			return fmt.Errorf("usage: surfclient <descriptor> <loc_method> upload <filepath>")
		}
		outcome, err = c.Upload(ctx, rest[0])
	case "download":
		if len(rest) != 2 {
			return fmt.Errorf("usage: surfclient <descriptor> <loc_method> download <filename> <dest_dir>")
		}
		outcome, err = c.Download(ctx, rest[0], rest[1])
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: surfclient <descriptor> <loc_method> delete <filename>")
		}
		outcome, err = c.Delete(ctx, rest[0])
	default:
		return fmt.Errorf("surfclient: unknown command %q, want upload, download, or delete", verb)
	}

	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(outcome))
	return nil
}
