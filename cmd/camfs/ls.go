package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the pictures the index page would show",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().Int("max-files", camfs.DefaultMaxNumFiles, "maximum number of files to list")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := camfs.NewCatalog(store).List(ctx, cfg.Server.MaxFiles)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "IDX\tFILENAME\tSIZE")
	for i, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, e.Name(), camfs.FormatBytes(uint64(max(e.Size, 0))))
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}

	if err != nil {
		return fmt.Errorf("listing incomplete: %w", err)
	}
	return nil
}
