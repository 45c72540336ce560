package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs"
)

var rmCmd = &cobra.Command{
	Use:     "rm [flags] <path1> [path2] ...",
	Aliases: []string{"remove"},
	Short:   "Delete files from the device storage",
	Long: `Delete files from the configured storage by their store path, as
shown by "camfs ls" or in a /view/ link.

Examples:
  camfs rm /photo.jpg
  camfs rm --force /old1.jpg /old2.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRm,
}

var rmForce bool

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "ignore files that do not exist")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	removed := 0
	for _, arg := range args {
		path, err := camfs.StorePath(arg)
		if err != nil {
			return err
		}

		if err := store.Delete(ctx, path); err != nil {
			if rmForce && errors.Is(err, camfs.ErrNotFound) {
				slog.Debug("not found, skipping", "path", path)
				continue
			}
			return fmt.Errorf("remove %s: %w", path, err)
		}

		removed++
		slog.Info("removed", "path", path)
	}

	slog.Info("remove complete", "removed", removed)
	return nil
}
