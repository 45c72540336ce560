package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <file1> [file2] ...",
	Short: "Copy pictures onto the device storage",
	Long: `Copy files from the local disk into the configured storage.

Files keep their base name unless --dest gives a prefix. Only files whose
names contain .jpg or .jpeg show up on the index page, but anything can be
stored and fetched through /view/.

Examples:
  # Add a single picture
  camfs add /path/to/photo.jpg

  # Add a directory recursively into the flash image
  camfs add --storage-type flash -r /path/to/shots`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDest      string
	addRecursive bool
	addQuiet     bool
)

func init() {
	addCmd.Flags().StringVarP(&addDest, "dest", "d", "", "destination path prefix in storage")
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "recursively add directories")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(addCmd)
}

// fileEntry represents a file to be added with its source and destination paths.
type fileEntry struct {
	sourcePath string
	destPath   string
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var files []fileEntry
	for _, arg := range args {
		entries, err := collectFiles(arg, addRecursive, addDest)
		if err != nil {
			return fmt.Errorf("collect files from %s: %w", arg, err)
		}
		files = append(files, entries...)
	}

	if len(files) == 0 {
		slog.Info("no files to add")
		return nil
	}

	_, store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	added := 0
	for _, entry := range files {
		f, err := os.Open(entry.sourcePath)
		if err != nil {
			return fmt.Errorf("open %s: %w", entry.sourcePath, err)
		}

		n, writeErr := store.Write(ctx, entry.destPath, f)
		_ = f.Close()

		if writeErr != nil {
			return fmt.Errorf("add %s: %w", entry.destPath, writeErr)
		}

		added++
		if !addQuiet {
			slog.Info("added", "path", entry.destPath, "size", camfs.FormatBytes(uint64(n)))
		}
	}

	slog.Info("add complete", "added", added)
	return nil
}

// collectFiles gathers files from a path, optionally recursively.
// Returns a list of file entries with source and destination paths.
func collectFiles(path string, recursive bool, destPrefix string) ([]fileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	destPrefix = strings.TrimPrefix(destPrefix, "/")
	if destPrefix != "" && !strings.HasSuffix(destPrefix, "/") {
		destPrefix += "/"
	}

	if !info.IsDir() {
		return []fileEntry{{sourcePath: path, destPath: "/" + destPrefix + filepath.Base(path)}}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to add recursively)", path)
	}

	var entries []fileEntry
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(path, walkPath)
		if relErr != nil {
			return relErr
		}

		entries = append(entries, fileEntry{
			sourcePath: walkPath,
			destPath:   "/" + destPrefix + filepath.ToSlash(relPath),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return entries, nil
}
