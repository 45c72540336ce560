package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs/client"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <path> [local-path]",
	Short: "Download a picture from a running device",
	Long: `Download a file through a device's /view/ route.

Use "-" as local-path to write to stdout.

Examples:
  camfs get --endpoint http://192.168.1.50:81 /photo.jpg
  camfs get --endpoint http://192.168.4.1:81 /photo.jpg - > photo.jpg`,
	Args: cobra.RangeArgs(1, 2),
	// Talks to a remote device only; no local config is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging("", "info")
		return nil
	},
	RunE: runGet,
}

var (
	getEndpoint string
	getTimeout  time.Duration
)

func init() {
	getCmd.Flags().StringVarP(&getEndpoint, "endpoint", "e", "http://192.168.4.1:81", "device URL")
	getCmd.Flags().DurationVar(&getTimeout, "timeout", client.DefaultTimeout, "request timeout")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	c, err := client.New(getEndpoint, client.WithTimeout(getTimeout))
	if err != nil {
		return err
	}

	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}

	if localPath == "-" {
		_, err := c.Download(cmd.Context(), args[0], os.Stdout)
		return err
	}

	saved, n, err := c.DownloadFile(cmd.Context(), args[0], localPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Downloaded: %s -> %s (%d bytes)\n", args[0], saved, n)
	return nil
}
