package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/config"
	"github.com/sagarc03/camfs/server"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the WiFi and storage settings interactively",
	Long: `Prompt for the WiFi network, port and storage backend and save them to
the config file (--config, default ./config.yaml). Existing values are offered
as defaults. The file is written with owner-only permissions because it holds
the WiFi password.`,
	Args: cobra.NoArgs,
	// The file being written may not load yet, so skip config.Load.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging("", "info")
		return nil
	},
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return "config.yaml"
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	path := configPath(cmd)

	f, err := config.LoadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		f = &config.File{}
	}

	modeSelect := promptui.Select{
		Label: "WiFi mode",
		Items: []string{string(camfs.ModeClient), string(camfs.ModeAccessPoint)},
	}
	if f.WiFi.Mode == string(camfs.ModeAccessPoint) {
		modeSelect.CursorPos = 1
	}
	_, mode, err := modeSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	ssidPrompt := promptui.Prompt{
		Label:   "SSID",
		Default: f.WiFi.SSID,
		Validate: func(input string) error {
			if input == "" {
				return errors.New("SSID is required")
			}
			return nil
		},
	}
	ssid, err := ssidPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	passwordPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	if password == "" {
		password = f.WiFi.Password
	}

	timeoutPrompt := promptui.Prompt{
		Label:   "Connect timeout",
		Default: orDefault(f.WiFi.Timeout, camfs.DefaultConnectTimeout.String()),
		Validate: func(input string) error {
			d, parseErr := time.ParseDuration(input)
			if parseErr != nil {
				return fmt.Errorf("invalid duration: %w", parseErr)
			}
			if d <= 0 {
				return errors.New("timeout must be positive")
			}
			return nil
		},
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(orDefaultInt(f.Server.Port, server.DefaultPort)),
		Validate: func(input string) error {
			port, convErr := strconv.Atoi(input)
			if convErr != nil || port < 1 || port > 65535 {
				return errors.New("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	port, _ := strconv.Atoi(portStr)

	storageSelect := promptui.Select{
		Label: "Storage",
		Items: []string{server.StorageSDCard, server.StorageFlash},
	}
	if f.Storage.Type == server.StorageFlash {
		storageSelect.CursorPos = 1
	}
	_, storageType, err := storageSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	storagePath := f.Storage.Path
	if storageType == server.StorageSDCard {
		pathPrompt := promptui.Prompt{
			Label:   "Card mount path",
			Default: orDefault(f.Storage.Path, "./data"),
		}
		storagePath, err = pathPrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	f.WiFi = config.WiFiSection{
		Mode:     mode,
		SSID:     ssid,
		Password: password,
		Timeout:  timeout,
	}
	f.Server.Port = port
	f.Storage = config.StorageSection{Type: storageType, Path: storagePath}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		fmt.Println("\nCancelled.")
		return nil
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
