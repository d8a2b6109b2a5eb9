// Package cli provides the firmproto command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/firmproto/internal/adapters/driven/config/file"
	"github.com/custodia-labs/firmproto/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

// configStore is loaded before any command runs.
var configStore *configfile.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "firmproto",
	Short: "Inspect and exercise firmware protocol call tables",
	Long: `firmproto works with firmware file, serial and pointer protocol tables.

It translates status codes, decodes and encodes exact-layout records,
runs conformance scenarios against an emulated provider, and probes host
serial devices through the same safe wrappers used with real firmware.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "trace every call table invocation to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.firmproto/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	var (
		store *configfile.ConfigStore
		err   error
	)
	if configFlag != "" {
		store, err = configfile.OpenConfigFile(configFlag)
	} else {
		store, err = configfile.NewConfigStore("")
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Debug("config: %s", store.Path())
	configStore = store
	return nil
}
