// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/CrawX/go-mailbridge/config"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/spf13/cobra"
)

// Version is reported to imap servers through the ID extension.
var Version = "dev"

var (
	configFile string
	loglevel   string
)

var rootCmd = &cobra.Command{
	Use:   "mailbridge",
	Short: "Mail integration service for IMAP and SMTP accounts",
	Long: `mailbridge lets users read, organize and send mail of their own IMAP/SMTP accounts
through a small JSON API.

Examples:
  mailbridge serve --config config.toml
  mailbridge keygen
  mailbridge settings set --user 42 --imap-host imap.example.org --imap-user me@example.org
  mailbridge documents add --user 42 --name invoice.pdf --path 42/invoice.pdf`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.InitLogging(loglevel)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.toml", "path to the toml config file")
	rootCmd.PersistentFlags().StringVar(&loglevel, "loglevel", "info", "log level, overridden by Loglevel in the config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(documentsCmd)
}

// loadConfig reads the config file, a missing default file falls back to the built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	conf, err := config.ReadConfig(configFile)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Logger(log.LOG_MAIN).WithField("file", configFile).Info("No config file found, using defaults")
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	return conf, nil
}
