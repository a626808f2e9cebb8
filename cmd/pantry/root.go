// Root command for the pantry CLI.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pantry-app/pantry/internal/paths"
	"github.com/pantry-app/pantry/internal/sqlite"
	"github.com/pantry-app/pantry/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// store is the global store instance, opened by PersistentPreRunE.
var store *sqlite.Store

// logger backs the store and collaborators. Nop unless --verbose.
var logger *zap.SugaredLogger

var rootCmd = &cobra.Command{
	Use:           "pantry",
	Short:         "Pantry is a local-first personal inventory store",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Pantry keeps track of your items, the places they are stored in and the
categories they belong to, with custom fields, tags, attachments, scannable
codes and full-text search, all in a single local database file.`,
	PersistentPreRunE:  openStore,
	PersistentPostRunE: closeStore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log store activity to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(expiringCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(setValueCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(factoryResetCmd)
	rootCmd.AddCommand(configCmd)
}

// openStore loads config and opens the database. The version command needs
// no store.
func openStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if flagVerbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = zl.Sugar()
	} else {
		logger = zap.NewNop().Sugar()
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return err
	}

	store = sqlite.New(logger)
	return store.Open(types.Config{
		DataDir: dataDir,
		Locale:  cfg.GetString(cfgKeyLocale),
	})
}

// closeStore releases the database connection.
func closeStore(cmd *cobra.Command, args []string) error {
	if store != nil {
		return store.Close()
	}
	return nil
}
