// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ratelaw CLI, which classifies the
// rate laws of model corpora by kinetic mechanism and reports the label
// distribution.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ratelaw CLI.
var rootCmd = &cobra.Command{
	Use:   "ratelaw",
	Short: "Classify reaction rate laws by kinetic mechanism",
	Long: `ratelaw reads model documents (species, parameters, function definitions
and reactions with rate laws), expands function calls in each rate law,
and labels it with a kinetic mechanism: zeroth order, mass action,
Michaelis-Menten, Hill, fraction, polynomial, or not classified.

Corpus runs are stored in a SQLite database so that label distributions
can be queried per reaction type and exported afterwards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ratelaw.yaml or ~/.config/ratelaw/ratelaw.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store-dir", "census", "directory holding census.db and exports")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ratelaw")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ratelaw"))
		}
	}

	viper.SetEnvPrefix("RATELAW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
