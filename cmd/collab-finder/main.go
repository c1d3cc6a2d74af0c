// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the collab-finder CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the collab-finder CLI.
var rootCmd = &cobra.Command{
	Use:   "collab-finder",
	Short: "Research compatibility and co-authorship network engine",
	Long: `collab-finder mines the OpenAlex bibliographic graph to help researchers
find collaborators: co-authorship networks, per-author research profiles,
multi-factor compatibility scores, and trending topic/author rankings.

The serve subcommand runs the HTTP API; when OpenAlex is unreachable the
service answers from a bundled offline snapshot.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./collab-finder.yaml or ~/.config/collab-finder/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("collab-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "collab-finder"))
		}
	}

	viper.SetEnvPrefix("COLLAB_FINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
