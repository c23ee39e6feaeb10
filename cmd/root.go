/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
	"github.com/ademuri/spotify-stats-tools/internal/ingest"
)

var cfgFile string
var periodFlag string
var modeFlag string
var timeUnitFlag string
var precisionFlag int
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-stats-tools",
	Short: "Performs analysis on exported Spotify listening history",
	Long: `Reads a Spotify extended streaming history export (ZIP or extracted
directory) and derives top lists, session statistics, and listening
insights over a chosen time period.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-stats-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&periodFlag, "period", "p", "all", "Time period: all, last7, last30, or a four-digit year")
	viper.BindPFlag("period", rootCmd.PersistentFlags().Lookup("period"))

	rootCmd.PersistentFlags().StringVarP(
		&modeFlag, "mode", "m", "time", "Ranking mode: time or count")
	viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))

	rootCmd.PersistentFlags().StringVar(
		&timeUnitFlag, "time-unit", "minutes", "Duration display unit: minutes or hours")
	viper.BindPFlag("time-unit", rootCmd.PersistentFlags().Lookup("time-unit"))

	rootCmd.PersistentFlags().IntVar(
		&precisionFlag, "precision", 1, "Decimal places for durations (0-3)")
	viper.BindPFlag("precision", rootCmd.PersistentFlags().Lookup("precision"))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-stats-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-stats-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadEngine ingests an export and configures the engine from the
// persistent flags. Flag misuse is reported before the slow load
// starts.
func loadEngine(path string) (*analytics.Engine, error) {
	period, err := analytics.ParsePeriod(viper.GetString("period"))
	if err != nil {
		return nil, err
	}
	mode, err := analytics.ParseMode(viper.GetString("mode"))
	if err != nil {
		return nil, err
	}
	unit, err := analytics.ParseTimeUnit(viper.GetString("time-unit"))
	if err != nil {
		return nil, err
	}

	loader := &ingest.Loader{Logger: newLogger()}
	events, err := loader.Load(context.Background(), path)
	if err != nil {
		return nil, fmt.Errorf("loading export: %w", err)
	}

	engine, err := analytics.NewEngine(events)
	if err != nil {
		return nil, err
	}
	engine.SetPeriod(period)
	engine.SetDisplayMode(mode)
	engine.SetTimeUnit(unit)
	if err := engine.SetDecimalPrecision(viper.GetInt("precision")); err != nil {
		return nil, err
	}
	return engine, nil
}
