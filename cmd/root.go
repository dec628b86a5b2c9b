// Package cmd provides the command-line interface for cmdform.
//
// Configuration is layered, highest priority first:
//  1. Command-line flags (--port, --host, ...)
//  2. CMDFORM_ prefixed environment variables (CMDFORM_SERVER_PORT, ...)
//  3. A .cmdform.yml configuration file (or --config path)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmdform",
	Short: "Serve CLI commands as web forms",
	Long: `cmdform introspects cobra command definitions and serves each one as a
web form: one field per flag, with validation, invoking the command's
callback on a valid submission.

Quick Start:
  cmdform serve                   Serve the registered commands
  cmdform list                    List commands and their parameters`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .cmdform.yml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires viper to the config file and CMDFORM_ environment
// variables before any subcommand runs.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cmdform")
	}

	viper.SetEnvPrefix("CMDFORM")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
