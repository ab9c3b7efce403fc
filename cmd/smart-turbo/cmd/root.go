// Package cmd provides the CLI commands for the Smart Turbo client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/config"
)

var (
	cfgFile       string
	stateFilePath string
	apiURLFlag    string
	outputFlag    string
	traceFlag     bool
	debugFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "smart-turbo",
	Short: "Smart Turbo - load testing platform client",
	Long: `smart-turbo is the command-line client for the Smart Turbo load
testing platform.

It manages your session, load test definitions, results, reports and
(for managers) user accounts against a Smart Turbo backend.

Quick start:
  1. Log in:           smart-turbo login -u alice
  2. List your tests:  smart-turbo test list
  3. Run one:          smart-turbo test run 42

Configuration:
  Config is loaded from smart-turbo.yaml in the current directory,
  $HOME/.smart-turbo/, or /etc/smart-turbo/.

  Environment variables can override config values with the SMART_TURBO_ prefix.
  Example: SMART_TURBO_API_BASE_URL=https://turbo.example.com

Commands:
  login/logout/whoami  Session lifecycle
  test                 Manage and run load tests
  results              Show test results
  stats                Dashboard statistics
  templates            Browse test templates
  report               Check, generate and download reports
  users                Manage user accounts (managers only)
  audit                Browse the audit trail (managers only)
  monitor              Live-monitor a running test
  config               Manage configuration
  version              Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./smart-turbo.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFilePath, "state", "", "path to state.json file (default: ~/.smart-turbo/state.json)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "export request traces to stderr")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

func initConfig() {
	config.InitViper(cfgFile)
}
