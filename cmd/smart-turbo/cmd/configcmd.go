package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rambozzang/smart-turbo-cli/internal/config"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration and preferences",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a commented default configuration file.

The file is written to ~/.smart-turbo/smart-turbo.yaml unless --path is
given. Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a persisted preference",
	Long: `Set a preference persisted in the state file.

Supported keys:
  preferences.dark_mode   true|false
  preferences.locale      locale tag, e.g. ko or en-US

Examples:
  smart-turbo config set preferences.dark_mode true
  smart-turbo config set preferences.locale en`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "destination file (default: ~/.smart-turbo/smart-turbo.yaml)")
	configCmd.AddCommand(configInitCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	if a.jsonOutput() {
		return renderJSON(a.cfg)
	}

	if used := config.ConfigFileUsed(); used != "" {
		fmt.Printf("# loaded from %s\n", used)
	} else {
		fmt.Println("# no config file found, defaults and environment only")
	}
	data, err := yaml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))

	prefs := a.states.LoadPreferences()
	fmt.Printf("# state file %s\n", a.states.Path())
	fmt.Printf("preferences:\n  dark_mode: %t\n  locale: %s\n", prefs.DarkMode, prefs.Locale)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	key, value := args[0], args[1]
	prefs := a.states.LoadPreferences()

	switch key {
	case "preferences.dark_mode":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: must be true or false", value, key)
		}
		prefs.DarkMode = enabled
	case "preferences.locale":
		probe := config.Config{Preferences: config.PreferencesConfig{Locale: value}}
		probe.SetDefaults()
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("invalid locale %q", value)
		}
		prefs.Locale = value
	default:
		return fmt.Errorf("unknown key %q: supported keys are preferences.dark_mode and preferences.locale", key)
	}

	if err := a.states.SavePreferences(prefs); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
