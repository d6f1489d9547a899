package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storechecker/storechecker/internal/infrastructure/services"
	ports "github.com/storechecker/storechecker/internal/usecases/ports/services"
	"github.com/storechecker/storechecker/pkg/config"
	"github.com/storechecker/storechecker/pkg/diff"
	"github.com/storechecker/storechecker/pkg/utils"
)

var (
	cfgFile string
	verbose bool
)

// AddGlobalFlags registers the flags shared by every command
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (yaml, toml or json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Bind flags to viper
	if err := viper.BindPFlag("config", root.PersistentFlags().Lookup("config")); err != nil {
		log.Printf("Failed to bind config flag: %v", err)
	}
	if err := viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose")); err != nil {
		log.Printf("Failed to bind verbose flag: %v", err)
	}
}

// loadConfig reads the configuration file, when given, and applies
// environment overrides and bound flags on top
func loadConfig() (*config.Config, error) {
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	configData := config.DefaultConfig()
	if cfgFile != "" {
		loaded, err := config.LoadConfig(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", cfgFile, err)
		}
		configData = loaded
	}

	if err := config.ApplyEnvOverrides(configData, viper.GetViper()); err != nil {
		return nil, err
	}
	if err := configData.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return configData, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := utils.MarshalJSONIndentString(v, "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func printDiff(cmd *cobra.Command, oldDoc, newDoc interface{}, name string) error {
	text, err := diff.Documents(oldDoc, newDoc, name)
	if err != nil {
		return err
	}
	if text == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "[DRY-RUN] No changes to %s\n", name)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "[DRY-RUN] Changes to %s:\n%s", name, text)
	return err
}

// printSuppressed lists the messages a dry run logged instead of sending
func printSuppressed(cmd *cobra.Command, notifier ports.NotificationService) error {
	logged, ok := notifier.(*services.LogNotificationService)
	if !ok {
		return nil
	}
	for _, msg := range logged.Sent() {
		for _, to := range msg.To {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "[DRY-RUN] Not sent: to=%s subject=%q\n", to, msg.Subject); err != nil {
				return err
			}
		}
	}
	return nil
}
