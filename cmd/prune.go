package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/storechecker/storechecker/internal/di"
	"github.com/storechecker/storechecker/internal/infrastructure/repositories"
	"github.com/storechecker/storechecker/internal/usecases/subscription"
)

var pruneDryRun bool

var PruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove products that have no subscribers",
	Long: `Remove products that have no subscribers left from the registry.

Use --dry-run to preview what would be removed without making any changes.`,
	RunE: runPrune,
}

func init() {
	PruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Show what would be removed without saving")
}

func runPrune(cmd *cobra.Command, args []string) error {
	configData, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	container, err := di.NewContainer(ctx, configData, di.Options{DryRun: pruneDryRun, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	resp, err := container.PruneUC.Execute(ctx, &subscription.PruneRequest{DryRun: pruneDryRun})
	if err != nil {
		return err
	}

	if pruneDryRun {
		if err := printDiff(cmd,
			repositories.RegistryDocument(resp.Previous),
			repositories.RegistryDocument(resp.Registry),
			configData.RegistryKey,
		); err != nil {
			return err
		}
	}
	return printJSON(cmd, resp.Outcome)
}
