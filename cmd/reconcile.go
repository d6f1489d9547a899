package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/storechecker/storechecker/internal/di"
	"github.com/storechecker/storechecker/internal/infrastructure/repositories"
	"github.com/storechecker/storechecker/internal/usecases/reconcile"
)

var reconcileDryRun bool

var ReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one price check over all subscribed products",
	Long: `Run one reconciliation pass: fetch the current price of every subscribed
product, mail subscribers about changes larger than $0.01 and save the new
price snapshots.

Use --dry-run to log the mail that would be sent and print the snapshot
changes without saving.`,
	RunE: runReconcile,
}

func init() {
	ReconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Show the snapshot changes without saving or sending mail")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	configData, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	container, err := di.NewContainer(ctx, configData, di.Options{DryRun: reconcileDryRun, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	resp, err := container.ReconcileUC.Execute(ctx, &reconcile.ReconcileRequest{DryRun: reconcileDryRun})
	if err != nil {
		return err
	}

	if reconcileDryRun {
		if err := printDiff(cmd,
			repositories.SnapshotTableDocument(resp.Previous),
			repositories.SnapshotTableDocument(resp.Snapshots),
			configData.SnapshotKey,
		); err != nil {
			return err
		}
		if err := printSuppressed(cmd, container.Notifier); err != nil {
			return err
		}
	}
	return printJSON(cmd, resp.Report)
}
