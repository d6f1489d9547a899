package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/storechecker/storechecker/internal/di"
	"github.com/storechecker/storechecker/internal/infrastructure/repositories"
	"github.com/storechecker/storechecker/internal/usecases/subscription"
)

var (
	jobEventFile string
	jobDryRun    bool
)

var JobCmd = &cobra.Command{
	Use:   "job",
	Short: "Perform one subscription request",
	Long: `Perform one subscription request read from a JSON event.

The event is either the request itself, e.g.
  {"type": "ADD", "subscriber": "me@example.com", "id": "game-x-switch"}
or a gateway event whose queryStringParameters (or, when empty, whose
referer header) carry the request parameters.

Use --dry-run to print the registry changes without sending mail or saving.

Examples:
  echo '{"type": "CHECK", "subscriber": "me@example.com"}' | storechecker job
  storechecker job --event event.json --dry-run`,
	RunE: runJob,
}

func init() {
	JobCmd.Flags().StringVarP(&jobEventFile, "event", "e", "-", "Event file, - for stdin")
	JobCmd.Flags().BoolVar(&jobDryRun, "dry-run", false, "Show the registry changes without saving or sending mail")
}

func runJob(cmd *cobra.Command, args []string) error {
	configData, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := readEvent(cmd, jobEventFile)
	if err != nil {
		return err
	}
	req, err := subscription.DecodeEvent(data)
	if err != nil {
		return err
	}

	ctx := context.Background()
	container, err := di.NewContainer(ctx, configData, di.Options{DryRun: jobDryRun, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	resp, err := container.PerformJobUC.Execute(ctx, &subscription.PerformJobRequest{
		Request: req,
		DryRun:  jobDryRun,
	})
	if err != nil {
		return err
	}

	if out, err := json.Marshal(repositories.RegistryDocument(resp.Registry)); err == nil {
		log.Printf("[JOB %s] Registry: %s", resp.InvocationID, out)
	}
	if jobDryRun {
		if err := printDiff(cmd,
			repositories.RegistryDocument(resp.Previous),
			repositories.RegistryDocument(resp.Registry),
			configData.RegistryKey,
		); err != nil {
			return err
		}
		if err := printSuppressed(cmd, container.Notifier); err != nil {
			return err
		}
	}
	return printJSON(cmd, resp.Outcome)
}

func readEvent(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" || path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}
