package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/humanpath/internal/batch"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"github.com/xkilldash9x/humanpath/internal/observability"
	"go.uber.org/zap"
)

func newBatchCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate trajectories for a JSON file of jobs",
		Long: `Reads a JSON array of {"id", "from": {"x","y"}, "to": {"x","y"}, "seed"} jobs
and writes one result per job, in input order, with either "frames" or "error".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			synth, err := humanoid.New(cfg.Trajectory.ToHumanoid(), logger)
			if err != nil {
				return err
			}

			jobs, err := readJobs(input)
			if err != nil {
				return err
			}
			logger.Info("Running batch", zap.Int("jobs", len(jobs)), zap.Int("concurrency", cfg.Batch.Concurrency))

			results, err := batch.Run(cmd.Context(), synth, jobs, cfg.Batch.Concurrency, logger)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), output, results)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the jobs file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write results to (default stdout)")
	cmd.Flags().Int("concurrency", 0, "maximum jobs synthesized at once (overrides batch.concurrency)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readJobs(path string) ([]batch.Job, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding input path: %w", err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("opening jobs file: %w", err)
	}
	defer f.Close()
	return batch.DecodeJobs(f)
}

func writeResults(stdout io.Writer, path string, results []batch.Result) error {
	if path == "" {
		return batch.EncodeResults(stdout, results)
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding output path: %w", err)
	}
	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	if err := batch.EncodeResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
