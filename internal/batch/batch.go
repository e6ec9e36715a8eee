// Package batch synthesizes many independent trajectories concurrently.
package batch

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Job is one source/target pair to synthesize.
type Job struct {
	ID   string            `json:"id,omitempty"`
	From humanoid.Vector2D `json:"from"`
	To   humanoid.Vector2D `json:"to"`
	// Seed, when set, makes this job reproducible regardless of the synthesizer's own seed.
	Seed *int64 `json:"seed,omitempty"`
}

// Result is the outcome of one Job. A failed job carries Err and no frames.
type Result struct {
	ID     string              `json:"id"`
	Frames humanoid.Trajectory `json:"frames,omitempty"`
	Err    string              `json:"error,omitempty"`
}

// Run synthesizes every job with at most concurrency jobs in flight and returns
// the results in input order. Per-job failures are reported in Result.Err;
// the returned error is non-nil only when ctx ends before all jobs finish.
func Run(ctx context.Context, synth *humanoid.Synthesizer, jobs []Job, concurrency int, logger *zap.Logger) ([]Result, error) {
	if synth == nil {
		return nil, fmt.Errorf("%w: batch needs a synthesizer", humanoid.ErrInvalidArgument)
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("%w: concurrency must be positive, got %d", humanoid.ErrInvalidArgument, concurrency)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("batch")

	results := make([]Result, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = runJob(synth, job)
			if results[i].Err != "" {
				logger.Warn("Job failed", zap.String("job_id", job.ID), zap.String("error", results[i].Err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}
	logger.Info("Batch complete", zap.Int("jobs", len(jobs)), zap.Int("concurrency", concurrency))
	return results, nil
}

func runJob(synth *humanoid.Synthesizer, job Job) Result {
	var (
		frames humanoid.Trajectory
		err    error
	)
	if job.Seed != nil {
		frames, err = synth.SynthesizeWithRand(job.From, job.To, rand.New(rand.NewSource(*job.Seed)))
	} else {
		frames, err = synth.Synthesize(job.From, job.To)
	}
	if err != nil {
		return Result{ID: job.ID, Err: err.Error()}
	}
	return Result{ID: job.ID, Frames: frames}
}

// DecodeJobs reads a JSON array of jobs.
func DecodeJobs(r io.Reader) ([]Job, error) {
	var jobs []Job
	if err := json.NewDecoder(r).Decode(&jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}
	return jobs, nil
}

// EncodeResults writes results as an indented JSON array.
func EncodeResults(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
