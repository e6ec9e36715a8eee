package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/humanpath/internal/config"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"github.com/xkilldash9x/humanpath/internal/observability"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Output formats accepted by --format.
const (
	formatJSON  = "json"
	formatFlat  = "flat"
	formatLines = "lines"
)

type generateOptions struct {
	from   string
	to     string
	seed   int64
	format string
}

// generateOutput is the JSON document written for --format json.
type generateOutput struct {
	From   humanoid.Vector2D   `json:"from"`
	To     humanoid.Vector2D   `json:"to"`
	Frames humanoid.Trajectory `json:"frames"`
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single pointer trajectory",
		Example: `  humanpath generate --from 0,0 --to 640,480
  humanpath generate --from 10,300 --to 900,40 --seed 42 --format flat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				seed := opts.seed
				cfg.Trajectory.Seed = &seed
			}
			return runGenerate(cfg, observability.GetLogger(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "source point as x,y")
	cmd.Flags().StringVar(&opts.to, "to", "", "target point as x,y")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for a reproducible trajectory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, flat or lines")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runGenerate(cfg *config.Config, logger *zap.Logger, opts *generateOptions, w io.Writer) error {
	from, err := parsePoint(opts.from)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parsePoint(opts.to)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	synth, err := humanoid.New(cfg.Trajectory.ToHumanoid(), logger)
	if err != nil {
		return err
	}
	frames, err := synth.Synthesize(from, to)
	if err != nil {
		return err
	}

	return writeTrajectory(w, opts.format, generateOutput{From: from, To: to, Frames: frames})
}

func writeTrajectory(w io.Writer, format string, out generateOutput) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatFlat:
		return json.NewEncoder(w).Encode(out.Frames.Flatten())
	case formatLines:
		bw := bufio.NewWriter(w)
		for _, p := range out.Frames {
			fmt.Fprintf(bw, "%d,%d\n", p.X, p.Y)
		}
		return bw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatJSON, formatFlat, formatLines)
	}
}

// parsePoint parses "x,y" into a vector.
func parsePoint(s string) (humanoid.Vector2D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return humanoid.Vector2D{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return humanoid.Vector2D{}, fmt.Errorf("parsing x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return humanoid.Vector2D{}, fmt.Errorf("parsing y in %q: %w", s, err)
	}
	return humanoid.Vector2D{X: x, Y: y}, nil
}
