package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/bench"
	"github.com/pzverkov/pqbench/pkg/report"
)

// NewBenchCmd runs a one-shot benchmark in the terminal.
func NewBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a handshake benchmark and print a report",
		Long: `Run the handshake benchmark headless and print a markdown report to
stdout. Unknown mode names are skipped; latency and packet loss are
clamped to the supported simulation range.`,
		RunE: runBenchCmd,
	}

	cmd.Flags().StringSlice("modes", []string{"classical", "pqc"}, "Modes to benchmark (classical, pqc, hybrid)")
	cmd.Flags().Float64("latency", 0, "Simulated network latency in milliseconds (0-200)")
	cmd.Flags().Float64("packet-loss", 0, "Simulated packet loss in percent (0-10)")
	cmd.Flags().String("json", "", "Also write raw results as JSON to this file")
	cmd.Flags().Bool("verbose", false, "Log individual run events to stderr")

	return cmd
}

func runBenchCmd(cmd *cobra.Command, args []string) error {
	modes, err := cmd.Flags().GetStringSlice("modes")
	if err != nil {
		return err
	}
	latency, err := cmd.Flags().GetFloat64("latency")
	if err != nil {
		return err
	}
	packetLoss, err := cmd.Flags().GetFloat64("packet-loss")
	if err != nil {
		return err
	}
	jsonPath, err := cmd.Flags().GetString("json")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	cfg, err := bench.NewRunConfig(modes, latency, packetLoss)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	total := len(cfg.Modes) * constants.IterationsPerMode
	done := 0
	progress := func(mode constants.Mode, _, _ int) {
		done++
		// Progress indicator every 10% (or every iteration if total < 10)
		step := total / 10
		if step == 0 {
			step = 1
		}
		if done%step == 0 || done == total {
			fmt.Fprintf(os.Stderr, "Progress: %d/%d (%.0f%%) %s\r",
				done, total, float64(done)/float64(total)*100, mode)
		}
	}

	opts := []bench.Option{bench.WithProgress(progress)}
	if verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts = append(opts, bench.WithLogger(log))
	}

	results, err := bench.NewRunner(cfg, opts...).Run(ctx)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	if err := report.Generate(os.Stdout, results); err != nil {
		return err
	}

	if jsonPath != "" {
		if err := writeJSON(jsonPath, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Raw results written to %s\n", jsonPath)
	}

	return nil
}

func writeJSON(path string, results *bench.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating results file")
	}

	if err := report.GenerateJSON(f, results); err != nil {
		_ = f.Close()
		return err
	}

	return errors.Wrap(f.Close(), "closing results file")
}
