package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"synthgrid/internal/stellar"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		paramsPath string
		prefix     string
		renderPlot bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Synthesize spectra for a list of parameter tuples",
		Long: "Read whitespace-separated teff/logg/feh tuples (one star per line, " +
			"'#' comments allowed) and synthesize one spectrum per tuple in input order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			settings, err := resolveSettings(cfg)
			if err != nil {
				return err
			}

			stars, err := readParamsFile(paramsPath)
			if err != nil {
				return err
			}

			result, err := synthesizeBatch(cmd.Context(), cfg, logger, stars, settings, prefix, renderPlot)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summarize(result, settings))
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "Path to the parameter tuple list (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "sample", "Output file prefix")
	cmd.Flags().BoolVar(&renderPlot, "plot", false, "Render an overlay plot of the batch")
	_ = cmd.MarkFlagRequired("params")

	return cmd
}

// readParamsFile parses one teff/logg/feh tuple per line.
func readParamsFile(path string) ([]stellar.Parameters, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter list: %w", err)
	}
	defer file.Close()

	var stars []stellar.Parameters
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("parameter list %s line %d: expected teff logg feh, got %q", path, lineNo, line)
		}
		var values [3]float64
		for i := 0; i < 3; i++ {
			values[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("parameter list %s line %d: %w", path, lineNo, err)
			}
		}
		stars = append(stars, stellar.Parameters{Teff: values[0], Logg: values[1], FeH: values[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read parameter list: %w", err)
	}
	if len(stars) == 0 {
		return nil, fmt.Errorf("parameter list %s holds no tuples", path)
	}
	return stars, nil
}
