package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/fdmsim/internal/analysis"
	"github.com/san-kum/fdmsim/internal/experiment"
	"github.com/san-kum/fdmsim/internal/export"
	"github.com/san-kum/fdmsim/internal/logging"
	"github.com/san-kum/fdmsim/internal/optim"
	"github.com/san-kum/fdmsim/internal/storage"
	"github.com/san-kum/fdmsim/internal/viz"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	data := storage.Column(records, column)
	if data == nil {
		return errors.Errorf("unknown column %q (available: %s)", column, strings.Join(storage.Columns(), ", "))
	}

	spectrum, err := analysis.PowerSpectrum(data, meta.Dt)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	plotData := spectrum.Amplitude[1:]
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("amplitude spectrum (%s), 0 to %.2f hz", column, spectrum.Freqs[len(spectrum.Freqs)-1])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, amp := spectrum.Dominant()
	fmt.Printf("dominant frequency: %.3f hz (amplitude %.4g)\n", freq, amp)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", spectrum.Period())
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no data to render")
	}

	var svg string
	switch svgView {
	case "track":
		svg = export.GroundTrackToSVG(records, 600, 600, "#00ff88")
		if svg == "" {
			return errors.New("run too short for a ground track")
		}
	case "plan":
		i := len(records) - 1
		if svgAt >= 0 {
			for i > 0 && records[i].Time > svgAt {
				i--
			}
		}
		from := max(0, i-200)
		svg = export.CanvasToSVG(viz.PlanView(records[i], records[from:i+1], 60, 30), 6)
	default:
		return errors.Errorf("unknown view %q (track or plan)", svgView)
	}

	if outFile == "" {
		_, err = fmt.Println(svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, errors.Errorf("bad grid %q, want name=v1,v2", arg)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "grid %q", name)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneAutopilot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cfg.Autopilot.AltitudeHold {
		cfg.Autopilot.AltitudeHold = true
		cfg.Autopilot.AttitudeHold = true
	}

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync()
	logger.Infow("tuning", "points", len(grid.Points()), "metric", tuneMetric)

	best, outcomes, err := grid.Search(cmd.Context(), experiment.NewRegistry(), cfg, tuneMetric, logging.Nop())
	for _, o := range outcomes {
		status := fmt.Sprintf("%.4f", o.Value)
		if o.Err != nil {
			status = o.Err.Error()
		}
		fmt.Printf("  %v  %s\n", o.Params, status)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4f at %v\n", tuneMetric, best.Value, best.Params)
	return nil
}

