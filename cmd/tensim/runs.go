package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tensim/internal/analysis"
	"github.com/san-kum/tensim/internal/experiment"
	"github.com/san-kum/tensim/internal/export"
	"github.com/san-kum/tensim/internal/models"
	"github.com/san-kum/tensim/internal/sim"
	"github.com/san-kum/tensim/internal/storage"
)

var axisNames = []string{"x", "y", "z"}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTRUCTURE\tTIME\tDURATION\tDT\tINTEG\tCONSTRAINTS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4gs\t%s\t%v\t%.2e\n",
			run.ID,
			run.Structure,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Constraints,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func listStructures(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tPARAMS")
	for _, name := range registry.ListStructures() {
		s, err := registry.GetStructure(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, s.Description(), strings.Join(models.ParamNames(s), ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nintegrators: %s\n", strings.Join(registry.ListIntegrators(), ", "))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	fmt.Printf("structure: %s\n", meta.Structure)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, component := range []string{"total", "kinetic", "gravitational", "elastic"} {
		data, err := analysis.EnergySeries(frames, component)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(component+" energy"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if plotNode < 0 {
		return nil
	}

	data, err := analysis.NodeSeries(frames, meta.Dimension, plotNode, plotAxis)
	if err != nil {
		return err
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("node %d %s", plotNode, axisNames[plotAxis])),
	)
	fmt.Println(graph)
	fmt.Println()

	if plotPath {
		path, err := analysis.TracePath(frames, meta.Dimension, plotNode, 0, 1)
		if err != nil {
			return err
		}
		fmt.Printf("node %d path (x, y)\n", plotNode)
		fmt.Println(analysis.PathToASCII(path, 60, 20))
	}

	if svgOut != "" {
		if err := writePathSVG(frames, meta.Dimension); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}

	return nil
}

func writePathSVG(frames []sim.Frame, dimension int) error {
	path, err := analysis.TracePath(frames, dimension, plotNode, 0, 1)
	if err != nil {
		return err
	}
	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	if err := export.PathSVG(f, path, 800, 600, "#00ffff"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames", runID)
	}
	sampleDt := frames[1].Time - frames[0].Time

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("structure: %s\n\n", meta.Structure)

	kinetic, err := analysis.EnergySeries(frames, "kinetic")
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(kinetic)
	plotData := ps[:max(len(ps)/4, 1)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _, err := analysis.DominantFrequency(kinetic, sampleDt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if plotNode < 0 {
		return nil
	}

	series, err := analysis.NodeSeries(frames, meta.Dimension, plotNode, plotAxis)
	if err != nil {
		return err
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	crossings := analysis.UpCrossings(analysis.Times(frames), series, mean)
	fmt.Printf("\nnode %d %s: %d crossings of %.4g\n", plotNode, axisNames[plotAxis], len(crossings), mean)
	if period := analysis.MeanPeriod(crossings); period > 0 {
		fmt.Printf("mean period: %.4g s\n", period)
	}

	return nil
}

// output returns stdout, or the --out file with a close function.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeOut, err := output()
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.ExportJSON(w, args[0]); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeOut, err := output()
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.ExportCSV(w, args[0]); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
