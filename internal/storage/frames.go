package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/sim"
)

var energyColumns = []string{"step", "time", "kinetic", "gravitational", "elastic", "total"}

var axes = []string{"x", "y", "z"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteFramesCSV writes one row per frame: step, time, the energy
// distribution, then the flattened node positions as n<i>_<axis>.
func WriteFramesCSV(out io.Writer, dimension int, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	header := append([]string{}, energyColumns...)
	if dimension > 0 && len(frames) > 0 {
		nodes := len(frames[0].Positions) / dimension
		for i := 0; i < nodes; i++ {
			for d := 0; d < dimension; d++ {
				header = append(header, fmt.Sprintf("n%d_%s", i, axes[d]))
			}
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Step),
			formatFloat(f.Time),
			formatFloat(f.Energy.Kinetic),
			formatFloat(f.Energy.Gravitational),
			formatFloat(f.Energy.Elastic),
			formatFloat(f.Energy.Total),
		}
		for _, p := range f.Positions {
			row = append(row, formatFloat(p))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ReadFramesCSV(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < len(energyColumns) {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", i+2, len(energyColumns), len(record))
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: step: %w", i+2, err)
		}
		vals := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", i+2, j+2, err)
			}
			vals[j] = v
		}

		frames = append(frames, sim.Frame{
			Step: step,
			Time: vals[0],
			Energy: energy.Distribution{
				Kinetic:       vals[1],
				Gravitational: vals[2],
				Elastic:       vals[3],
				Total:         vals[4],
			},
			Positions: vals[5:],
		})
	}

	return frames, nil
}
