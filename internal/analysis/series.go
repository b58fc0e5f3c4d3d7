package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/tensim/internal/sim"
)

// EnergySeries extracts one energy component ("kinetic", "gravitational",
// "elastic" or "total") from frames.
func EnergySeries(frames []sim.Frame, component string) ([]float64, error) {
	out := make([]float64, len(frames))
	for i, f := range frames {
		switch component {
		case "kinetic":
			out[i] = f.Energy.Kinetic
		case "gravitational":
			out[i] = f.Energy.Gravitational
		case "elastic":
			out[i] = f.Energy.Elastic
		case "total":
			out[i] = f.Energy.Total
		default:
			return nil, fmt.Errorf("unknown energy component: %s", component)
		}
	}
	return out, nil
}

// NodeSeries extracts one coordinate of one node from flattened frame
// positions.
func NodeSeries(frames []sim.Frame, dimension, node, axis int) ([]float64, error) {
	if axis < 0 || axis >= dimension {
		return nil, fmt.Errorf("axis %d out of range for %dD", axis, dimension)
	}
	idx := node*dimension + axis
	out := make([]float64, len(frames))
	for i, f := range frames {
		if node < 0 || idx >= len(f.Positions) {
			return nil, fmt.Errorf("frame %d: no node %d", f.Step, node)
		}
		out[i] = f.Positions[idx]
	}
	return out, nil
}

// Times returns the frame times.
func Times(frames []sim.Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Time
	}
	return out
}

type Point struct {
	X, Y float64
}

// NodePath is a node's trajectory projected onto two axes.
type NodePath struct {
	Node   int
	AxisX  int
	AxisY  int
	Points []Point
}

func TracePath(frames []sim.Frame, dimension, node, axisX, axisY int) (*NodePath, error) {
	xs, err := NodeSeries(frames, dimension, node, axisX)
	if err != nil {
		return nil, err
	}
	ys, err := NodeSeries(frames, dimension, node, axisY)
	if err != nil {
		return nil, err
	}

	path := &NodePath{Node: node, AxisX: axisX, AxisY: axisY, Points: make([]Point, len(xs))}
	for i := range xs {
		path.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return path, nil
}

// PathToASCII plots the path on a width×height character grid with axes
// drawn where they cross the visible area.
func PathToASCII(path *NodePath, width, height int) string {
	if path == nil || len(path.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := path.Points[0].X, path.Points[0].X
	minY, maxY := path.Points[0].Y, path.Points[0].Y
	for _, p := range path.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range path.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// UpCrossings returns the interpolated times at which series rises through
// threshold.
func UpCrossings(times, series []float64, threshold float64) []float64 {
	var out []float64
	for i := 1; i < len(series) && i < len(times); i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// MeanPeriod averages the spacing of consecutive crossings. It returns 0
// with fewer than two crossings.
func MeanPeriod(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}
