// Package export renders structures and node trajectories as SVG.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/tensim/internal/analysis"
	"github.com/san-kum/tensim/internal/tensegrity"
	"github.com/san-kum/tensim/internal/viz"
)

const background = "#0a0a0a"

var ErrEmpty = errors.New("export: nothing to draw")

type svgLine struct {
	x1, y1, x2, y2 int
	depth          float64
	kind           tensegrity.Kind
}

// StructureSVG draws sys as seen from cam: cables in the theme's secondary
// colour, struts thicker in the primary colour, free nodes as dots and fixed
// nodes as squares. Elements are painted back to front.
func StructureSVG(w io.Writer, sys *tensegrity.System, cam *viz.Camera, width, height int, theme viz.Theme) error {
	if len(sys.Nodes()) == 0 {
		return ErrEmpty
	}

	lines := make([]svgLine, 0, len(sys.Cables())+len(sys.Struts()))
	for _, e := range sys.Elements() {
		n1, n2 := e.Endpoints()
		x1, y1, d1, v1 := cam.Project(viz.ToVec3(n1.Position), width, height)
		x2, y2, d2, v2 := cam.Project(viz.ToVec3(n2.Position), width, height)
		if !v1 && !v2 {
			continue
		}
		lines = append(lines, svgLine{x1, y1, x2, y2, (d1 + d2) / 2, e.Kind})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].depth < lines[j].depth })

	var sb strings.Builder
	writeHeader(&sb, width, height)

	for _, l := range lines {
		stroke, sw := string(theme.Secondary), 1.0
		if l.kind == tensegrity.Strut {
			stroke, sw = string(theme.Primary), 3.0
		}
		fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"%.1f\"/>\n",
			l.x1, l.y1, l.x2, l.y2, stroke, sw)
	}

	for _, n := range sys.Nodes() {
		x, y, _, ok := cam.Project(viz.ToVec3(n.Position), width, height)
		if !ok {
			continue
		}
		if n.Fixed {
			fmt.Fprintf(&sb, "<rect x=\"%d\" y=\"%d\" width=\"6\" height=\"6\" fill=\"%s\"/>\n", x-3, y-3, theme.Muted)
			continue
		}
		fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"3\" fill=\"%s\"/>\n", x, y, theme.Success)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// PathSVG draws a node trajectory as a single polyline scaled to fill the
// image with a 10% margin.
func PathSVG(w io.Writer, path *analysis.NodePath, width, height int, stroke string) error {
	if path == nil || len(path.Points) < 2 {
		return ErrEmpty
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)

	for i, p := range path.Points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}
