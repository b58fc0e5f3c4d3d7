package viz

import (
	"math"
	"sort"

	"github.com/san-kum/tensim/internal/tensegrity"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// ToVec3 lifts a 2D or 3D position; 2D structures lie in the z=0 plane.
func ToVec3(p tensegrity.Vector) Vec3 {
	v := Vec3{X: p[0], Y: p[1]}
	if len(p) > 2 {
		v.Z = p[2]
	}
	return v
}

// Camera projects world points onto the canvas. Points are first mapped
// into a unit box by Center and Extent, then rotated and zoomed.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Center           Vec3
	Extent           float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, Near: 0.1, Zoom: 1.0, Extent: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Fit centres the camera on the bounding box of the system's nodes.
func (c *Camera) Fit(sys *tensegrity.System) {
	nodes := sys.Nodes()
	if len(nodes) == 0 {
		return
	}
	lo, hi := ToVec3(nodes[0].Position), ToVec3(nodes[0].Position)
	for _, n := range nodes[1:] {
		p := ToVec3(n.Position)
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	c.Center = lo.Add(hi).Scale(0.5)
	c.Extent = hi.Sub(lo).Length() / 2
	if c.Extent < tensegrity.Epsilon {
		c.Extent = 1
	}
}

// RotatePoint rotates a point about the x, y and z axes in turn.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world point to pixel coordinates on a sw x sh area.
// It returns x, y, depth and whether the point is on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	local := p.Sub(c.Center).Scale(1 / c.Extent)
	rot := c.RotatePoint(local).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 2.5
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Edge is one segment of a wireframe. Thick edges are drawn two dots wide.
type Edge struct {
	Start, End Vec3
	Thick      bool
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e Vec3, thick bool) {
	w.Edges = append(w.Edges, Edge{Start: s, End: e, Thick: thick})
}
func (w *Wireframe) AddPoint(p Vec3) { w.Edges = append(w.Edges, Edge{Start: p, End: p}) }
func (w *Wireframe) Clear()          { w.Edges = w.Edges[:0] }

// StructureWireframe draws struts thick, cables thin and free nodes as
// points.
func StructureWireframe(sys *tensegrity.System) *Wireframe {
	w := NewWireframe()
	for _, e := range sys.Elements() {
		n1, n2 := e.Endpoints()
		w.AddEdge(ToVec3(n1.Position), ToVec3(n2.Position), e.Kind == tensegrity.Strut)
	}
	for _, n := range sys.Nodes() {
		if !n.Fixed {
			w.AddPoint(ToVec3(n.Position))
		}
	}
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
	thick          bool
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Thick})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		switch {
		case e.x1 == e.x2 && e.y1 == e.y2:
			c.DrawDot(e.x1, e.y1)
		case e.thick:
			c.DrawThickLine(e.x1, e.y1, e.x2, e.y2)
		default:
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
