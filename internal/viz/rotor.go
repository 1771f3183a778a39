package viz

import (
	"math"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/r44"
	"github.com/san-kum/fdmsim/internal/sim"
)

const trackCapacity = 200

// airframe is the plan-view geometry drawn for a vehicle, in BAS metres.
type airframe struct {
	mainHub, tailHub       [2]float64
	mainRadius, tailRadius float64
	nominalOmega           float64
	direction              float64
	nose                   float64
	cabinHalfWidth         float64
}

var defaultAirframe = airframe{
	mainHub:        [2]float64{0, 0},
	tailHub:        [2]float64{-7.1, 0},
	mainRadius:     5.03,
	tailRadius:     0.58,
	nominalOmega:   41.89,
	direction:      1,
	nose:           2.0,
	cabinHalfWidth: 0.7,
}

func airframeOf(v sim.Vehicle) airframe {
	a := defaultAirframe
	c, err := v.Contributor(aircraft.RolePropulsion)
	if err != nil {
		return a
	}
	if p, ok := c.(*r44.Propulsion); ok {
		mr, tr := p.MainRotor(), p.TailRotor()
		a.mainHub = [2]float64{mr.Hub.X, mr.Hub.Y}
		a.tailHub = [2]float64{tr.Hub.X, tr.Hub.Y}
		a.mainRadius, a.tailRadius = mr.Radius, tr.Radius
		a.nominalOmega = mr.NominalOmega
		a.direction = mr.Direction
	}
	return a
}

// planView maps horizontal positions onto the canvas, north up, centered
// on the aircraft.
type planView struct {
	cx, cy float64
	scale  float64 // dots per metre
	north  float64
	east   float64
	sinY   float64
	cosY   float64
}

func newPlanView(c *Canvas, span, zoom float64, rec sim.Record) planView {
	w, h := c.Dots()
	scale := zoom * 0.45 * math.Min(float64(w), float64(h)) / span
	sinY, cosY := dynamo.FastSinCos(rec.Yaw)
	return planView{
		cx: float64(w) / 2, cy: float64(h) / 2,
		scale: scale,
		north: rec.North, east: rec.East,
		sinY: sinY, cosY: cosY,
	}
}

// body projects a BAS point (x forward, y right).
func (p planView) body(x, y float64) (int, int) {
	n := x*p.cosY - y*p.sinY
	e := x*p.sinY + y*p.cosY
	return p.offset(n, e)
}

// world projects an absolute NED position.
func (p planView) world(n, e float64) (int, int) {
	return p.offset(n-p.north, e-p.east)
}

func (p planView) offset(n, e float64) (int, int) {
	return int(math.Round(p.cx + e*p.scale)), int(math.Round(p.cy - n*p.scale))
}

func (p planView) line(c *Canvas, x0, y0, x1, y1 float64) {
	ax, ay := p.body(x0, y0)
	bx, by := p.body(x1, y1)
	c.DrawLine(ax, ay, bx, by)
}

// drawAircraft draws the ground track, fuselage, main rotor disc and
// blades, and the tail rotor seen edge-on.
func drawAircraft(c *Canvas, a airframe, rec sim.Record, track []sim.Record, zoom float64) {
	span := a.mainRadius + math.Abs(a.tailHub[0]) + a.tailRadius
	p := newPlanView(c, span, zoom, rec)

	for _, t := range track {
		c.Set(p.world(t.North, t.East))
	}

	hw := a.cabinHalfWidth
	p.line(c, a.nose, 0, a.nose-0.8, hw)
	p.line(c, a.nose, 0, a.nose-0.8, -hw)
	p.line(c, a.nose-0.8, hw, -1.5, hw)
	p.line(c, a.nose-0.8, -hw, -1.5, -hw)
	p.line(c, -1.5, hw, -1.5, -hw)
	p.line(c, -1.5, 0, a.tailHub[0], a.tailHub[1])

	hx, hy := p.body(a.mainHub[0], a.mainHub[1])
	c.DrawCircle(hx, hy, int(math.Round(a.mainRadius*p.scale)))

	// seen from above a positive direction turns the blades from +x toward -y
	for _, offset := range [...]float64{0, math.Pi} {
		s, co := dynamo.FastSinCos(-a.direction*rec.MainPsi + offset)
		p.line(c, a.mainHub[0], a.mainHub[1], a.mainHub[0]+a.mainRadius*co, a.mainHub[1]+a.mainRadius*s)
	}

	tr := a.tailRadius * dynamo.DefaultTrigTable.Cos(rec.TailPsi)
	p.line(c, a.tailHub[0]-tr, a.tailHub[1], a.tailHub[0]+tr, a.tailHub[1])
}

// PlanView draws rec on a new w x h canvas with the default airframe. It
// serves stored runs, where no vehicle is at hand.
func PlanView(rec sim.Record, track []sim.Record, w, h int) *Canvas {
	c := NewCanvas(w, h)
	drawAircraft(c, defaultAirframe, rec, track, 1)
	return c
}
