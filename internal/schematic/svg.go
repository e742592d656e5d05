// Package schematic draws circuit diagrams for the three supported
// topologies. Callers depend only on Renderer; the output is passed through
// to the client untouched.
package schematic

import (
	"fmt"
	"html"
	"strings"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/circuit"
)

// Renderer turns a circuit into an image.
type Renderer interface {
	Render(kind circuit.Kind, topology circuit.Topology, values [3]float64) ([]byte, error)
	ContentType() string
}

// Layout constants, in SVG user units.
const (
	elemW = 80.0 // horizontal span of one component glyph
	gap   = 30.0 // wire between glyphs
	rowH  = 60.0 // vertical distance between parallel branches
	pad   = 20.0
	top   = 40.0 // room for the first row of labels
)

// SVG renders schematics as standalone SVG documents.
type SVG struct{}

func (SVG) ContentType() string { return "image/svg+xml" }

func (SVG) Render(kind circuit.Kind, topology circuit.Topology, values [3]float64) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("schematic: unknown component kind %q", kind)
	}
	c := &canvas{kind: kind}
	var right, bottom float64
	switch topology {
	case circuit.Series:
		right = c.series(values[:], pad, top)
		bottom = top + pad
	case circuit.Parallel:
		right, bottom = c.parallel(values[:], pad, top)
	case circuit.Hybrid:
		// v1 - v2, then v2 ∥ v3; the chain runs level with the middle of
		// the parallel block.
		mid := top + rowH/2
		x := c.series(values[:2], pad, mid)
		right, bottom = c.parallel(values[1:], x, top)
	default:
		return nil, fmt.Errorf("schematic: unknown topology %q", topology)
	}
	return c.document(right+pad, bottom+pad), nil
}

type canvas struct {
	kind circuit.Kind
	body strings.Builder
}

func (c *canvas) document(w, h float64) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`, w, h, w, h)
	b.WriteString(`<g fill="none" stroke="black" stroke-width="2">`)
	b.WriteString(c.body.String())
	b.WriteString(`</g></svg>`)
	return []byte(b.String())
}

func (c *canvas) line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&c.body, `<line x1="%g" y1="%g" x2="%g" y2="%g"/>`, x1, y1, x2, y2)
}

func (c *canvas) label(x, y float64, s string) {
	fmt.Fprintf(&c.body, `<text x="%g" y="%g" fill="black" stroke="none" font-family="sans-serif" font-size="12" text-anchor="middle">%s</text>`,
		x, y, html.EscapeString(s))
}

// series draws values left to right starting at x on row y and returns
// the x coordinate where the trailing wire ends.
func (c *canvas) series(values []float64, x, y float64) float64 {
	c.line(x, y, x+gap, y)
	x += gap
	for _, v := range values {
		c.element(x, y, v)
		x += elemW
		c.line(x, y, x+gap, y)
		x += gap
	}
	return x
}

// parallel draws one branch per value between two rails whose top is at y.
// It returns the right-most x and the lowest y used.
func (c *canvas) parallel(values []float64, x, y float64) (float64, float64) {
	n := float64(len(values))
	mid := y + (n-1)*rowH/2
	left := x + gap
	right := left + gap + elemW + gap
	bottom := y + (n-1)*rowH

	c.line(x, mid, left, mid)
	c.line(left, y, left, bottom)
	c.line(right, y, right, bottom)
	c.line(right, mid, right+gap, mid)

	for i, v := range values {
		by := y + float64(i)*rowH
		c.line(left, by, left+gap, by)
		c.element(left+gap, by, v)
		c.line(left+gap+elemW, by, right, by)
	}
	return right + gap, bottom
}

// element draws one glyph spanning [x, x+elemW] on row y, labelled above.
func (c *canvas) element(x, y, v float64) {
	fmt.Fprintf(&c.body, `<g class="%s">`, c.kind)
	switch c.kind {
	case circuit.Resistor:
		c.resistor(x, y)
	case circuit.Capacitor:
		c.capacitor(x, y)
	case circuit.Inductor:
		c.inductor(x, y)
	}
	c.body.WriteString(`</g>`)
	c.label(x+elemW/2, y-16, circuit.Format(c.kind, v))
}

// resistor is a six-peak zigzag between short leads.
func (c *canvas) resistor(x, y float64) {
	const lead, peaks, amp = 10.0, 6, 8.0
	step := (elemW - 2*lead) / (2 * peaks)
	pts := []string{fmt.Sprintf("%g,%g", x, y), fmt.Sprintf("%g,%g", x+lead, y)}
	px := x + lead
	for i := 0; i < 2*peaks; i++ {
		px += step
		dy := amp
		if i%2 == 1 {
			dy = -amp
		}
		if i == 2*peaks-1 {
			dy = 0
		}
		pts = append(pts, fmt.Sprintf("%g,%g", px, y+dy))
	}
	pts = append(pts, fmt.Sprintf("%g,%g", x+elemW, y))
	fmt.Fprintf(&c.body, `<polyline points="%s"/>`, strings.Join(pts, " "))
}

// capacitor is two parallel plates.
func (c *canvas) capacitor(x, y float64) {
	const plateGap, plateH = 8.0, 14.0
	cx := x + elemW/2
	c.line(x, y, cx-plateGap/2, y)
	c.line(cx-plateGap/2, y-plateH, cx-plateGap/2, y+plateH)
	c.line(cx+plateGap/2, y-plateH, cx+plateGap/2, y+plateH)
	c.line(cx+plateGap/2, y, x+elemW, y)
}

// inductor is four half-loops between short leads.
func (c *canvas) inductor(x, y float64) {
	const lead, loops = 10.0, 4
	r := (elemW - 2*lead) / (2 * loops)
	var d strings.Builder
	fmt.Fprintf(&d, "M %g %g L %g %g", x, y, x+lead, y)
	for i := 0; i < loops; i++ {
		fmt.Fprintf(&d, " a %g %g 0 0 1 %g 0", r, r, 2*r)
	}
	fmt.Fprintf(&d, " L %g %g", x+elemW, y)
	fmt.Fprintf(&c.body, `<path d="%s"/>`, d.String())
}
