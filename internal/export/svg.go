// Package export renders recorded runs as SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fdmsim/internal/sim"
	"github.com/san-kum/fdmsim/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff88">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// GroundTrackToSVG draws the north/east track of a run, north up, with a
// marker at the start.
func GroundTrackToSVG(records []sim.Record, width, height int, strokeColor string) string {
	if len(records) < 2 {
		return ""
	}

	minE, maxE := records[0].East, records[0].East
	minN, maxN := records[0].North, records[0].North
	for _, r := range records {
		minE, maxE = min(minE, r.East), max(maxE, r.East)
		minN, maxN = min(minN, r.North), max(maxN, r.North)
	}

	// equal scale on both axes, padded by 10%
	span := max(maxE-minE, maxN-minN, 1) * 1.2
	midE, midN := (minE+maxE)/2, (minN+maxN)/2
	scale := float64(min(width, height)) / span
	project := func(r sim.Record) (float64, float64) {
		return float64(width)/2 + (r.East-midE)*scale, float64(height)/2 - (r.North-midN)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, r := range records {
		x, y := project(r)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	x, y := project(records[0])
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
</svg>`, x, y, strokeColor))
	return sb.String()
}
