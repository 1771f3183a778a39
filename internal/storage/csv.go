package storage

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/fdmsim/internal/sim"
)

type column struct {
	name  string
	field func(r *sim.Record) *float64
}

var columns = []column{
	{"time", func(r *sim.Record) *float64 { return &r.Time }},
	{"north", func(r *sim.Record) *float64 { return &r.North }},
	{"east", func(r *sim.Record) *float64 { return &r.East }},
	{"altitude", func(r *sim.Record) *float64 { return &r.Altitude }},
	{"roll", func(r *sim.Record) *float64 { return &r.Roll }},
	{"pitch", func(r *sim.Record) *float64 { return &r.Pitch }},
	{"yaw", func(r *sim.Record) *float64 { return &r.Yaw }},
	{"u", func(r *sim.Record) *float64 { return &r.U }},
	{"v", func(r *sim.Record) *float64 { return &r.V }},
	{"w", func(r *sim.Record) *float64 { return &r.W }},
	{"p", func(r *sim.Record) *float64 { return &r.P }},
	{"q", func(r *sim.Record) *float64 { return &r.Q }},
	{"r", func(r *sim.Record) *float64 { return &r.R }},
	{"main_psi", func(r *sim.Record) *float64 { return &r.MainPsi }},
	{"main_omega", func(r *sim.Record) *float64 { return &r.MainOmega }},
	{"tail_psi", func(r *sim.Record) *float64 { return &r.TailPsi }},
	{"tail_omega", func(r *sim.Record) *float64 { return &r.TailOmega }},
	{"mass", func(r *sim.Record) *float64 { return &r.Mass }},
	{"collective", func(r *sim.Record) *float64 { return &r.Collective }},
	{"cyclic_lat", func(r *sim.Record) *float64 { return &r.CyclicLat }},
	{"cyclic_lon", func(r *sim.Record) *float64 { return &r.CyclicLon }},
	{"pedals", func(r *sim.Record) *float64 { return &r.Pedals }},
}

// Columns returns the CSV column names in file order.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// Column extracts the named column from records, or nil if unknown.
func Column(records []sim.Record, name string) []float64 {
	for _, c := range columns {
		if c.name != name {
			continue
		}
		out := make([]float64, len(records))
		for i := range records {
			out[i] = *c.field(&records[i])
		}
		return out
	}
	return nil
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []sim.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for i := range records {
		for j, c := range columns {
			row[j] = strconv.FormatFloat(*c.field(&records[i]), 'g', 10, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
