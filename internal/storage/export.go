package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fdmsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Records []sim.Record `json:"records"`
}

// ExportJSON writes metadata and the full trajectory as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, records []sim.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Records: records})
}

func ExportJSONFile(path string, meta RunMetadata, records []sim.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, records)
}

func ExportCSVFile(path string, records []sim.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, records)
}
