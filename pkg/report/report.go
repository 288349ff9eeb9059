// Package report writes annotated weight reports to flat files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leadworks/leadctl/pkg/scoring"
)

// Formats supported by WriteFile.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is one calculator run ready for output.
type Report struct {
	ID        string                 `json:"id" yaml:"id"`
	CreatedAt time.Time              `json:"created_at" yaml:"created_at"`
	Source    string                 `json:"source" yaml:"source"`
	Options   scoring.Options        `json:"options" yaml:"options"`
	Results   []scoring.WeightResult `json:"results" yaml:"results"`
}

// WriteFile writes the report to path in the given format. An empty format
// is inferred from the path extension, defaulting to CSV.
func WriteFile(path, format string, r *Report) error {
	if format == "" {
		format = formatFromPath(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		err = writeCSV(f, r)
	case FormatJSON:
		err = writeJSON(f, r)
	case FormatYAML:
		err = writeYAML(f, r)
	default:
		err = fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	return f.Close()
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}
