// Package loader reads channel and lead records from tabular files.
// Parsing of dynamic column shapes (percentage strings vs fractions,
// aliased headers) lives here, keeping the scoring contract exact.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/scoring"
)

// Row is a single tabular row keyed by normalized column name.
type Row map[string]string

// column aliases accepted for channel files
var (
	nameColumns   = []string{"name", "channel"}
	rateColumns   = []string{"conversion_rate", "rate"}
	amountColumns = []string{"payment_amount", "amount", "revenue"}
)

// ReadChannelRecords loads an ordered channel sequence from a CSV, Excel,
// or JSON file, chosen by extension.
func ReadChannelRecords(path string) ([]scoring.ChannelRecord, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}

	records := make([]scoring.ChannelRecord, 0, len(rows))
	for i, row := range rows {
		name, ok := row.col(nameColumns...)
		if !ok || name == "" {
			return nil, fmt.Errorf("row %d: missing channel name", i+2)
		}
		rateVal, ok := row.col(rateColumns...)
		if !ok {
			return nil, fmt.Errorf("row %d: missing conversion rate", i+2)
		}
		rate, err := ParseRate(rateVal)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		var amount float64
		if amountVal, ok := row.col(amountColumns...); ok && amountVal != "" {
			amount, err = parseFloat(amountVal)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		}

		records = append(records, scoring.ChannelRecord{
			Name:           name,
			ConversionRate: rate,
			PaymentAmount:  amount,
		})
	}
	return records, nil
}

// ReadLeads loads lead rows from a CSV, Excel, or JSON file.
func ReadLeads(path string) ([]*data.Lead, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}

	leads := make([]*data.Lead, 0, len(rows))
	for i, row := range rows {
		id, ok := row.col("lead_id", "id")
		if !ok || id == "" {
			return nil, fmt.Errorf("row %d: missing lead id", i+2)
		}

		l := &data.Lead{ID: id}
		l.Name, _ = row.col("name", "student_name")
		l.Channel, _ = row.col("channel", "source")
		l.Grade, _ = row.col("grade")
		l.SalesRep, _ = row.col("sales_rep", "rep")
		l.Course, _ = row.col("course")

		if v, ok := row.col("followups", "followup_count"); ok && v != "" {
			n, err := parseInt(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			l.Followups = n
		}
		if v, ok := row.col("amount", "payment_amount"); ok && v != "" {
			a, err := parseFloat(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			l.Amount = a
		}

		if l.FirstContact, err = optionalTime(row, i, "first_contact", "first_consult"); err != nil {
			return nil, err
		}
		if l.LastFollowup, err = optionalTime(row, i, "last_followup"); err != nil {
			return nil, err
		}
		if l.EnrolledAt, err = optionalTime(row, i, "enrolled_at", "enroll_date"); err != nil {
			return nil, err
		}

		leads = append(leads, l)
	}
	return leads, nil
}

// ReadRows loads header-mapped rows from the given file, dispatching on the
// file extension.
func ReadRows(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return rowsFromCSV(f, path)
	case ".xlsx":
		return rowsFromExcel(path)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return rowsFromJSON(f, path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .csv, .xlsx, or .json)", path)
	}
}

func (r Row) col(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := r[n]; ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func optionalTime(row Row, i int, names ...string) (*time.Time, error) {
	v, ok := row.col(names...)
	if !ok || v == "" {
		return nil, nil
	}
	t, err := ParseTime(v)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", i+2, err)
	}
	return &t, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
