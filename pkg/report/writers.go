package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

var csvHeader = []string{"name", "conversion_rate", "payment_amount", "score", "rationale"}

func writeCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		record := []string{
			res.Name,
			strconv.FormatFloat(res.ConversionRate, 'f', -1, 64),
			strconv.FormatFloat(res.PaymentAmount, 'f', -1, 64),
			strconv.Itoa(res.Score),
			res.Rationale,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, r *Report) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(r)
}

func writeYAML(w io.Writer, r *Report) error {
	e := yaml.NewEncoder(w)
	defer e.Close()
	return e.Encode(r)
}
