package data

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	selectSummarySQL = `SELECT
			COUNT(*) AS leads,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN 1 ELSE 0 END) AS enrolled,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN amount ELSE 0 END) AS revenue,
			AVG(followups) AS avg_followups
		FROM lead
	`

	selectSalesPerformanceSQL = `SELECT
			sales_rep,
			COUNT(*) AS leads,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN 1 ELSE 0 END) AS enrolled,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN amount ELSE 0 END) AS revenue,
			AVG(followups) AS avg_followups
		FROM lead
		WHERE sales_rep != ''
		GROUP BY sales_rep
		ORDER BY 2 DESC
	`
)

// Summary is the top-line view of the lead table.
type Summary struct {
	Leads          int     `json:"leads" yaml:"leads"`
	Enrolled       int     `json:"enrolled" yaml:"enrolled"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
	Revenue        float64 `json:"revenue" yaml:"revenue"`
	AvgFollowups   float64 `json:"avg_followups" yaml:"avg_followups"`
}

// SalesPerformance is one sales rep's aggregate.
type SalesPerformance struct {
	SalesRep       string  `json:"sales_rep" yaml:"sales_rep"`
	Leads          int     `json:"leads" yaml:"leads"`
	Enrolled       int     `json:"enrolled" yaml:"enrolled"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
	Revenue        float64 `json:"revenue" yaml:"revenue"`
	AvgFollowups   float64 `json:"avg_followups" yaml:"avg_followups"`
}

// GetSummary returns the top-line stats over all leads.
func GetSummary(db *sql.DB) (*Summary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var s Summary
	var enrolled, revenue, avgFollowups sql.NullFloat64
	if err := db.QueryRow(selectSummarySQL).Scan(&s.Leads, &enrolled, &revenue, &avgFollowups); err != nil {
		return nil, fmt.Errorf("failed to execute summary statement: %w", err)
	}

	s.Enrolled = int(enrolled.Float64)
	s.Revenue = revenue.Float64
	s.AvgFollowups = avgFollowups.Float64
	if s.Leads > 0 {
		s.ConversionRate = float64(s.Enrolled) / float64(s.Leads)
	}
	return &s, nil
}

// GetSalesPerformance aggregates the lead table per sales rep.
func GetSalesPerformance(db *sql.DB) ([]*SalesPerformance, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectSalesPerformanceSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute sales performance statement: %w", err)
	}
	defer rows.Close()

	list := make([]*SalesPerformance, 0)
	for rows.Next() {
		var p SalesPerformance
		if err := rows.Scan(&p.SalesRep, &p.Leads, &p.Enrolled, &p.Revenue, &p.AvgFollowups); err != nil {
			return nil, fmt.Errorf("failed to scan sales performance row: %w", err)
		}
		if p.Leads > 0 {
			p.ConversionRate = float64(p.Enrolled) / float64(p.Leads)
		}
		list = append(list, &p)
	}

	return list, rows.Err()
}
