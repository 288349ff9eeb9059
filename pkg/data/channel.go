package data

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/leadworks/leadctl/pkg/scoring"
)

const (
	upsertChannelSummarySQL = `INSERT INTO channel_summary (
			name, leads, enrolled, revenue, conversion_rate
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			leads = excluded.leads,
			enrolled = excluded.enrolled,
			revenue = excluded.revenue,
			conversion_rate = excluded.conversion_rate
	`

	selectChannelSummariesSQL = `SELECT name, leads, enrolled, revenue, conversion_rate
		FROM channel_summary
		ORDER BY conversion_rate DESC, name
	`

	countChannelSummariesSQL = `SELECT COUNT(*) FROM channel_summary`

	// Conversion rate is enrollments over leads; revenue only counts
	// enrolled leads.
	aggregateLeadsSQL = `SELECT
			channel,
			COUNT(*) AS leads,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN 1 ELSE 0 END) AS enrolled,
			SUM(CASE WHEN enrolled_at IS NOT NULL THEN amount ELSE 0 END) AS revenue,
			SUM(CASE WHEN grade IN ('A', 'B') THEN 1 ELSE 0 END) AS quality_leads
		FROM lead
		GROUP BY channel
		ORDER BY 2 DESC
	`
)

// ChannelSummary is a directly imported per-channel roll-up.
type ChannelSummary struct {
	Name           string  `json:"name" yaml:"name"`
	Leads          int     `json:"leads" yaml:"leads"`
	Enrolled       int     `json:"enrolled" yaml:"enrolled"`
	Revenue        float64 `json:"revenue" yaml:"revenue"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
}

// SaveChannelSummaries upserts imported channel roll-ups.
func SaveChannelSummaries(db *sql.DB, summaries []*ChannelSummary) error {
	if db == nil {
		return errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertChannelSummarySQL)
	if err != nil {
		return fmt.Errorf("failed to prepare channel summary statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		if s.Name == "" {
			return fmt.Errorf("channel summary without name: %+v", s)
		}
		if _, err := stmt.Exec(s.Name, s.Leads, s.Enrolled, s.Revenue, s.ConversionRate); err != nil {
			return fmt.Errorf("failed to save channel summary %s: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

// CountChannelSummaries returns the number of imported channel roll-ups.
func CountChannelSummaries(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	var count int
	if err := db.QueryRow(countChannelSummariesSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count channel summaries: %w", err)
	}
	return count, nil
}

// GetChannelStats aggregates the lead table per channel.
func GetChannelStats(db *sql.DB) ([]scoring.ChannelStats, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(aggregateLeadsSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute channel aggregate statement: %w", err)
	}
	defer rows.Close()

	list := make([]scoring.ChannelStats, 0)
	for rows.Next() {
		var c scoring.ChannelStats
		if err := rows.Scan(&c.Name, &c.Leads, &c.Enrolled, &c.Revenue, &c.QualityLeads); err != nil {
			return nil, fmt.Errorf("failed to scan channel aggregate row: %w", err)
		}
		if c.Leads > 0 {
			c.ConversionRate = float64(c.Enrolled) / float64(c.Leads)
		}
		list = append(list, c)
	}

	return list, rows.Err()
}

// ChannelRecordsFromLeads derives calculator input from the lead table.
func ChannelRecordsFromLeads(db *sql.DB) ([]scoring.ChannelRecord, error) {
	stats, err := GetChannelStats(db)
	if err != nil {
		return nil, err
	}

	records := make([]scoring.ChannelRecord, 0, len(stats))
	for _, c := range stats {
		records = append(records, scoring.ChannelRecord{
			Name:           c.Name,
			ConversionRate: c.ConversionRate,
			PaymentAmount:  c.Revenue,
		})
	}
	return records, nil
}

// ChannelRecordsFromSummaries derives calculator input from imported
// channel roll-ups.
func ChannelRecordsFromSummaries(db *sql.DB) ([]scoring.ChannelRecord, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectChannelSummariesSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute channel summary select statement: %w", err)
	}
	defer rows.Close()

	records := make([]scoring.ChannelRecord, 0)
	for rows.Next() {
		var s ChannelSummary
		if err := rows.Scan(&s.Name, &s.Leads, &s.Enrolled, &s.Revenue, &s.ConversionRate); err != nil {
			return nil, fmt.Errorf("failed to scan channel summary row: %w", err)
		}
		records = append(records, scoring.ChannelRecord{
			Name:           s.Name,
			ConversionRate: s.ConversionRate,
			PaymentAmount:  s.Revenue,
		})
	}

	return records, rows.Err()
}
