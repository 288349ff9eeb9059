package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leadworks/leadctl/pkg/scoring"
)

const (
	insertWeightReportSQL = `INSERT INTO weight_report (
			id, created_at, source, min_weight, excluded, boosts
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	insertWeightReportEntrySQL = `INSERT INTO weight_report_entry (
			report_id, position, name, conversion_rate, payment_amount, score, rationale
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectWeightReportsSQL = `SELECT id, created_at, source, min_weight, excluded, boosts
		FROM weight_report
		ORDER BY created_at DESC
		LIMIT ?
	`

	selectWeightReportSQL = `SELECT id, created_at, source, min_weight, excluded, boosts
		FROM weight_report
		WHERE id = ?
	`

	selectWeightReportEntriesSQL = `SELECT name, conversion_rate, payment_amount, score, rationale
		FROM weight_report_entry
		WHERE report_id = ?
		ORDER BY position
	`
)

// ErrReportNotFound is returned when the requested archived report does not exist.
var ErrReportNotFound = errors.New("weight report not found")

// WeightReport is one archived calculator run. The archive is append-only:
// past runs are never updated or deleted.
type WeightReport struct {
	ID        string                 `json:"id" yaml:"id"`
	CreatedAt time.Time              `json:"created_at" yaml:"created_at"`
	Source    string                 `json:"source" yaml:"source"`
	Options   scoring.Options        `json:"options" yaml:"options"`
	Entries   []scoring.WeightResult `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// SaveWeightReport archives a calculator run with its entries.
func SaveWeightReport(db *sql.DB, r *WeightReport) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil || r.ID == "" {
		return errors.New("weight report with id required")
	}

	excluded, err := json.Marshal(r.Options.Exclude)
	if err != nil {
		return fmt.Errorf("failed to marshal exclusions: %w", err)
	}
	boosts, err := json.Marshal(r.Options.Boosts)
	if err != nil {
		return fmt.Errorf("failed to marshal boosts: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(insertWeightReportSQL,
		r.ID, r.CreatedAt.UTC().Format(dbTimeFormat), r.Source,
		r.Options.MinWeight, string(excluded), string(boosts),
	); err != nil {
		return fmt.Errorf("failed to save weight report %s: %w", r.ID, err)
	}

	stmt, err := tx.Prepare(insertWeightReportEntrySQL)
	if err != nil {
		return fmt.Errorf("failed to prepare report entry statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range r.Entries {
		if _, err := stmt.Exec(r.ID, i, e.Name, e.ConversionRate, e.PaymentAmount, e.Score, e.Rationale); err != nil {
			return fmt.Errorf("failed to save report entry %s/%d: %w", r.ID, i, err)
		}
	}

	return tx.Commit()
}

// ListWeightReports returns archived runs, newest first, without entries.
func ListWeightReports(db *sql.DB, limit int) ([]*WeightReport, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectWeightReportsSQL, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute report select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*WeightReport, 0)
	for rows.Next() {
		r, err := scanWeightReport(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	return list, rows.Err()
}

// GetWeightReport returns one archived run with its entries.
func GetWeightReport(db *sql.DB, id string) (*WeightReport, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if id == "" {
		return nil, errors.New("report id required")
	}

	rows, err := db.Query(selectWeightReportSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute report select statement: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrReportNotFound
	}
	r, err := scanWeightReport(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	entries, err := db.Query(selectWeightReportEntriesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute report entry select statement: %w", err)
	}
	defer entries.Close()

	for entries.Next() {
		var e scoring.WeightResult
		if err := entries.Scan(&e.Name, &e.ConversionRate, &e.PaymentAmount, &e.Score, &e.Rationale); err != nil {
			return nil, fmt.Errorf("failed to scan report entry row: %w", err)
		}
		r.Entries = append(r.Entries, e)
	}

	return r, entries.Err()
}

func scanWeightReport(rows *sql.Rows) (*WeightReport, error) {
	var r WeightReport
	var createdAt, excluded, boosts string
	if err := rows.Scan(&r.ID, &createdAt, &r.Source, &r.Options.MinWeight, &excluded, &boosts); err != nil {
		return nil, fmt.Errorf("failed to scan report row: %w", err)
	}
	if t := timeFromDB(createdAt); t != nil {
		r.CreatedAt = *t
	}
	if err := json.Unmarshal([]byte(excluded), &r.Options.Exclude); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exclusions for %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(boosts), &r.Options.Boosts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boosts for %s: %w", r.ID, err)
	}
	return &r, nil
}
