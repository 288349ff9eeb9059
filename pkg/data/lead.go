package data

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	upsertLeadSQL = `INSERT INTO lead (
			id, name, channel, grade, sales_rep, first_contact,
			last_followup, followups, enrolled_at, course, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			channel = excluded.channel,
			grade = excluded.grade,
			sales_rep = excluded.sales_rep,
			first_contact = excluded.first_contact,
			last_followup = excluded.last_followup,
			followups = excluded.followups,
			enrolled_at = excluded.enrolled_at,
			course = excluded.course,
			amount = excluded.amount
	`

	selectLeadsSQL = `SELECT
			id, name, channel, grade, sales_rep,
			COALESCE(first_contact, ''),
			COALESCE(last_followup, ''),
			followups,
			COALESCE(enrolled_at, ''),
			course, amount
		FROM lead
		ORDER BY id
	`

	countLeadsSQL = `SELECT COUNT(*) FROM lead`
)

// dbTimeFormat is how timestamps are stored; lexical order is date order.
const dbTimeFormat = "2006-01-02 15:04:05"

// Lead is a single sales lead row.
type Lead struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Channel      string     `json:"channel" yaml:"channel"`
	Grade        string     `json:"grade" yaml:"grade"`
	SalesRep     string     `json:"sales_rep" yaml:"sales_rep"`
	FirstContact *time.Time `json:"first_contact,omitempty" yaml:"first_contact,omitempty"`
	LastFollowup *time.Time `json:"last_followup,omitempty" yaml:"last_followup,omitempty"`
	Followups    int        `json:"followups" yaml:"followups"`
	EnrolledAt   *time.Time `json:"enrolled_at,omitempty" yaml:"enrolled_at,omitempty"`
	Course       string     `json:"course,omitempty" yaml:"course,omitempty"`
	Amount       float64    `json:"amount" yaml:"amount"`
}

// Enrolled reports whether the lead converted to a paying customer.
func (l *Lead) Enrolled() bool {
	return l.EnrolledAt != nil
}

// SaveLeads upserts the given leads in a single transaction.
func SaveLeads(db *sql.DB, leads []*Lead) error {
	if db == nil {
		return errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertLeadSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare lead upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range leads {
		if l.ID == "" {
			return fmt.Errorf("lead without id: %+v", l)
		}
		if _, err := stmt.Exec(
			l.ID, l.Name, l.Channel, l.Grade, l.SalesRep,
			timeToDB(l.FirstContact), timeToDB(l.LastFollowup),
			l.Followups, timeToDB(l.EnrolledAt), l.Course, l.Amount,
		); err != nil {
			return fmt.Errorf("failed to save lead %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// ListLeads returns all leads ordered by id.
func ListLeads(db *sql.DB) ([]*Lead, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectLeadsSQL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute lead select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*Lead, 0)
	for rows.Next() {
		var l Lead
		var firstContact, lastFollowup, enrolledAt string
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Channel, &l.Grade, &l.SalesRep,
			&firstContact, &lastFollowup, &l.Followups, &enrolledAt,
			&l.Course, &l.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		l.FirstContact = timeFromDB(firstContact)
		l.LastFollowup = timeFromDB(lastFollowup)
		l.EnrolledAt = timeFromDB(enrolledAt)
		list = append(list, &l)
	}

	return list, rows.Err()
}

// CountLeads returns the number of lead rows.
func CountLeads(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	var count int
	if err := db.QueryRow(countLeadsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

func timeToDB(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dbTimeFormat)
}

func timeFromDB(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(dbTimeFormat, val)
	if err != nil {
		return nil
	}
	return &t
}
