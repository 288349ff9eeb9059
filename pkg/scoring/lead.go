package scoring

import (
	"time"
)

const leadScoreCap = 100

// Priority levels for follow-up scheduling.
const (
	PriorityUrgent  = "urgent"
	PriorityHigh    = "high"
	PriorityRoutine = "routine"
	PriorityLow     = "low"
)

// LeadFacts carries the lead attributes that feed the priority score.
type LeadFacts struct {
	Channel      string
	Grade        string
	Followups    int
	FirstContact time.Time
}

// LeadScoreTables holds the additive point tables for lead scoring.
type LeadScoreTables struct {
	Channel        map[string]int
	ChannelDefault int
	Grade          map[string]int
	GradeDefault   int
}

// DefaultLeadScoreTables returns the built-in point tables.
func DefaultLeadScoreTables() LeadScoreTables {
	return LeadScoreTables{
		Channel: map[string]int{
			"short-video":   35,
			"live-stream":   30,
			"network-sales": 25,
		},
		ChannelDefault: 20,
		Grade: map[string]int{
			"A": 30,
			"B": 25,
			"C": 20,
			"D": 15,
			"E": 10,
		},
		GradeDefault: 5,
	}
}

// followupPoints maps follow-up counts (capped at 10) to points. Mid-range
// counts score highest: too few means an unworked lead, too many a stalled one.
var followupPoints = [11]int{0, 15, 15, 20, 20, 20, 15, 15, 10, 10, 5}

// LeadScorer computes follow-up priority scores for individual leads.
type LeadScorer struct {
	tables LeadScoreTables
}

func NewLeadScorer(tables LeadScoreTables) *LeadScorer {
	if tables.Channel == nil && tables.Grade == nil {
		tables = DefaultLeadScoreTables()
	}
	return &LeadScorer{tables: tables}
}

// Score returns the lead's priority score in [0,100]: channel base points,
// grade points, follow-up count points, and first-contact recency points,
// capped at 100.
func (s *LeadScorer) Score(l LeadFacts, now time.Time) int {
	score := 0

	if p, ok := s.tables.Channel[l.Channel]; ok {
		score += p
	} else {
		score += s.tables.ChannelDefault
	}

	if p, ok := s.tables.Grade[l.Grade]; ok {
		score += p
	} else {
		score += s.tables.GradeDefault
	}

	n := l.Followups
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	score += followupPoints[n]

	score += recencyPoints(l.FirstContact, now)

	if score > leadScoreCap {
		score = leadScoreCap
	}
	return score
}

// recencyPoints decays with the age of the first contact.
func recencyPoints(firstContact, now time.Time) int {
	if firstContact.IsZero() {
		return 0
	}
	days := int(now.Sub(firstContact).Hours() / 24)
	switch {
	case days < 0:
		return 0
	case days == 0:
		return 10
	case days <= 3:
		return 8
	case days <= 7:
		return 5
	default:
		return 0
	}
}

// PriorityLevel buckets a lead score into a follow-up priority.
func PriorityLevel(score int) string {
	switch {
	case score >= 90:
		return PriorityUrgent
	case score >= 70:
		return PriorityHigh
	case score >= 50:
		return PriorityRoutine
	default:
		return PriorityLow
	}
}
