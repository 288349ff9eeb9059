// Package alert evaluates anomaly rules over the lead table.
package alert

import (
	"fmt"
	"time"

	"github.com/leadworks/leadctl/pkg/data"
)

// Alert severities, highest first.
const (
	SeverityRed    = "red"
	SeverityOrange = "orange"
	SeverityYellow = "yellow"
)

// Alert rule names.
const (
	TypeHighValueNoFollowup = "high-value-no-followup"
	TypeCoolingLead         = "cooling-lead"
	TypeGradingAnomaly      = "grading-anomaly"
	TypeUnnamedAnomaly      = "unnamed-anomaly"
	TypeZombieLead          = "zombie-lead"
)

// Alert is one raised anomaly. LeadID is empty for dataset-level rules.
type Alert struct {
	Type     string `json:"type" yaml:"type"`
	Severity string `json:"severity" yaml:"severity"`
	LeadID   string `json:"lead_id,omitempty" yaml:"lead_id,omitempty"`
	LeadName string `json:"lead_name,omitempty" yaml:"lead_name,omitempty"`
	SalesRep string `json:"sales_rep,omitempty" yaml:"sales_rep,omitempty"`
	Detail   string `json:"detail" yaml:"detail"`
	Advice   string `json:"advice" yaml:"advice"`
}

// Thresholds tunes the alert rules.
type Thresholds struct {
	// CoolingDays: a followed-up lead with no contact for this many days
	// is cooling off.
	CoolingDays int `json:"cooling_days" yaml:"cooling_days"`

	// ZombieDays: an unenrolled lead inactive for this many days is dead weight.
	ZombieDays int `json:"zombie_days" yaml:"zombie_days"`

	// UnnamedRatio: share of unnamed leads that flags a data-quality problem.
	UnnamedRatio float64 `json:"unnamed_ratio" yaml:"unnamed_ratio"`

	// UngradedRatio: share of leads outside grades A-E that flags a
	// grading-discipline problem.
	UngradedRatio float64 `json:"ungraded_ratio" yaml:"ungraded_ratio"`
}

// DefaultThresholds returns the built-in rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CoolingDays:   3,
		ZombieDays:    7,
		UnnamedRatio:  0.3,
		UngradedRatio: 0.3,
	}
}

var highValueGrades = map[string]bool{"A": true, "B": true, "C": true}
var knownGrades = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true}

// Result groups raised alerts by severity.
type Result struct {
	Red    []Alert `json:"red,omitempty" yaml:"red,omitempty"`
	Orange []Alert `json:"orange,omitempty" yaml:"orange,omitempty"`
	Yellow []Alert `json:"yellow,omitempty" yaml:"yellow,omitempty"`
}

// Total returns the number of raised alerts across severities.
func (r *Result) Total() int {
	return len(r.Red) + len(r.Orange) + len(r.Yellow)
}

// Evaluate runs every alert rule over the given leads.
func Evaluate(leads []*data.Lead, t Thresholds, now time.Time) *Result {
	res := &Result{}

	unnamed := 0
	ungraded := 0

	for _, l := range leads {
		if l.Name == "" {
			unnamed++
		}
		if !knownGrades[l.Grade] {
			ungraded++
		}

		if a := checkHighValueNoFollowup(l); a != nil {
			res.Red = append(res.Red, *a)
		}
		if a := checkCoolingLead(l, t, now); a != nil {
			res.Red = append(res.Red, *a)
		}
		if a := checkZombieLead(l, t, now); a != nil {
			res.Yellow = append(res.Yellow, *a)
		}
	}

	if len(leads) > 0 {
		if ratio := float64(ungraded) / float64(len(leads)); ratio > t.UngradedRatio {
			res.Orange = append(res.Orange, Alert{
				Type:     TypeGradingAnomaly,
				Severity: SeverityOrange,
				Detail:   fmt.Sprintf("%.0f%% of leads have no usable grade", ratio*100),
				Advice:   "revisit grading criteria and train the sales team",
			})
		}
		if ratio := float64(unnamed) / float64(len(leads)); ratio > t.UnnamedRatio {
			res.Yellow = append(res.Yellow, Alert{
				Type:     TypeUnnamedAnomaly,
				Severity: SeverityYellow,
				Detail:   fmt.Sprintf("%.0f%% of leads have no name", ratio*100),
				Advice:   "collect the customer name during the first contact",
			})
		}
	}

	return res
}

func checkHighValueNoFollowup(l *data.Lead) *Alert {
	if !highValueGrades[l.Grade] || l.Followups > 0 {
		return nil
	}
	return &Alert{
		Type:     TypeHighValueNoFollowup,
		Severity: SeverityRed,
		LeadID:   l.ID,
		LeadName: l.Name,
		SalesRep: l.SalesRep,
		Detail:   fmt.Sprintf("grade %s lead has never been followed up", l.Grade),
		Advice:   "schedule the first follow-up immediately",
	}
}

func checkCoolingLead(l *data.Lead, t Thresholds, now time.Time) *Alert {
	if l.Followups == 0 || l.LastFollowup == nil || l.Enrolled() {
		return nil
	}
	cutoff := now.AddDate(0, 0, -t.CoolingDays)
	if !l.LastFollowup.Before(cutoff) {
		return nil
	}
	return &Alert{
		Type:     TypeCoolingLead,
		Severity: SeverityRed,
		LeadID:   l.ID,
		LeadName: l.Name,
		SalesRep: l.SalesRep,
		Detail:   fmt.Sprintf("no contact since %s after %d follow-ups", l.LastFollowup.Format("2006-01-02"), l.Followups),
		Advice:   "re-engage before the lead goes cold",
	}
}

func checkZombieLead(l *data.Lead, t Thresholds, now time.Time) *Alert {
	if l.Enrolled() {
		return nil
	}
	last := l.LastFollowup
	if last == nil {
		last = l.FirstContact
	}
	if last == nil {
		return nil
	}
	cutoff := now.AddDate(0, 0, -t.ZombieDays)
	if !last.Before(cutoff) {
		return nil
	}
	return &Alert{
		Type:     TypeZombieLead,
		Severity: SeverityYellow,
		LeadID:   l.ID,
		LeadName: l.Name,
		SalesRep: l.SalesRep,
		Detail:   fmt.Sprintf("no activity since %s and not enrolled", last.Format("2006-01-02")),
		Advice:   "decide whether to drop or reactivate",
	}
}
