package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadworks/leadctl/pkg/data"
)

var alertNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEvaluate_HighValueNoFollowup(t *testing.T) {
	leads := []*data.Lead{
		{ID: "L1", Name: "Chen Wei", Grade: "A", Followups: 0, FirstContact: timePtr(alertNow)},
		{ID: "L2", Name: "Li Na", Grade: "A", Followups: 2, LastFollowup: timePtr(alertNow)},
		{ID: "L3", Name: "Wang Fang", Grade: "D", Followups: 0, FirstContact: timePtr(alertNow)},
	}

	res := Evaluate(leads, DefaultThresholds(), alertNow)
	require.Len(t, res.Red, 1)
	assert.Equal(t, TypeHighValueNoFollowup, res.Red[0].Type)
	assert.Equal(t, "L1", res.Red[0].LeadID)
}

func TestEvaluate_CoolingLead(t *testing.T) {
	leads := []*data.Lead{
		{ID: "L1", Name: "Chen Wei", Grade: "D", Followups: 3, LastFollowup: timePtr(alertNow.AddDate(0, 0, -5))},
		{ID: "L2", Name: "Li Na", Grade: "D", Followups: 3, LastFollowup: timePtr(alertNow.AddDate(0, 0, -1))},
		{
			ID: "L3", Name: "Zhao Lei", Grade: "D", Followups: 3,
			LastFollowup: timePtr(alertNow.AddDate(0, 0, -5)),
			EnrolledAt:   timePtr(alertNow.AddDate(0, 0, -4)),
		},
	}

	res := Evaluate(leads, DefaultThresholds(), alertNow)
	require.Len(t, res.Red, 1)
	assert.Equal(t, TypeCoolingLead, res.Red[0].Type)
	assert.Equal(t, "L1", res.Red[0].LeadID)
}

func TestEvaluate_ZombieLead(t *testing.T) {
	leads := []*data.Lead{
		// Inactive for ten days, never followed up: zombie via first contact.
		{ID: "L1", Name: "Chen Wei", Grade: "D", FirstContact: timePtr(alertNow.AddDate(0, 0, -10))},
		// Enrolled leads are never zombies.
		{
			ID: "L2", Name: "Li Na", Grade: "A", Followups: 2,
			LastFollowup: timePtr(alertNow.AddDate(0, 0, -10)),
			EnrolledAt:   timePtr(alertNow.AddDate(0, 0, -9)),
		},
	}

	res := Evaluate(leads, DefaultThresholds(), alertNow)
	var zombies []Alert
	for _, a := range res.Yellow {
		if a.Type == TypeZombieLead {
			zombies = append(zombies, a)
		}
	}
	require.Len(t, zombies, 1)
	assert.Equal(t, "L1", zombies[0].LeadID)
}

func TestEvaluate_DatasetRatios(t *testing.T) {
	leads := []*data.Lead{
		{ID: "L1", Name: "", Grade: "other", Followups: 1, LastFollowup: timePtr(alertNow)},
		{ID: "L2", Name: "", Grade: "unknown", Followups: 1, LastFollowup: timePtr(alertNow)},
		{ID: "L3", Name: "Li Na", Grade: "D", Followups: 1, LastFollowup: timePtr(alertNow)},
	}

	res := Evaluate(leads, DefaultThresholds(), alertNow)

	require.Len(t, res.Orange, 1)
	assert.Equal(t, TypeGradingAnomaly, res.Orange[0].Type)

	var unnamed []Alert
	for _, a := range res.Yellow {
		if a.Type == TypeUnnamedAnomaly {
			unnamed = append(unnamed, a)
		}
	}
	require.Len(t, unnamed, 1)
	assert.Empty(t, unnamed[0].LeadID)
}

func TestEvaluate_CleanData(t *testing.T) {
	leads := []*data.Lead{
		{ID: "L1", Name: "Chen Wei", Grade: "A", Followups: 2, LastFollowup: timePtr(alertNow)},
		{ID: "L2", Name: "Li Na", Grade: "B", Followups: 1, LastFollowup: timePtr(alertNow)},
	}

	res := Evaluate(leads, DefaultThresholds(), alertNow)
	assert.Equal(t, 0, res.Total())
}

func TestEvaluate_Empty(t *testing.T) {
	res := Evaluate(nil, DefaultThresholds(), alertNow)
	assert.Equal(t, 0, res.Total())
}
