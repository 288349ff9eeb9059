package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadworks/leadctl/pkg/scoring"
)

func testReport(id string, createdAt time.Time) *WeightReport {
	return &WeightReport{
		ID:        id,
		CreatedAt: createdAt,
		Source:    "leads",
		Options: scoring.Options{
			MinWeight: 5,
			Exclude:   []string{"referral"},
			Boosts:    map[string]float64{"live-stream": 1.5},
		},
		Entries: []scoring.WeightResult{
			{Name: "short-video", ConversionRate: 0.0134, PaymentAmount: 180000, Score: 52, Rationale: "highest conversion rate"},
			{Name: "live-stream", ConversionRate: 0.0089, PaymentAmount: 72000, Score: 48, Rationale: "lowest conversion rate; boost applied"},
		},
	}
}

func TestSaveWeightReport_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, SaveWeightReport(db, testReport("run-1", created)))

	got, err := GetWeightReport(db, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "leads", got.Source)
	assert.Equal(t, 5, got.Options.MinWeight)
	assert.Equal(t, []string{"referral"}, got.Options.Exclude)
	assert.Equal(t, 1.5, got.Options.Boosts["live-stream"])
	assert.Equal(t, created, got.CreatedAt)

	require.Len(t, got.Entries, 2)
	assert.Equal(t, "short-video", got.Entries[0].Name)
	assert.Equal(t, 52, got.Entries[0].Score)
}

func TestSaveWeightReport_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	created := time.Now().UTC()

	require.NoError(t, SaveWeightReport(db, testReport("run-1", created)))
	assert.Error(t, SaveWeightReport(db, testReport("run-1", created)))
}

func TestSaveWeightReport_MissingID(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveWeightReport(db, &WeightReport{}))
	assert.Error(t, SaveWeightReport(db, nil))
}

func TestListWeightReports_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, SaveWeightReport(db, testReport("run-old", base)))
	require.NoError(t, SaveWeightReport(db, testReport("run-new", base.AddDate(0, 0, 7))))

	list, err := ListWeightReports(db, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-new", list[0].ID)
	assert.Empty(t, list[0].Entries)

	limited, err := ListWeightReports(db, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetWeightReport_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetWeightReport(db, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestHistory_NilDB(t *testing.T) {
	assert.Error(t, SaveWeightReport(nil, testReport("x", time.Now())))
	_, err := ListWeightReports(nil, 5)
	assert.Error(t, err)
	_, err = GetWeightReport(nil, "x")
	assert.Error(t, err)
}
