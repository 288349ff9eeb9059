package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChannelStats(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveLeads(db, testLeads()))

	stats, err := GetChannelStats(db)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Ordered by lead count descending.
	sv := stats[0]
	assert.Equal(t, "short-video", sv.Name)
	assert.Equal(t, 2, sv.Leads)
	assert.Equal(t, 1, sv.Enrolled)
	assert.Equal(t, 12800.0, sv.Revenue)
	assert.Equal(t, 2, sv.QualityLeads)
	assert.Equal(t, 0.5, sv.ConversionRate)

	ls := stats[1]
	assert.Equal(t, "live-stream", ls.Name)
	assert.Equal(t, 0.0, ls.ConversionRate)
}

func TestChannelRecordsFromLeads(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveLeads(db, testLeads()))

	records, err := ChannelRecordsFromLeads(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "short-video", records[0].Name)
	assert.Equal(t, 0.5, records[0].ConversionRate)
	assert.Equal(t, 12800.0, records[0].PaymentAmount)
}

func TestSaveChannelSummaries_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	summaries := []*ChannelSummary{
		{Name: "short-video", Leads: 1200, Enrolled: 16, Revenue: 180000, ConversionRate: 0.0134},
		{Name: "live-stream", Leads: 900, Enrolled: 8, Revenue: 72000, ConversionRate: 0.0089},
	}
	require.NoError(t, SaveChannelSummaries(db, summaries))

	count, err := CountChannelSummaries(db)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := ChannelRecordsFromSummaries(db)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "short-video", records[0].Name)
	assert.Equal(t, 0.0134, records[0].ConversionRate)
	assert.Equal(t, 180000.0, records[0].PaymentAmount)
}

func TestSaveChannelSummaries_MissingName(t *testing.T) {
	db := setupTestDB(t)
	err := SaveChannelSummaries(db, []*ChannelSummary{{ConversionRate: 0.1}})
	assert.Error(t, err)
}

func TestChannelQueries_NilDB(t *testing.T) {
	_, err := GetChannelStats(nil)
	assert.Error(t, err)
	_, err = ChannelRecordsFromSummaries(nil)
	assert.Error(t, err)
}
