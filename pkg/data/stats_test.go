package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummary_Empty(t *testing.T) {
	db := setupTestDB(t)

	s, err := GetSummary(db)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Leads)
	assert.Equal(t, 0.0, s.ConversionRate)
	assert.Equal(t, 0.0, s.Revenue)
}

func TestGetSummary_WithData(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveLeads(db, testLeads()))

	s, err := GetSummary(db)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Leads)
	assert.Equal(t, 1, s.Enrolled)
	assert.InDelta(t, 1.0/3.0, s.ConversionRate, 1e-9)
	assert.Equal(t, 12800.0, s.Revenue)
	assert.InDelta(t, 4.0/3.0, s.AvgFollowups, 1e-9)
}

func TestGetSalesPerformance(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveLeads(db, testLeads()))

	list, err := GetSalesPerformance(db)
	require.NoError(t, err)
	require.Len(t, list, 2)

	east := list[0]
	assert.Equal(t, "rep-east-1", east.SalesRep)
	assert.Equal(t, 2, east.Leads)
	assert.Equal(t, 1, east.Enrolled)
	assert.Equal(t, 0.5, east.ConversionRate)
	assert.Equal(t, 12800.0, east.Revenue)
}

func TestStats_NilDB(t *testing.T) {
	_, err := GetSummary(nil)
	assert.Error(t, err)
	_, err = GetSalesPerformance(nil)
	assert.Error(t, err)
}
