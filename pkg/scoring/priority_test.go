package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPriority(t *testing.T) {
	stats := []ChannelStats{
		{Name: "short-video", Leads: 400, Enrolled: 8, Revenue: 96000, QualityLeads: 60, ConversionRate: 0.02},
		{Name: "live-stream", Leads: 200, Enrolled: 2, Revenue: 18000, QualityLeads: 20, ConversionRate: 0.01},
	}

	results := ChannelPriority(stats)
	require.Len(t, results, 2)

	// Best on every axis scores the full 100 points.
	assert.Equal(t, 100.0, results[0].Priority)
	assert.Greater(t, results[0].Priority, results[1].Priority)
	assert.Equal(t, 12000.0, results[0].AvgOrder)
}

func TestChannelPriority_ZeroActivity(t *testing.T) {
	stats := []ChannelStats{
		{Name: "dead", Leads: 0, Enrolled: 0},
	}
	results := ChannelPriority(stats)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Priority)
}

func TestChannelStats_Derived(t *testing.T) {
	c := ChannelStats{Leads: 100, Enrolled: 4, Revenue: 40000, QualityLeads: 25}
	assert.Equal(t, 10000.0, c.AvgOrderValue())
	assert.Equal(t, 0.25, c.QualityRate())

	var zero ChannelStats
	assert.Equal(t, 0.0, zero.AvgOrderValue())
	assert.Equal(t, 0.0, zero.QualityRate())
}
