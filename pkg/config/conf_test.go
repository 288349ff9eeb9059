package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 3, c.Alerts.CoolingDays)
	assert.Equal(t, 35, c.Scoring.ChannelScores["short-video"])

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()
	content := `
scoring:
  min_weight: 5
  exclude: [referral]
  boosts:
    live-stream: 1.5
alerts:
  cooling_days: 2
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0600))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Scoring.MinWeight)
	assert.Equal(t, []string{"referral"}, c.Scoring.Exclude)
	assert.Equal(t, 1.5, c.Scoring.Boosts["live-stream"])
	assert.Equal(t, 2, c.Alerts.CoolingDays)
	assert.Equal(t, 9090, c.Server.Port)

	opts := c.Scoring.WeightOptions()
	assert.Equal(t, 5, opts.MinWeight)
	assert.Equal(t, []string{"referral"}, opts.Exclude)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestRead_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("scoring: ["), 0600))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestSave_NilConfig(t *testing.T) {
	assert.Error(t, Save(t.TempDir(), nil))
	assert.Error(t, Save("", getDefaultConfig()))
}

func TestLeadScoreTables_Fallback(t *testing.T) {
	var c ScoringConfig
	tables := c.LeadScoreTables()
	assert.Equal(t, 35, tables.Channel["short-video"])
	assert.Equal(t, 20, tables.ChannelDefault)
	assert.Equal(t, 30, tables.Grade["A"])

	c = ScoringConfig{
		ChannelScores:       map[string]int{"webinar": 40},
		ChannelScoreDefault: 10,
	}
	tables = c.LeadScoreTables()
	assert.Equal(t, 40, tables.Channel["webinar"])
	assert.Equal(t, 10, tables.ChannelDefault)
	assert.Equal(t, 30, tables.Grade["A"], "grade table still defaults")
}
