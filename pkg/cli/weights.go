package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/loader"
	"github.com/leadworks/leadctl/pkg/report"
	"github.com/leadworks/leadctl/pkg/scoring"
)

var (
	weightsFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Channel data file to score directly, skipping the database (optional)",
	}

	minWeightFlag = &cli.IntFlag{
		Name:  "min-weight",
		Usage: "Minimum weight per retained channel (optional, overrides config)",
	}

	excludeFlag = &cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "Channel name to exclude, repeatable (optional, overrides config)",
	}

	boostFlag = &cli.StringSliceFlag{
		Name:  "boost",
		Usage: "Channel boost as name=factor, repeatable (optional, overrides config)",
	}

	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Report file to write, format by extension [.csv, .json, .yaml] (optional)",
	}

	historyFlag = &cli.BoolFlag{
		Name:  "history",
		Usage: "Archives this run in the local database (optional, default: false)",
	}

	weightsCmd = &cli.Command{
		Name:    "weights",
		Aliases: []string{"w"},
		Usage:   "Calculates normalized channel weights from conversion rates",
		Action:  cmdWeights,
		Flags: []cli.Flag{
			weightsFileFlag,
			minWeightFlag,
			excludeFlag,
			boostFlag,
			outFlag,
			historyFlag,
		},
	}
)

func cmdWeights(c *cli.Context) error {
	cfg := getConfig(c)

	opts := cfg.Conf.Scoring.WeightOptions()
	if c.IsSet(minWeightFlag.Name) {
		opts.MinWeight = c.Int(minWeightFlag.Name)
	}
	if ex := c.StringSlice(excludeFlag.Name); len(ex) > 0 {
		opts.Exclude = ex
	}
	if raw := c.StringSlice(boostFlag.Name); len(raw) > 0 {
		boosts, err := parseBoosts(raw)
		if err != nil {
			return err
		}
		opts.Boosts = boosts
	}

	rep, err := runWeights(cfg, opts, c.String(weightsFileFlag.Name), c.Bool(historyFlag.Name))
	if err != nil {
		return err
	}

	if out := c.String(outFlag.Name); out != "" {
		if err := report.WriteFile(out, "", rep); err != nil {
			return err
		}
		slog.Info("report written", "path", out)
	}

	return encode(rep)
}

// runWeights resolves the channel records, scores them, and optionally
// archives the run. Shared between the CLI command and the HTTP server.
func runWeights(cfg *appConfig, opts scoring.Options, file string, archive bool) (*report.Report, error) {
	var (
		records []scoring.ChannelRecord
		source  string
		err     error
	)

	switch {
	case file != "":
		source = file
		records, err = loader.ReadChannelRecords(file)
	default:
		// Prefer raw leads, fall back to imported channel roll-ups.
		var n int
		if n, err = data.CountLeads(cfg.DB); err != nil {
			return nil, err
		}
		if n > 0 {
			source = "leads"
			records, err = data.ChannelRecordsFromLeads(cfg.DB)
		} else {
			source = "channels"
			records, err = data.ChannelRecordsFromSummaries(cfg.DB)
		}
	}
	if err != nil {
		return nil, err
	}

	results, err := scoring.CalculateWeights(records, opts)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Options:   opts,
		Results:   results,
	}

	if archive {
		if err := data.SaveWeightReport(cfg.DB, &data.WeightReport{
			ID:        rep.ID,
			CreatedAt: rep.CreatedAt,
			Source:    rep.Source,
			Options:   rep.Options,
			Entries:   rep.Results,
		}); err != nil {
			return nil, err
		}
		slog.Debug("run archived", "id", rep.ID)
	}

	return rep, nil
}

func parseBoosts(raw []string) (map[string]float64, error) {
	boosts := make(map[string]float64, len(raw))
	for _, r := range raw {
		name, val, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid boost %q, expected name=factor", r)
		}
		factor, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid boost factor in %q: %w", r, err)
		}
		boosts[name] = factor
	}
	return boosts, nil
}
