package cli

import (
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/scoring"
)

var statsCmd = &cli.Command{
	Name:    "stats",
	Aliases: []string{"s"},
	Usage:   "Summarizes the imported leads",
	Subcommands: []*cli.Command{
		{
			Name:   "summary",
			Usage:  "Top-line lead and revenue totals",
			Action: cmdStatsSummary,
		},
		{
			Name:   "channels",
			Usage:  "Per-channel aggregates with composite priority",
			Action: cmdStatsChannels,
		},
		{
			Name:   "sales",
			Usage:  "Per-sales-rep aggregates",
			Action: cmdStatsSales,
		},
	},
}

func cmdStatsSummary(c *cli.Context) error {
	cfg := getConfig(c)
	s, err := data.GetSummary(cfg.DB)
	if err != nil {
		return err
	}
	return encode(s)
}

func cmdStatsChannels(c *cli.Context) error {
	cfg := getConfig(c)
	stats, err := data.GetChannelStats(cfg.DB)
	if err != nil {
		return err
	}

	results := scoring.ChannelPriority(stats)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Priority > results[j].Priority
	})
	return encode(results)
}

func cmdStatsSales(c *cli.Context) error {
	cfg := getConfig(c)
	list, err := data.GetSalesPerformance(cfg.DB)
	if err != nil {
		return err
	}
	return encode(list)
}
