package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/leadworks/leadctl/pkg/data"
)

var (
	reportIDFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Archived report ID",
		Required: true,
	}

	historyCmd = &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Queries archived calculator runs",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Lists archived runs, newest first",
				Action: cmdHistoryList,
				Flags: []cli.Flag{
					limitFlag,
				},
			},
			{
				Name:   "get",
				Usage:  "Shows one archived run with its entries",
				Action: cmdHistoryGet,
				Flags: []cli.Flag{
					reportIDFlag,
				},
			},
		},
	}
)

func cmdHistoryList(c *cli.Context) error {
	cfg := getConfig(c)
	list, err := data.ListWeightReports(cfg.DB, c.Int(limitFlag.Name))
	if err != nil {
		return err
	}
	return encode(list)
}

func cmdHistoryGet(c *cli.Context) error {
	cfg := getConfig(c)
	r, err := data.GetWeightReport(cfg.DB, c.String(reportIDFlag.Name))
	if err != nil {
		return err
	}
	return encode(r)
}
