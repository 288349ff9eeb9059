package cli

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/leadworks/leadctl/pkg/alert"
	"github.com/leadworks/leadctl/pkg/data"
)

var alertsCmd = &cli.Command{
	Name:    "alerts",
	Aliases: []string{"a"},
	Usage:   "Evaluates anomaly rules over the imported leads",
	Action:  cmdAlerts,
}

func cmdAlerts(c *cli.Context) error {
	cfg := getConfig(c)

	leads, err := data.ListLeads(cfg.DB)
	if err != nil {
		return err
	}

	res := alert.Evaluate(leads, cfg.Conf.Alerts, time.Now().UTC())
	slog.Info("alerts evaluated", "leads", len(leads), "alerts", res.Total())
	return encode(res)
}
