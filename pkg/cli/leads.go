package cli

import (
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/scoring"
)

var (
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Max number of rows to return (optional)",
		Value: 10,
	}

	leadsCmd = &cli.Command{
		Name:    "leads",
		Aliases: []string{"l"},
		Usage:   "Queries imported leads",
		Subcommands: []*cli.Command{
			{
				Name:   "top",
				Usage:  "Lists leads by follow-up priority score, highest first",
				Action: cmdTopLeads,
				Flags: []cli.Flag{
					limitFlag,
				},
			},
		},
	}
)

// ScoredLead is a lead annotated with its follow-up priority.
type ScoredLead struct {
	data.Lead `yaml:",inline"`
	Score     int    `json:"score" yaml:"score"`
	Priority  string `json:"priority" yaml:"priority"`
}

func cmdTopLeads(c *cli.Context) error {
	cfg := getConfig(c)

	leads, err := data.ListLeads(cfg.DB)
	if err != nil {
		return err
	}

	scored := scoreLeads(leads, cfg.Conf.Scoring.LeadScoreTables(), time.Now().UTC())

	limit := c.Int(limitFlag.Name)
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return encode(scored)
}

func scoreLeads(leads []*data.Lead, tables scoring.LeadScoreTables, now time.Time) []*ScoredLead {
	scorer := scoring.NewLeadScorer(tables)

	scored := make([]*ScoredLead, 0, len(leads))
	for _, l := range leads {
		facts := scoring.LeadFacts{
			Channel:   l.Channel,
			Grade:     l.Grade,
			Followups: l.Followups,
		}
		if l.FirstContact != nil {
			facts.FirstContact = *l.FirstContact
		}
		s := scorer.Score(facts, now)
		scored = append(scored, &ScoredLead{
			Lead:     *l,
			Score:    s,
			Priority: scoring.PriorityLevel(s),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
