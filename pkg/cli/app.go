// Package cli implements the leadctl command tree.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/leadworks/leadctl/pkg/config"
	"github.com/leadworks/leadctl/pkg/data"
	"github.com/leadworks/leadctl/pkg/logging"
)

const (
	appName      = "leadctl"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the SQLite database file (optional, defaults to $HOME/.leadctl/data.db)",
	}

	configDirFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the config directory (optional, defaults to $HOME/.leadctl)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefault(false)

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath string
	Debug  bool
	DB     *sql.DB
	Conf   *config.Config
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 appName,
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for sales lead and channel conversion analytics",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
			configDirFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			importCmd,
			weightsCmd,
			leadsCmd,
			alertsCmd,
			statsCmd,
			historyCmd,
			serverCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefault(true)
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			dir := c.String(configDirFlag.Name)
			if dir == "" {
				var err error
				dir, _, err = config.GetOrCreateHomeDir(appName)
				if err != nil {
					return fmt.Errorf("resolving app home dir: %w", err)
				}
			}

			conf, err := config.ReadOrCreate(dir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			dbPath := c.String(dbFilePathFlag.Name)
			if dbPath == "" {
				dbPath = path.Join(dir, data.DataFileName)
			}

			if err := data.Init(dbPath); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DBPath: dbPath,
				Debug:  c.Bool(debugFlag.Name),
				DB:     db,
				Conf:   conf,
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
