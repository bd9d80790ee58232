package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "vinopick"
	s.app.Usage = "Wine price review service"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML configuration file",
			EnvVars: []string{"WINE_CONFIG"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the review, point and report APIs over HTTP.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Category:    "Database",
			Description: `Creates or alters the tables of every entity.`,
		},
		{
			Action:      s.startResync,
			Name:        "resync",
			Usage:       "Recompute the point balance of every user",
			Category:    "Database",
			Description: `Overwrites users.point with the signed sum of the point histories.`,
		},
		{
			Action:      s.printConfig,
			Name:        "config",
			Usage:       "Print the effective configuration",
			Category:    "Tool",
			Description: `Prints the merged file, environment and default configuration as TOML.`,
		},
	}
}
