package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/agentscan/agentscan/internal/scan"
	"github.com/agentscan/agentscan/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "agentscan",
		Usage: "score web pages for AI agent readiness",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "scan one or more URLs and print the scored results",
				ArgsUsage: "[urls...]",
				Action:    scan.ScanAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "comma-separated list of URLs to scan",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "output format: json or yaml",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "number of concurrent scan workers",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Value: 8 * time.Second,
						Usage: "per-page fetch timeout",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML config file",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the SQLite database (default: next to the binary)",
					},
					&cli.BoolFlag{
						Name:  "no-store",
						Usage: "skip persisting results",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8080",
						Usage: "listen address",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to a YAML config file",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the SQLite database (default: next to the binary)",
					},
					&cli.BoolFlag{
						Name:  "no-store",
						Usage: "run without scan storage",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "leaderboard",
				Usage:  "show the top domains by best score",
				Action: scan.LeaderboardAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "number of entries to show",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "table",
						Usage: "output format: table or json",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the SQLite database (default: next to the binary)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "recent",
				Usage:  "show the most recent stored scans",
				Action: scan.RecentAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "number of entries to show",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "table",
						Usage: "output format: table or json",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the SQLite database (default: next to the binary)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
