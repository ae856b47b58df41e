// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// syncCommand runs the full fetch/reconcile/download pipeline
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync a playlist: fetch metadata, reconcile records, download media",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "playlist-id",
				Aliases:  []string{"p"},
				Usage:    "YouTube playlist ID to sync",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "downloads",
				Aliases: []string{"d"},
				Usage:   "Target directory (must exist); defaults to download.directory from config",
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "What to download: none, audio, video, both, thumbnails",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlist items to process (0 = all)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Concurrent requests and downloads per wave",
			},
			&cli.BoolFlag{
				Name:  "thumbnails",
				Usage: "Also download thumbnails",
			},
			&cli.BoolFlag{
				Name:  "ui",
				Usage: "Run with the interactive terminal interface",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output run summary as JSON",
			},
		},
		Action: r.Sync,
	}
}

// metadataCommand inspects the persisted record set
func metadataCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "metadata",
		Aliases: []string{"meta"},
		Usage:   "Print the persisted record set",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "downloads",
				Aliases: []string{"d"},
				Usage:   "Target directory containing metadata.json",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records to print",
			},
			&cli.BoolFlag{
				Name:  "unavailable",
				Usage: "Only show records no longer available upstream",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Metadata,
	}
}

// reportCommand summarizes local state
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Summarize records and download history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "downloads",
				Aliases: []string{"d"},
				Usage:   "Target directory containing metadata.json",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Report,
	}
}

// setupCommand initializes local configuration and the history database
func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a starter config.toml",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
		},
	}
}
