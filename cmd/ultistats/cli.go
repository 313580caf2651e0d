package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/ultistats/app"
	gameservice "github.com/Black-And-White-Club/ultistats/app/modules/game/application"
	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gameexport "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/export"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/ultistats/config"
	"github.com/Black-And-White-Club/ultistats/internal/observability"
	"github.com/urfave/cli/v2"
)

func newCLIApp() *cli.App {
	return &cli.App{
		Name:  "ultistats",
		Usage: "score games and track player statistics from pass notation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"ULTISTATS_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
			newTeamCommand(),
			newPlayerCommand(),
			newPcodeCommand(),
			newAnalyzeCommand(),
			newImportCommand(),
			newExportCommand(),
			newChartCommand(),
			newServeCommand(),
		},
	}
}

// withApp loads the configuration, connects to storage and runs fn.
func withApp(c *cli.Context, fn func(a *app.App) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.NewLogger(cfg.Observability, c.App.ErrWriter)

	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("Failed to close resources", attr.Error(err))
		}
	}()
	return fn(a)
}

func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() < n {
		return cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.HelpName, usage), 2)
	}
	return nil
}

func newTeamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "manage teams",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a team",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "NAME"); err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						team, err := a.Game.Service.AddTeam(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Added team %s (id %d)\n", team.Name, team.ID)
						return nil
					})
				},
			},
			{
				Name:      "stats",
				Usage:     "print a team's standings",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "NAME"); err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						svc := a.Game.Service
						team, err := svc.TeamStats(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						count, err := svc.PlayerCount(c.Context, team.Name)
						if err != nil {
							return err
						}
						printStandings(c, []gamedb.Team{*team})
						fmt.Fprintf(c.App.Writer, "Players: %d\n", count)
						return nil
					})
				},
			},
			{
				Name:  "standings",
				Usage: "print the standings table",
				Action: func(c *cli.Context) error {
					return withApp(c, func(a *app.App) error {
						teams, err := a.Game.Service.Standings(c.Context)
						if err != nil {
							return err
						}
						printStandings(c, teams)
						return nil
					})
				},
			},
		},
	}
}

func newPlayerCommand() *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "manage players",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register players on a team",
				ArgsUsage: "NAME...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "team", Aliases: []string{"t"}, Required: true, Usage: "team name"},
				},
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "--team TEAM NAME..."); err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						for _, name := range c.Args().Slice() {
							p, err := a.Game.Service.AddPlayer(c.Context, name, c.String("team"))
							if err != nil {
								return err
							}
							fmt.Fprintf(c.App.Writer, "Added %s as %s (id %d)\n", p.Name, p.Code, p.ID)
						}
						return nil
					})
				},
			},
			{
				Name:      "list",
				Usage:     "list a team's players and their credits",
				ArgsUsage: "TEAM",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "TEAM"); err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						players, err := a.Game.Service.TeamPlayers(c.Context, c.Args().First())
						if err != nil {
							return err
						}
						printPlayers(c, players)
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "print a player's credits by id or code",
				ArgsUsage: "ID|CODE",
				Action: func(c *cli.Context) error {
					if err := requireArgs(c, 1, "ID|CODE"); err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						svc := a.Game.Service
						arg := c.Args().First()
						id, err := strconv.ParseInt(arg, 10, 64)
						if err != nil {
							name, err := svc.PlayerFullName(c.Context, arg)
							if err != nil {
								return err
							}
							fmt.Fprintln(c.App.Writer, name)
							return nil
						}
						p, err := svc.PlayerStats(c.Context, id)
						if err != nil {
							return err
						}
						printPlayers(c, []gamedb.Player{*p})
						return nil
					})
				},
			},
		},
	}
}

func newPcodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "pcode",
		Usage:     "print CODE,Name for every name in a roster file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "FILE"); err != nil {
				return err
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := notation.ParseRoster(f)
			if err != nil {
				return err
			}
			w := csv.NewWriter(c.App.Writer)
			for _, e := range entries {
				if err := w.Write([]string{e.Code.String(), e.Name}); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}

func newAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print the credits and points of a pass notation file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "FILE"); err != nil {
				return err
			}
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			text := string(data)
			credits := notation.Analyze(text)

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tCATCH\tDROP\tTHROW\tSNATCH\tFOUL")
			for _, e := range credits.Entries() {
				cr := e.Credits
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", e.Code, cr.Catch, cr.Drop, cr.Throw, cr.Snatch, cr.Foul)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Points: %d\n", notation.CountPoints(text))
			return nil
		},
	}
}

func newImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import game sheets",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "FILE..."); err != nil {
				return err
			}
			return withApp(c, func(a *app.App) error {
				failed := 0
				for _, path := range c.Args().Slice() {
					res, err := a.Game.Service.ImportGameFile(c.Context, path)
					if err != nil {
						failed++
						reportImportError(c, path, err)
						continue
					}
					fmt.Fprintf(c.App.Writer, "%s: game %d, %s %d - %d %s\n",
						path, res.GameID, res.Team1.Name, res.Team1.Points, res.Team2.Points, res.Team2.Name)
					for _, side := range []gameservice.TeamImport{res.Team1, res.Team2} {
						for _, code := range side.UnknownCodes {
							fmt.Fprintf(c.App.Writer, "  skipped unregistered player %s (%s)\n", code, side.Name)
						}
					}
				}
				if failed > 0 {
					return cli.Exit(fmt.Sprintf("%d of %d game sheets failed", failed, c.NArg()), 1)
				}
				return nil
			})
		},
	}
}

func reportImportError(c *cli.Context, path string, err error) {
	var perr *notation.ParsingError
	if errors.As(err, &perr) {
		fmt.Fprintf(c.App.ErrWriter, "%s: %s\n", perr.Path, perr.Reason)
		return
	}
	fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", path, err)
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write standings and player statistics to an XLSX workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "standings.xlsx"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				svc := a.Game.Service
				teams, err := svc.Standings(c.Context)
				if err != nil {
					return err
				}
				var players []gamedb.Player
				for _, t := range teams {
					ps, err := svc.TeamPlayers(c.Context, t.Name)
					if err != nil {
						return err
					}
					players = append(players, ps...)
				}

				f, err := os.Create(c.String("out"))
				if err != nil {
					return err
				}
				if err := gameexport.WriteWorkbook(f, teams, players); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", c.String("out"))
				return nil
			})
		},
	}
}

func newChartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render a PNG bar chart of wins per team",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "standings.png"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				teams, err := a.Game.Service.Standings(c.Context)
				if err != nil {
					return err
				}
				png, err := gameexport.StandingsChart(teams)
				if err != nil {
					return err
				}
				if err := os.WriteFile(c.String("out"), png, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", c.String("out"))
				return nil
			})
		},
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and event router",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				return a.Serve(c.Context)
			})
		},
	}
}

func printStandings(c *cli.Context, teams []gamedb.Team) {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tP\tW\tD\tL\tPF\tPA\tDIFF")
	for _, t := range teams {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			t.Name, t.GamesPlayed, t.GamesWon, t.GamesDrawn, t.GamesLost, t.PointsFor, t.PointsAgainst, t.PointDifference())
	}
	tw.Flush()
}

func printPlayers(c *cli.Context, players []gamedb.Player) {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCATCHES\tTHROWS\tDROPS\tSNATCHES\tFOULS")
	for _, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			p.ID, p.Code, p.Name, p.Catches, p.Throws, p.Drops, p.Snatches, p.Fouls)
	}
	tw.Flush()
}
