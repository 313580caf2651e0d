// Package gameexport renders standings and player statistics as spreadsheets
// and charts.
package gameexport

import (
	"fmt"
	"io"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	StandingsSheet = "Standings"
	PlayersSheet   = "Players"
)

var (
	standingsHeader = []any{"Rank", "Team", "Played", "Won", "Drawn", "Lost", "Points For", "Points Against", "Difference"}
	playersHeader   = []any{"Team", "Code", "Name", "Catches", "Throws", "Drops", "Snatches", "Fouls"}
)

// WriteWorkbook writes an XLSX workbook with one row per team, in the given
// order, and one row per player.
func WriteWorkbook(w io.Writer, teams []gamedb.Team, players []gamedb.Player) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(PlayersSheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", PlayersSheet, err)
	}

	if err := writeRow(f, StandingsSheet, 1, standingsHeader); err != nil {
		return err
	}
	teamNames := make(map[int64]string, len(teams))
	for i, t := range teams {
		teamNames[t.ID] = t.Name
		row := []any{
			i + 1, t.Name, t.GamesPlayed, t.GamesWon, t.GamesDrawn, t.GamesLost,
			t.PointsFor, t.PointsAgainst, t.PointDifference(),
		}
		if err := writeRow(f, StandingsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, PlayersSheet, 1, playersHeader); err != nil {
		return err
	}
	for i, p := range players {
		row := []any{
			teamNames[p.TeamID], p.Code, p.Name, p.Catches, p.Throws, p.Drops, p.Snatches, p.Fouls,
		}
		if err := writeRow(f, PlayersSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
