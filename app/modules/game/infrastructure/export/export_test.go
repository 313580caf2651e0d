package gameexport

import (
	"bytes"
	"testing"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestWriteWorkbook(t *testing.T) {
	teams := []gamedb.Team{
		{ID: 2, Name: "Beta", GamesPlayed: 2, GamesWon: 2, PointsFor: 9, PointsAgainst: 4},
		{ID: 1, Name: "Alpha", GamesPlayed: 2, GamesLost: 2, PointsFor: 4, PointsAgainst: 9},
	}
	players := []gamedb.Player{
		{ID: 1, Name: "Justin", Code: "JUS", TeamID: 1, Catches: 3, Throws: 5},
		{ID: 2, Name: "Dana", Code: "DAN", TeamID: 2, Drops: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, teams, players))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{StandingsSheet, PlayersSheet}, f.GetSheetList())

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Team", rows[0][1])
	require.Equal(t, []string{"1", "Beta", "2", "2", "0", "0", "9", "4", "5"}, rows[1])
	require.Equal(t, []string{"2", "Alpha", "2", "0", "0", "2", "4", "9", "-5"}, rows[2])

	rows, err = f.GetRows(PlayersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Alpha", "JUS", "Justin", "3", "5", "0", "0", "0"}, rows[1])
	require.Equal(t, "Beta", rows[2][0])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestStandingsChart(t *testing.T) {
	tests := []struct {
		name  string
		teams []gamedb.Team
	}{
		{name: "no data placeholder"},
		{name: "no wins yet", teams: []gamedb.Team{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}},
		{name: "standings", teams: []gamedb.Team{{ID: 1, Name: "Alpha", GamesWon: 4}, {ID: 2, Name: "Beta", GamesWon: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := StandingsChart(tt.teams)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}
