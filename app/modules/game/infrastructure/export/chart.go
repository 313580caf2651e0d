package gameexport

import (
	"bytes"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	barColor        = drawing.ColorFromHex("2f6f4f")
	backgroundColor = drawing.ColorFromHex("f7f7f2")
	textColor       = drawing.ColorFromHex("1e1e1e")
)

// StandingsChart renders a PNG bar chart of wins per team in standings order.
func StandingsChart(teams []gamedb.Team) ([]byte, error) {
	if len(teams) == 0 {
		return renderNoDataPlaceholder()
	}

	bars := make([]chart.Value, len(teams))
	maxWins := 1
	for i, t := range teams {
		bars[i] = chart.Value{
			Label: t.Name,
			Value: float64(t.GamesWon),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		if t.GamesWon > maxWins {
			maxWins = t.GamesWon
		}
	}

	return renderBars("Wins", bars, float64(maxWins))
}

func renderNoDataPlaceholder() ([]byte, error) {
	return renderBars("No games played", []chart.Value{{Label: "-", Value: 0}}, 1)
}

func renderBars(title string, bars []chart.Value, yMax float64) ([]byte, error) {
	graph := chart.BarChart{
		Title:      title,
		Width:      160 + 80*len(bars),
		Height:     400,
		BarWidth:   50,
		Background: chart.Style{FillColor: backgroundColor, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: backgroundColor},
		TitleStyle: chart.Style{FontColor: textColor},
		XAxis:      chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
