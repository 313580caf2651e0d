package gamedb

// standingsDelta is the change a single game applies to one team's row.
type standingsDelta struct {
	won, lost, drawn int
	pointsFor        int
	pointsAgainst    int
}

// gameDeltas applies the standings rule to a final score: equal points are a draw
// for both teams, otherwise the higher score wins and the other loses.
func gameDeltas(point1, point2 int) (team1, team2 standingsDelta) {
	team1 = standingsDelta{pointsFor: point1, pointsAgainst: point2}
	team2 = standingsDelta{pointsFor: point2, pointsAgainst: point1}
	switch {
	case point1 == point2:
		team1.drawn, team2.drawn = 1, 1
	case point1 > point2:
		team1.won, team2.lost = 1, 1
	default:
		team1.lost, team2.won = 1, 1
	}
	return team1, team2
}
