package gamehandlers

import (
	"context"

	gameservice "github.com/Black-And-White-Club/ultistats/app/modules/game/application"
	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
)

// FakeService provides a programmable stub for gameservice.Service.
type FakeService struct {
	trace []string

	ImportGameSheetFunc func(ctx context.Context, source string, data []byte) (*gameservice.ImportResult, error)
	ImportGameFileFunc  func(ctx context.Context, path string) (*gameservice.ImportResult, error)
	AddTeamFunc         func(ctx context.Context, name string) (*gamedb.Team, error)
	AddPlayerFunc       func(ctx context.Context, name, teamName string) (*gamedb.Player, error)
	TeamStatsFunc       func(ctx context.Context, teamName string) (*gamedb.Team, error)
	PlayerStatsFunc     func(ctx context.Context, playerID int64) (*gamedb.Player, error)
	PlayerFullNameFunc  func(ctx context.Context, code string) (string, error)
	PlayerCountFunc     func(ctx context.Context, teamName string) (int, error)
	TeamPlayersFunc     func(ctx context.Context, teamName string) ([]gamedb.Player, error)
	GamePassesFunc      func(ctx context.Context, gameID int64) ([]gamedb.PassBlock, error)
	StandingsFunc       func(ctx context.Context) ([]gamedb.Team, error)
	RefreshFunc         func(ctx context.Context) ([]gamedb.Team, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) ImportGameSheet(ctx context.Context, source string, data []byte) (*gameservice.ImportResult, error) {
	f.record("ImportGameSheet")
	if f.ImportGameSheetFunc != nil {
		return f.ImportGameSheetFunc(ctx, source, data)
	}
	return &gameservice.ImportResult{}, nil
}

func (f *FakeService) ImportGameFile(ctx context.Context, path string) (*gameservice.ImportResult, error) {
	f.record("ImportGameFile")
	if f.ImportGameFileFunc != nil {
		return f.ImportGameFileFunc(ctx, path)
	}
	return &gameservice.ImportResult{}, nil
}

func (f *FakeService) AnalyzePasses(_ context.Context, passText string) *notation.PlayerCredits {
	f.record("AnalyzePasses")
	return notation.Analyze(passText)
}

func (f *FakeService) AddTeam(ctx context.Context, name string) (*gamedb.Team, error) {
	f.record("AddTeam")
	if f.AddTeamFunc != nil {
		return f.AddTeamFunc(ctx, name)
	}
	return &gamedb.Team{ID: 1, Name: name}, nil
}

func (f *FakeService) AddPlayer(ctx context.Context, name, teamName string) (*gamedb.Player, error) {
	f.record("AddPlayer")
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, name, teamName)
	}
	return &gamedb.Player{ID: 1, Name: name}, nil
}

func (f *FakeService) TeamStats(ctx context.Context, teamName string) (*gamedb.Team, error) {
	f.record("TeamStats")
	if f.TeamStatsFunc != nil {
		return f.TeamStatsFunc(ctx, teamName)
	}
	return nil, gameservice.ErrTeamNotFound
}

func (f *FakeService) PlayerStats(ctx context.Context, playerID int64) (*gamedb.Player, error) {
	f.record("PlayerStats")
	if f.PlayerStatsFunc != nil {
		return f.PlayerStatsFunc(ctx, playerID)
	}
	return nil, gameservice.ErrPlayerNotFound
}

func (f *FakeService) PlayerFullName(ctx context.Context, code string) (string, error) {
	f.record("PlayerFullName")
	if f.PlayerFullNameFunc != nil {
		return f.PlayerFullNameFunc(ctx, code)
	}
	return "", gameservice.ErrPlayerNotFound
}

func (f *FakeService) PlayerCount(ctx context.Context, teamName string) (int, error) {
	f.record("PlayerCount")
	if f.PlayerCountFunc != nil {
		return f.PlayerCountFunc(ctx, teamName)
	}
	return 0, nil
}

func (f *FakeService) TeamPlayers(ctx context.Context, teamName string) ([]gamedb.Player, error) {
	f.record("TeamPlayers")
	if f.TeamPlayersFunc != nil {
		return f.TeamPlayersFunc(ctx, teamName)
	}
	return []gamedb.Player{}, nil
}

func (f *FakeService) GamePasses(ctx context.Context, gameID int64) ([]gamedb.PassBlock, error) {
	f.record("GamePasses")
	if f.GamePassesFunc != nil {
		return f.GamePassesFunc(ctx, gameID)
	}
	return nil, gameservice.ErrGameNotFound
}

func (f *FakeService) Standings(ctx context.Context) ([]gamedb.Team, error) {
	f.record("Standings")
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx)
	}
	return []gamedb.Team{}, nil
}

func (f *FakeService) RefreshStandings(ctx context.Context) ([]gamedb.Team, error) {
	f.record("RefreshStandings")
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx)
	}
	return []gamedb.Team{}, nil
}

var _ gameservice.Service = (*FakeService)(nil)
