package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
)

// AddTeam registers a team with empty standings.
func (s *GameService) AddTeam(ctx context.Context, name string) (*gamedb.Team, error) {
	name = strings.TrimSpace(name)
	return withTelemetry(s, ctx, "AddTeam", name, func(ctx context.Context) (*gamedb.Team, error) {
		if name == "" {
			return nil, ErrInvalidName
		}
		team, err := s.repo.CreateTeam(ctx, nil, name)
		if errors.Is(err, gamedb.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrTeamExists, name)
		}
		if err != nil {
			return nil, err
		}
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate standings cache", attr.Error(err))
		}
		return team, nil
	})
}

// AddPlayer registers a player on an existing team. The player's code is derived
// from their name.
func (s *GameService) AddPlayer(ctx context.Context, name, teamName string) (*gamedb.Player, error) {
	name = strings.TrimSpace(name)
	return withTelemetry(s, ctx, "AddPlayer", name, func(ctx context.Context) (*gamedb.Player, error) {
		code := notation.NewPlayerCode(name)
		if code == "" {
			return nil, ErrInvalidName
		}

		teamID, err := s.resolveTeam(ctx, nil, teamName)
		if err != nil {
			return nil, err
		}

		player := &gamedb.Player{Name: name, Code: code.String(), TeamID: teamID}
		err = s.repo.CreatePlayer(ctx, nil, player)
		if errors.Is(err, gamedb.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s in %q", ErrPlayerExists, code, teamName)
		}
		if err != nil {
			return nil, err
		}
		return player, nil
	})
}

// TeamStats returns the standings row of one team.
func (s *GameService) TeamStats(ctx context.Context, teamName string) (*gamedb.Team, error) {
	return withTelemetry(s, ctx, "TeamStats", teamName, func(ctx context.Context) (*gamedb.Team, error) {
		teamID, err := s.resolveTeam(ctx, nil, teamName)
		if err != nil {
			return nil, err
		}
		team, err := s.repo.GetTeam(ctx, nil, teamID)
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, teamName)
		}
		return team, err
	})
}

func (s *GameService) PlayerStats(ctx context.Context, playerID int64) (*gamedb.Player, error) {
	return withTelemetry(s, ctx, "PlayerStats", fmt.Sprint(playerID), func(ctx context.Context) (*gamedb.Player, error) {
		player, err := s.repo.GetPlayer(ctx, nil, playerID)
		if errors.Is(err, gamedb.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPlayerNotFound, playerID)
		}
		return player, err
	})
}

// PlayerFullName resolves a player code to the registered name.
func (s *GameService) PlayerFullName(ctx context.Context, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return withTelemetry(s, ctx, "PlayerFullName", code, func(ctx context.Context) (string, error) {
		player, err := s.repo.GetPlayerByCode(ctx, nil, code)
		if errors.Is(err, gamedb.ErrNotFound) {
			return "", fmt.Errorf("%w: code %s", ErrPlayerNotFound, code)
		}
		if err != nil {
			return "", err
		}
		return player.Name, nil
	})
}

func (s *GameService) PlayerCount(ctx context.Context, teamName string) (int, error) {
	return withTelemetry(s, ctx, "PlayerCount", teamName, func(ctx context.Context) (int, error) {
		teamID, err := s.resolveTeam(ctx, nil, teamName)
		if err != nil {
			return 0, err
		}
		return s.repo.CountPlayers(ctx, nil, teamID)
	})
}

func (s *GameService) TeamPlayers(ctx context.Context, teamName string) ([]gamedb.Player, error) {
	return withTelemetry(s, ctx, "TeamPlayers", teamName, func(ctx context.Context) ([]gamedb.Player, error) {
		teamID, err := s.resolveTeam(ctx, nil, teamName)
		if err != nil {
			return nil, err
		}
		return s.repo.ListPlayers(ctx, nil, teamID)
	})
}

// GamePasses returns the stored pass blocks of a game.
func (s *GameService) GamePasses(ctx context.Context, gameID int64) ([]gamedb.PassBlock, error) {
	return withTelemetry(s, ctx, "GamePasses", fmt.Sprint(gameID), func(ctx context.Context) ([]gamedb.PassBlock, error) {
		blocks, err := s.repo.GetPassBlocks(ctx, nil, gameID)
		if err != nil {
			return nil, err
		}
		if len(blocks) == 0 {
			return nil, fmt.Errorf("%w: id %d", ErrGameNotFound, gameID)
		}
		return blocks, nil
	})
}

// Standings reads through the standings cache. Cache failures fall back to the
// database.
func (s *GameService) Standings(ctx context.Context) ([]gamedb.Team, error) {
	return withTelemetry(s, ctx, "Standings", "", func(ctx context.Context) ([]gamedb.Team, error) {
		teams, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Standings cache read failed", attr.Error(err))
		}
		if ok {
			return teams, nil
		}

		teams, err = s.repo.ListTeams(ctx, nil)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, teams); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache standings", attr.Error(err))
		}
		return teams, nil
	})
}

// RefreshStandings recomputes the standings from the database and overwrites the
// cached copy, whatever it holds.
func (s *GameService) RefreshStandings(ctx context.Context) ([]gamedb.Team, error) {
	return withTelemetry(s, ctx, "RefreshStandings", "", func(ctx context.Context) ([]gamedb.Team, error) {
		teams, err := s.repo.ListTeams(ctx, nil)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, teams); err != nil {
			return nil, fmt.Errorf("failed to cache standings: %w", err)
		}
		return teams, nil
	})
}
