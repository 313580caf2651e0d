package gameservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/ultistats/app/modules/game/application/notation"
	gameevents "github.com/Black-And-White-Club/ultistats/app/modules/game/domain/events"
	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ImportGameSheet parses and stores one game sheet. Nothing is written when the
// sheet fails to parse or names an unregistered team.
func (s *GameService) ImportGameSheet(ctx context.Context, source string, data []byte) (*ImportResult, error) {
	return withTelemetry(s, ctx, "ImportGameSheet", source, func(ctx context.Context) (*ImportResult, error) {
		rec, err := notation.ParseGameSheet(data)
		if err != nil {
			var perr *notation.ParsingError
			if errors.As(err, &perr) && perr.Path == "" {
				perr.Path = source
			}
			return nil, err
		}
		return s.storeGame(ctx, source, rec)
	})
}

// ImportGameFile reads the sheet at path and imports it.
func (s *GameService) ImportGameFile(ctx context.Context, path string) (*ImportResult, error) {
	return withTelemetry(s, ctx, "ImportGameFile", path, func(ctx context.Context) (*ImportResult, error) {
		rec, err := notation.ParseGameFile(path)
		if err != nil {
			return nil, err
		}
		return s.storeGame(ctx, path, rec)
	})
}

// AnalyzePasses computes credits without touching storage.
func (s *GameService) AnalyzePasses(ctx context.Context, passText string) *notation.PlayerCredits {
	credits := notation.Analyze(passText)
	s.logger.DebugContext(ctx, "Analyzed pass notation",
		attr.Int("players", credits.Len()),
		attr.Int("points", notation.CountPoints(passText)),
	)
	return credits
}

func (s *GameService) storeGame(ctx context.Context, source string, rec *notation.GameRecord) (*ImportResult, error) {
	correlationID := uuid.NewString()

	result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*ImportResult, error) {
		team1ID, err := s.resolveTeam(ctx, db, rec.Team1)
		if err != nil {
			return nil, err
		}
		team2ID, err := s.resolveTeam(ctx, db, rec.Team2)
		if err != nil {
			return nil, err
		}
		if team1ID == team2ID {
			return nil, fmt.Errorf("%w: %q", ErrSameTeam, rec.Team1)
		}

		game := &gamedb.Game{
			Team1ID: team1ID,
			Team2ID: team2ID,
			Point1:  rec.Points1,
			Point2:  rec.Points2,
			Source:  source,
		}
		if err := s.repo.CreateGame(ctx, db, game); err != nil {
			return nil, fmt.Errorf("failed to store game: %w", err)
		}

		res := &ImportResult{GameID: game.ID, Source: source}
		res.Team1, err = s.storeSide(ctx, db, game.ID, team1ID, rec.Team1, rec.String1, rec.Points1)
		if err != nil {
			return nil, err
		}
		res.Team2, err = s.storeSide(ctx, db, game.ID, team2ID, rec.Team2, rec.String2, rec.Points2)
		if err != nil {
			return nil, err
		}

		return res, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordGameImported(ctx)
	s.logger.InfoContext(ctx, "Game imported",
		attr.String("correlation_id", correlationID),
		attr.String("source", source),
		attr.Int64("game_id", result.GameID),
		attr.String("team1", result.Team1.Name),
		attr.Int("points1", result.Team1.Points),
		attr.String("team2", result.Team2.Name),
		attr.Int("points2", result.Team2.Points),
	)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate standings cache", attr.Error(err))
	}
	s.publishImported(ctx, correlationID, result)

	return result, nil
}

func (s *GameService) resolveTeam(ctx context.Context, db bun.IDB, name string) (int64, error) {
	id, err := s.repo.LookupTeamID(ctx, db, name)
	if errors.Is(err, gamedb.ErrNotFound) {
		return 0, fmt.Errorf("%w: %q", ErrTeamNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up team %q: %w", name, err)
	}
	return id, nil
}

// storeSide stores one team's pass block and adds its credits to the team's
// registered players.
func (s *GameService) storeSide(
	ctx context.Context,
	db bun.IDB,
	gameID, teamID int64,
	teamName, passText string,
	points int,
) (TeamImport, error) {
	side := TeamImport{
		TeamID:       teamID,
		Name:         teamName,
		Points:       points,
		UnknownCodes: []string{},
	}

	if err := s.repo.StorePassBlock(ctx, db, &gamedb.PassBlock{
		PassString: passText,
		GameID:     gameID,
		TeamID:     teamID,
	}); err != nil {
		return side, fmt.Errorf("failed to store pass block for %q: %w", teamName, err)
	}

	side.Credits = notation.Analyze(passText)
	applied := 0
	for _, entry := range side.Credits.Entries() {
		code := entry.Code.String()
		err := s.repo.IncrementPlayerCredits(ctx, db, teamID, code, creditDelta(entry.Credits))
		switch {
		case errors.Is(err, gamedb.ErrNotFound):
			side.UnknownCodes = append(side.UnknownCodes, code)
			s.metrics.RecordUnknownPlayer(ctx, code)
			s.logger.WarnContext(ctx, "Skipping unregistered player code",
				attr.String("team", teamName),
				attr.String("code", code),
			)
		case err != nil:
			return side, fmt.Errorf("failed to update credits for %s: %w", code, err)
		default:
			applied++
		}
	}
	s.metrics.RecordCreditsAssigned(ctx, applied)

	return side, nil
}

func (s *GameService) publishImported(ctx context.Context, correlationID string, res *ImportResult) {
	msg, err := gameevents.NewMessage(gameevents.GameImportedPayloadV1{
		GameID:     res.GameID,
		Team1ID:    res.Team1.TeamID,
		Team2ID:    res.Team2.TeamID,
		Points1:    res.Team1.Points,
		Points2:    res.Team2.Points,
		Source:     res.Source,
		ImportedAt: time.Now().UTC(),
	}, correlationID)
	if err == nil {
		err = s.publisher.Publish(gameevents.GameImportedV1, msg)
	}
	if err != nil {
		// The game is committed; subscribers only refresh derived data.
		s.logger.ErrorContext(ctx, "Failed to publish game imported event",
			attr.Int64("game_id", res.GameID),
			attr.Error(err),
		)
	}
}

func creditDelta(c notation.Credits) gamedb.CreditDelta {
	return gamedb.CreditDelta{
		Catches:  c.Catch,
		Drops:    c.Drop,
		Throws:   c.Throw,
		Snatches: c.Snatch,
		Fouls:    c.Foul,
	}
}
