package gameservice

import (
	"context"
	"sync"

	gamedb "github.com/Black-And-White-Club/ultistats/app/modules/game/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

// FakeGameRepository provides a programmable stub for the gamedb.Repository interface.
type FakeGameRepository struct {
	trace []string

	CreateTeamFunc             func(ctx context.Context, db bun.IDB, name string) (*gamedb.Team, error)
	LookupTeamIDFunc           func(ctx context.Context, db bun.IDB, name string) (int64, error)
	GetTeamFunc                func(ctx context.Context, db bun.IDB, teamID int64) (*gamedb.Team, error)
	ListTeamsFunc              func(ctx context.Context, db bun.IDB) ([]gamedb.Team, error)
	CreatePlayerFunc           func(ctx context.Context, db bun.IDB, player *gamedb.Player) error
	GetPlayerFunc              func(ctx context.Context, db bun.IDB, playerID int64) (*gamedb.Player, error)
	GetPlayerByCodeFunc        func(ctx context.Context, db bun.IDB, code string) (*gamedb.Player, error)
	ListPlayersFunc            func(ctx context.Context, db bun.IDB, teamID int64) ([]gamedb.Player, error)
	CountPlayersFunc           func(ctx context.Context, db bun.IDB, teamID int64) (int, error)
	IncrementPlayerCreditsFunc func(ctx context.Context, db bun.IDB, teamID int64, code string, delta gamedb.CreditDelta) error
	CreateGameFunc             func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	StorePassBlockFunc         func(ctx context.Context, db bun.IDB, block *gamedb.PassBlock) error
	GetPassBlocksFunc          func(ctx context.Context, db bun.IDB, gameID int64) ([]gamedb.PassBlock, error)

	StoredGames  []gamedb.Game
	StoredBlocks []gamedb.PassBlock
}

// NewFakeGameRepository initializes a new FakeGameRepository with an empty trace.
func NewFakeGameRepository() *FakeGameRepository {
	return &FakeGameRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeGameRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGameRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepository) CreateTeam(ctx context.Context, db bun.IDB, name string) (*gamedb.Team, error) {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, db, name)
	}
	return &gamedb.Team{ID: 1, Name: name}, nil
}

func (f *FakeGameRepository) LookupTeamID(ctx context.Context, db bun.IDB, name string) (int64, error) {
	f.record("LookupTeamID")
	if f.LookupTeamIDFunc != nil {
		return f.LookupTeamIDFunc(ctx, db, name)
	}
	return 0, gamedb.ErrNotFound
}

func (f *FakeGameRepository) GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*gamedb.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, db, teamID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepository) ListTeams(ctx context.Context, db bun.IDB) ([]gamedb.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, db)
	}
	return []gamedb.Team{}, nil
}

func (f *FakeGameRepository) CreatePlayer(ctx context.Context, db bun.IDB, player *gamedb.Player) error {
	f.record("CreatePlayer")
	if f.CreatePlayerFunc != nil {
		return f.CreatePlayerFunc(ctx, db, player)
	}
	player.ID = 1
	return nil
}

func (f *FakeGameRepository) GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*gamedb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, playerID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepository) GetPlayerByCode(ctx context.Context, db bun.IDB, code string) (*gamedb.Player, error) {
	f.record("GetPlayerByCode")
	if f.GetPlayerByCodeFunc != nil {
		return f.GetPlayerByCodeFunc(ctx, db, code)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepository) ListPlayers(ctx context.Context, db bun.IDB, teamID int64) ([]gamedb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db, teamID)
	}
	return []gamedb.Player{}, nil
}

func (f *FakeGameRepository) CountPlayers(ctx context.Context, db bun.IDB, teamID int64) (int, error) {
	f.record("CountPlayers")
	if f.CountPlayersFunc != nil {
		return f.CountPlayersFunc(ctx, db, teamID)
	}
	return 0, nil
}

func (f *FakeGameRepository) IncrementPlayerCredits(ctx context.Context, db bun.IDB, teamID int64, code string, delta gamedb.CreditDelta) error {
	f.record("IncrementPlayerCredits")
	if f.IncrementPlayerCreditsFunc != nil {
		return f.IncrementPlayerCreditsFunc(ctx, db, teamID, code, delta)
	}
	return nil
}

func (f *FakeGameRepository) CreateGame(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, db, game)
	}
	game.ID = int64(len(f.StoredGames) + 1)
	f.StoredGames = append(f.StoredGames, *game)
	return nil
}

func (f *FakeGameRepository) StorePassBlock(ctx context.Context, db bun.IDB, block *gamedb.PassBlock) error {
	f.record("StorePassBlock")
	if f.StorePassBlockFunc != nil {
		return f.StorePassBlockFunc(ctx, db, block)
	}
	f.StoredBlocks = append(f.StoredBlocks, *block)
	return nil
}

func (f *FakeGameRepository) GetPassBlocks(ctx context.Context, db bun.IDB, gameID int64) ([]gamedb.PassBlock, error) {
	f.record("GetPassBlocks")
	if f.GetPassBlocksFunc != nil {
		return f.GetPassBlocksFunc(ctx, db, gameID)
	}
	return []gamedb.PassBlock{}, nil
}

// Ensure the fake actually satisfies the interface
var _ gamedb.Repository = (*FakeGameRepository)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
	Err       error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Published[topic] = append(p.Published[topic], msgs...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

// ------------------------
// Fake Standings Cache
// ------------------------

type FakeStandingsCache struct {
	Teams       []gamedb.Team
	Hit         bool
	GetErr      error
	SetErr      error
	Sets        int
	Invalidated int
}

func (c *FakeStandingsCache) Get(context.Context) ([]gamedb.Team, bool, error) {
	return c.Teams, c.Hit, c.GetErr
}

func (c *FakeStandingsCache) Set(_ context.Context, teams []gamedb.Team) error {
	c.Sets++
	if c.SetErr != nil {
		return c.SetErr
	}
	c.Teams = teams
	c.Hit = true
	return nil
}

func (c *FakeStandingsCache) Invalidate(context.Context) error {
	c.Invalidated++
	c.Teams = nil
	c.Hit = false
	return nil
}
