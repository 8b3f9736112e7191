package aggregate

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"draftmate/internal/gamedata"
	"draftmate/internal/lcu"
	"draftmate/internal/rank"

	"github.com/rs/zerolog"
)

type gamesCall struct{ begin, end int }

type fakeAPI struct {
	mu sync.Mutex

	summonersByID    map[int64]*lcu.Summoner
	summonersByPuuid map[string]*lcu.Summoner
	ranked           map[string]*lcu.RankedStats
	rankErr          error
	details          map[int64]*lcu.Game
	detailErr        map[int64]error

	// history returns the game at absolute index i, or false past the end.
	history    func(puuid string, i int) (lcu.Game, bool)
	historyErr error
	gameCount  int
	gamesCalls []gamesCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		summonersByID:    make(map[int64]*lcu.Summoner),
		summonersByPuuid: make(map[string]*lcu.Summoner),
		ranked:           make(map[string]*lcu.RankedStats),
		details:          make(map[int64]*lcu.Game),
		detailErr:        make(map[int64]error),
	}
}

func (f *fakeAPI) addSummoner(s *lcu.Summoner) {
	f.summonersByID[s.SummonerID] = s
	f.summonersByPuuid[s.Puuid] = s
}

func (f *fakeAPI) SummonerByID(_ context.Context, id int64) (*lcu.Summoner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.summonersByID[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("summoner %d: %w", id, lcu.ErrNotFound)
}

func (f *fakeAPI) SummonerByPuuid(_ context.Context, puuid string) (*lcu.Summoner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.summonersByPuuid[puuid]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("summoner %s: %w", puuid, lcu.ErrNotFound)
}

func (f *fakeAPI) SummonerGames(_ context.Context, puuid string, begin, end int) (*lcu.GameList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gamesCalls = append(f.gamesCalls, gamesCall{begin, end})
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	list := &lcu.GameList{GameCount: f.gameCount}
	if f.history == nil {
		return list, nil
	}
	for i := begin; i <= end; i++ {
		g, ok := f.history(puuid, i)
		if !ok {
			break
		}
		list.Games = append(list.Games, g)
	}
	return list, nil
}

func (f *fakeAPI) GameDetail(_ context.Context, gameID int64) (*lcu.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.detailErr[gameID]; err != nil {
		return nil, err
	}
	if g, ok := f.details[gameID]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("game %d: %w", gameID, lcu.ErrNotFound)
}

func (f *fakeAPI) RankedStats(_ context.Context, puuid string) (*lcu.RankedStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	if r, ok := f.ranked[puuid]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("ranked %s: %w", puuid, lcu.ErrNotFound)
}

func (f *fakeAPI) calls() []gamesCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gamesCall(nil), f.gamesCalls...)
}

type fakeStatic struct{}

func (fakeStatic) ProfileIcon(id int) string { return fmt.Sprintf("profile-%d", id) }
func (fakeStatic) ChampionIcon(id int) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf("champion-%d", id)
}
func (fakeStatic) SummonerSpellIcon(id int) string { return fmt.Sprintf("spell-%d", id) }
func (fakeStatic) ItemIcon(id int) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("item-%d", id)
}
func (fakeStatic) RuneIcon(id int) string { return fmt.Sprintf("rune-%d", id) }

func (fakeStatic) QueueNameMap(queueID int) gamedata.QueueInfo {
	return gamedata.QueueInfo{Name: fmt.Sprintf("queue-%d", queueID), MapName: "Summoner's Rift"}
}
func (fakeStatic) MapName(mapID int) string { return fmt.Sprintf("map-%d", mapID) }
func (fakeStatic) ChampionName(id int) string { return fmt.Sprintf("Champion%d", id) }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPipeline(api API, opts Options) *Pipeline {
	opts.Location = time.UTC
	p := New(api, fakeStatic{}, fakeStatic{}, rank.NewTranslator(rank.English), opts, zerolog.New(io.Discard))
	p.now = func() time.Time { return testNow }
	return p
}

// historyGame is a one-participant history entry.
func historyGame(id int64, queueID int, stats lcu.ParticipantStats) lcu.Game {
	return lcu.Game{
		GameID:       id,
		QueueID:      queueID,
		GameCreation: testNow.Add(-time.Hour).UnixMilli(),
		GameDuration: 1805,
		MapID:        11,
		Participants: []lcu.Participant{{ParticipantID: 1, ChampionID: 103, Spell1ID: 4, Spell2ID: 14, Stats: stats}},
	}
}

type player struct {
	summonerID int64
	puuid      string
	teamID     int
	placement  int
	win        bool
	remake     bool
	champion   int
}

// detailGame builds a full match from players, in participant order.
func detailGame(id int64, queueID int, players ...player) *lcu.Game {
	g := &lcu.Game{GameID: id, QueueID: queueID, GameCreation: testNow.UnixMilli(), GameDuration: 1500}
	for i, pl := range players {
		pid := i + 1
		g.ParticipantIdentities = append(g.ParticipantIdentities, lcu.ParticipantIdentity{
			ParticipantID: pid,
			Player:        lcu.Player{Puuid: pl.puuid, SummonerID: pl.summonerID, GameName: "name-" + pl.puuid, ProfileIcon: pid},
		})
		g.Participants = append(g.Participants, lcu.Participant{
			ParticipantID: pid,
			TeamID:        pl.teamID,
			ChampionID:    pl.champion,
			Stats: lcu.ParticipantStats{
				Win:                       pl.win,
				GameEndedInEarlySurrender: pl.remake,
				TeamEarlySurrendered:      pl.remake,
				SubteamPlacement:          pl.placement,
				Kills:                     1,
				Deaths:                    2,
				Assists:                   3,
				GoldEarned:                1000,
			},
		})
	}
	return g
}
