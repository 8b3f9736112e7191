// Package aggregate builds display-ready summoner, match and teammate
// aggregates from raw client data.
package aggregate

import (
	"context"
	"errors"
	"time"

	"draftmate/internal/gamedata"
	"draftmate/internal/lcu"
	"draftmate/internal/rank"

	"github.com/rs/zerolog"
)

// API is the part of the client the pipeline reads from.
type API interface {
	SummonerByID(ctx context.Context, id int64) (*lcu.Summoner, error)
	SummonerByPuuid(ctx context.Context, puuid string) (*lcu.Summoner, error)
	SummonerGames(ctx context.Context, puuid string, begin, end int) (*lcu.GameList, error)
	GameDetail(ctx context.Context, gameID int64) (*lcu.Game, error)
	RankedStats(ctx context.Context, puuid string) (*lcu.RankedStats, error)
}

// Assets resolves icon handles by id.
type Assets interface {
	ProfileIcon(id int) string
	ChampionIcon(id int) string
	SummonerSpellIcon(id int) string
	ItemIcon(id int) string
	RuneIcon(id int) string
}

// Names resolves static names by id.
type Names interface {
	QueueNameMap(queueID int) gamedata.QueueInfo
	MapName(mapID int) string
	ChampionName(id int) string
}

// Queue ids with special handling.
const (
	QueueCustom     = 0
	QueueRankedSolo = 420
	QueueRankedFlex = 440
	QueueArena      = 1700
)

func isRankedQueue(id int) bool {
	return id == QueueRankedSolo || id == QueueRankedFlex
}

// Options are read once at construction.
type Options struct {
	// ShowRankInGameInfo adds live rank data to match detail rows.
	ShowRankInGameInfo bool
	// FilterRankedHistory restricts in-lobby history to ranked queues.
	FilterRankedHistory bool
	// Location formats match timestamps. Defaults to time.Local.
	Location *time.Location
}

// Pipeline builds aggregates. It is safe for concurrent use.
type Pipeline struct {
	api    API
	assets Assets
	names  Names
	tr     *rank.Translator
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
}

func New(api API, assets Assets, names Names, tr *rank.Translator, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Pipeline{
		api:    api,
		assets: assets,
		names:  names,
		tr:     tr,
		opts:   opts,
		log:    logger.With().Str("component", "aggregate").Logger(),
		now:    time.Now,
	}
}

// fetchRank returns nil stats when the summoner has no ranked data.
func (p *Pipeline) fetchRank(ctx context.Context, puuid string) (*lcu.RankedStats, error) {
	stats, err := p.api.RankedStats(ctx, puuid)
	if errors.Is(err, lcu.ErrNotFound) {
		return nil, nil
	}
	return stats, err
}

// rankOrUnranked swallows rank failures, logging them by kind.
func (p *Pipeline) rankOrUnranked(ctx context.Context, puuid string) *lcu.RankedStats {
	stats, err := p.fetchRank(ctx, puuid)
	if err != nil {
		p.log.Warn().Err(err).Str("puuid", puuid).Msg("ranked stats unavailable")
		return nil
	}
	return stats
}

// failureEvent separates expected absences from transport failures.
func (p *Pipeline) failureEvent(err error) *zerolog.Event {
	if errors.Is(err, lcu.ErrNotFound) {
		return p.log.Debug().Err(err)
	}
	return p.log.Warn().Err(err)
}
