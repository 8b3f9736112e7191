package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"draftmate/internal/lcu"
	"draftmate/internal/rank"
)

const (
	statsWindow         = 365 * 24 * time.Hour
	overviewHistorySize = 20
	recentChampionLimit = 10
)

// MatchSummary is one match from the perspective of its first participant.
type MatchSummary struct {
	GameID    int64
	QueueID   int
	Timestamp time.Time
	Time      string // 2006/01/02 15:04
	ShortTime string // 01/02
	Duration  string // MM:SS
	ModeName  string
	MapName   string

	Remake bool
	Win    bool

	ChampionID   int
	ChampionIcon string
	Spell1Icon   string
	Spell2Icon   string
	RuneIcon     string
	ItemIcons    []string // six slots
	TrinketIcon  string

	ChampLevel int
	Kills      int
	Deaths     int
	Assists    int
	CS         int
	Gold       int

	// Position is set only for the two ranked 5v5 queues.
	Position string
}

// ParseMatchSummary builds a MatchSummary from a history entry.
func (p *Pipeline) ParseMatchSummary(game *lcu.Game) MatchSummary {
	created := time.UnixMilli(game.GameCreation).In(p.opts.Location)
	s := MatchSummary{
		GameID:    game.GameID,
		QueueID:   game.QueueID,
		Timestamp: created,
		Time:      created.Format("2006/01/02 15:04"),
		ShortTime: created.Format("01/02"),
		Duration:  formatDuration(game.GameDuration),
	}
	s.ModeName, s.MapName = p.modeAndMap(game)

	if len(game.Participants) == 0 {
		return s
	}
	part := game.Participants[0]
	stats := part.Stats

	s.Remake = stats.GameEndedInEarlySurrender
	s.Win = stats.Win
	s.ChampionID = part.ChampionID
	s.ChampionIcon = p.assets.ChampionIcon(part.ChampionID)
	s.Spell1Icon = p.assets.SummonerSpellIcon(part.Spell1ID)
	s.Spell2Icon = p.assets.SummonerSpellIcon(part.Spell2ID)
	s.RuneIcon = p.assets.RuneIcon(stats.Perk0)
	s.ItemIcons = p.itemIcons(stats.Items())
	s.TrinketIcon = p.assets.ItemIcon(stats.Item6)
	s.ChampLevel = stats.ChampLevel
	s.Kills = stats.Kills
	s.Deaths = stats.Deaths
	s.Assists = stats.Assists
	s.CS = stats.CS()
	s.Gold = stats.GoldEarned

	if isRankedQueue(game.QueueID) {
		s.Position = p.tr.Position(positionKey(part.Timeline.Lane, part.Timeline.Role))
	}
	return s
}

// positionKey maps lane+role to a canonical position, "" when ambiguous.
// Role decides between support and carry in the bottom lane.
func positionKey(lane, role string) string {
	switch {
	case lane == "TOP":
		return rank.PositionTop
	case lane == "JUNGLE":
		return rank.PositionJungle
	case lane == "MIDDLE":
		return rank.PositionMiddle
	case role == "SUPPORT":
		return rank.PositionSupport
	case lane == "BOTTOM" && role == "CARRY":
		return rank.PositionBottom
	}
	return ""
}

func (p *Pipeline) modeAndMap(game *lcu.Game) (mode, mapName string) {
	q := p.names.QueueNameMap(game.QueueID)
	if game.QueueID == QueueCustom {
		return q.Name, p.names.MapName(game.MapID)
	}
	return q.Name, q.MapName
}

func (p *Pipeline) itemIcons(ids []int) []string {
	icons := make([]string, len(ids))
	for i, id := range ids {
		icons[i] = p.assets.ItemIcon(id)
	}
	return icons
}

func formatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// GamesStats is the reduction of a list of summaries.
type GamesStats struct {
	Games   []MatchSummary
	Kills   int
	Deaths  int
	Assists int
	Wins    int
	Losses  int
}

// ParseGames keeps games of queueID (all games when 0) and sums K/D/A and
// W/L over the non-remade ones.
func ParseGames(games []MatchSummary, queueID int) GamesStats {
	var st GamesStats
	for _, g := range games {
		if queueID != 0 && g.QueueID != queueID {
			continue
		}
		st.Games = append(st.Games, g)
		if g.Remake {
			continue
		}
		st.Kills += g.Kills
		st.Deaths += g.Deaths
		st.Assists += g.Assists
		if g.Win {
			st.Wins++
		} else {
			st.Losses++
		}
	}
	return st
}

// ChampionStat counts games on one champion.
type ChampionStat struct {
	ChampionID int
	Icon       string
	Total      int
	Wins       int
	Losses     int
}

// RecentChampions returns the most played champions, custom games excluded.
func RecentChampions(games []MatchSummary) []ChampionStat {
	index := make(map[int]int)
	var champs []ChampionStat

	for _, g := range games {
		if g.QueueID == QueueCustom {
			continue
		}
		i, ok := index[g.ChampionID]
		if !ok {
			i = len(champs)
			index[g.ChampionID] = i
			champs = append(champs, ChampionStat{ChampionID: g.ChampionID, Icon: g.ChampionIcon})
		}
		champs[i].Total++
		if g.Remake {
			continue
		}
		if g.Win {
			champs[i].Wins++
		} else {
			champs[i].Losses++
		}
	}

	sort.SliceStable(champs, func(a, b int) bool { return champs[a].Total > champs[b].Total })
	if len(champs) > recentChampionLimit {
		champs = champs[:recentChampionLimit]
	}
	return champs
}

// HistoryStats is the history half of a summoner overview.
type HistoryStats struct {
	GameCount int
	Wins      int
	Losses    int
	Kills     int
	Deaths    int
	Assists   int
	Games     []MatchSummary
}

// SummonerOverview is the profile view model.
type SummonerOverview struct {
	Name             string
	TagLine          string
	Puuid            string
	Icon             string
	Level            int
	XpSinceLastLevel int
	XpUntilNextLevel int
	IsPublic         bool

	Rank       rank.Summary
	RankDetail []rank.DetailRow // nil when unranked

	// History is nil when the history fetch failed.
	History   *HistoryStats
	Champions []ChampionStat
}

// SummonerOverview fetches rank and history concurrently and joins them.
// Only the summoner lookup itself can fail.
func (p *Pipeline) SummonerOverview(ctx context.Context, puuid string) (*SummonerOverview, error) {
	summoner, err := p.api.SummonerByPuuid(ctx, puuid)
	if err != nil {
		return nil, fmt.Errorf("summoner %s: %w", puuid, err)
	}

	rankF := Go(ctx, func(ctx context.Context) (*lcu.RankedStats, error) {
		return p.api.RankedStats(ctx, summoner.Puuid)
	})
	gamesF := Go(ctx, func(ctx context.Context) (*lcu.GameList, error) {
		return p.api.SummonerGames(ctx, summoner.Puuid, 0, overviewHistorySize-1)
	})

	return p.ParseSummonerOverview(ctx, summoner, rankF, gamesF), nil
}

// ParseSummonerOverview joins a summoner with its in-flight rank and
// history fetches. Fetch failures degrade to empty sections.
func (p *Pipeline) ParseSummonerOverview(ctx context.Context, summoner *lcu.Summoner,
	rankF *Future[*lcu.RankedStats], gamesF *Future[*lcu.GameList]) *SummonerOverview {

	o := &SummonerOverview{
		Name:             summoner.Name(),
		TagLine:          summoner.TagLine,
		Puuid:            summoner.Puuid,
		Icon:             p.assets.ProfileIcon(summoner.ProfileIconID),
		Level:            summoner.SummonerLevel,
		XpSinceLastLevel: summoner.XpSinceLastLevel,
		XpUntilNextLevel: summoner.XpUntilNextLevel,
		IsPublic:         summoner.IsPublic(),
	}

	if list, err := gamesF.Await(ctx); err != nil {
		p.failureEvent(err).Str("puuid", summoner.Puuid).Msg("match history unavailable")
	} else {
		o.History = p.historyStats(list)
		o.Champions = RecentChampions(o.History.Games)
	}

	stats, err := rankF.Await(ctx)
	if err != nil {
		p.failureEvent(err).Str("puuid", summoner.Puuid).Msg("ranked stats unavailable")
		stats = nil
	}
	o.Rank = p.tr.ParseRankInfo(stats)
	if stats != nil {
		o.RankDetail = p.tr.ParseDetailRankInfo(stats)
	}
	return o
}

func (p *Pipeline) historyStats(list *lcu.GameList) *HistoryStats {
	h := &HistoryStats{GameCount: list.GameCount}
	now := p.now()

	for i := range list.Games {
		s := p.ParseMatchSummary(&list.Games[i])
		h.Games = append(h.Games, s)

		if now.Sub(s.Timestamp) > statsWindow || s.Remake || s.QueueID == QueueCustom {
			continue
		}
		h.Kills += s.Kills
		h.Deaths += s.Deaths
		h.Assists += s.Assists
		if s.Win {
			h.Wins++
		} else {
			h.Losses++
		}
	}
	return h
}
