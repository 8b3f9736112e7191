package aggregate

import (
	"context"
	"fmt"
	"sort"

	"draftmate/internal/lcu"
	"draftmate/internal/rank"

	"golang.org/x/sync/errgroup"
)

// History pagination bounds, indices inclusive.
const (
	firstBatchEnd    = 14
	pageSize         = 5
	maxPageOffset    = 95
	minRankedGames   = 11
	lobbyGameLimit   = 11
	memberFetchLimit = 5
)

// Fate tells how a summoner met the current player in their previous match.
type Fate int

const (
	FateNone Fate = iota
	FateAlly
	FateEnemy
)

func (f Fate) String() string {
	switch f {
	case FateAlly:
		return "ally"
	case FateEnemy:
		return "enemy"
	}
	return ""
}

// PreviousMatch describes a summoner's most recent match.
type PreviousMatch struct {
	GameID int64
	Fate   Fate
	// ChampionResolved is false when the match reported no champion.
	ChampionResolved bool
	ChampionID       int
	ChampionName     string
}

// Member identifies a lobby or loading-screen player.
type Member struct {
	SummonerID       int64
	ChampionID       int
	CellID           int
	SelectedPosition string
}

// SummonerGameInfo is the lobby card of one player.
type SummonerGameInfo struct {
	SummonerID       int64
	Puuid            string
	Name             string
	TagLine          string
	Level            int
	XpSinceLastLevel int
	XpUntilNextLevel int
	IsPublic         bool

	ChampionID       int
	ChampionIcon     string
	CellID           int
	SelectedPosition string

	Rank    rank.Summary
	Games   []MatchSummary
	Kills   int
	Deaths  int
	Assists int

	// Previous is nil when the summoner has no match in range.
	Previous *PreviousMatch
}

// SummonerGameInfo builds the lobby card for member. A zero summoner id
// yields (nil, nil). History failures degrade to an empty game list.
func (p *Pipeline) SummonerGameInfo(ctx context.Context, member Member, isRank bool, currentSummonerID int64) (*SummonerGameInfo, error) {
	if member.SummonerID == 0 {
		return nil, nil
	}

	summoner, err := p.api.SummonerByID(ctx, member.SummonerID)
	if err != nil {
		return nil, fmt.Errorf("summoner %d: %w", member.SummonerID, err)
	}
	puuid := summoner.Puuid

	rankF := Go(ctx, func(ctx context.Context) (*lcu.RankedStats, error) {
		return p.fetchRank(ctx, puuid)
	})

	info := &SummonerGameInfo{
		SummonerID:       member.SummonerID,
		Puuid:            puuid,
		Name:             summoner.Name(),
		TagLine:          summoner.TagLine,
		Level:            summoner.SummonerLevel,
		XpSinceLastLevel: summoner.XpSinceLastLevel,
		XpUntilNextLevel: summoner.XpUntilNextLevel,
		IsPublic:         summoner.IsPublic(),
		ChampionID:       member.ChampionID,
		ChampionIcon:     p.assets.ChampionIcon(member.ChampionID),
		CellID:           member.CellID,
		SelectedPosition: member.SelectedPosition,
	}

	games, err := p.lobbyHistory(ctx, puuid, p.opts.FilterRankedHistory && isRank)
	if err != nil {
		p.failureEvent(err).Str("puuid", puuid).Msg("match history unavailable")
		games = nil
	}
	if len(games) > lobbyGameLimit {
		games = games[:lobbyGameLimit]
	}
	for i := range games {
		info.Games = append(info.Games, p.ParseMatchSummary(&games[i]))
	}
	totals := ParseGames(info.Games, 0)
	info.Kills, info.Deaths, info.Assists = totals.Kills, totals.Deaths, totals.Assists

	if len(info.Games) > 0 {
		info.Previous = p.previousMatch(ctx, info.Games[0].GameID, puuid, currentSummonerID)
	}

	stats, err := rankF.Await(ctx)
	if err != nil {
		p.log.Warn().Err(err).Str("puuid", puuid).Msg("ranked stats unavailable")
		stats = nil
	}
	info.Rank = p.tr.ParseRankInfo(stats)

	return info, nil
}

// lobbyHistory fetches the first batch and, when filtering, keeps paging
// in batches of pageSize until enough ranked games are found or the offset
// passes maxPageOffset.
func (p *Pipeline) lobbyHistory(ctx context.Context, puuid string, rankedOnly bool) ([]lcu.Game, error) {
	first, err := p.api.SummonerGames(ctx, puuid, 0, firstBatchEnd)
	if err != nil {
		return nil, err
	}
	if !rankedOnly {
		return first.Games, nil
	}

	seen := make(map[int64]struct{})
	var games []lcu.Game
	collect := func(batch []lcu.Game) {
		for _, g := range batch {
			if !isRankedQueue(g.QueueID) {
				continue
			}
			if _, dup := seen[g.GameID]; dup {
				continue
			}
			seen[g.GameID] = struct{}{}
			games = append(games, g)
		}
	}
	collect(first.Games)

	for begin := firstBatchEnd + 1; len(games) < minRankedGames && begin <= maxPageOffset; begin += pageSize {
		batch, err := p.api.SummonerGames(ctx, puuid, begin, begin+pageSize-1)
		if err != nil {
			return nil, err
		}
		collect(batch.Games)
	}
	return games, nil
}

func (p *Pipeline) previousMatch(ctx context.Context, gameID int64, puuid string, currentSummonerID int64) *PreviousMatch {
	game, err := p.api.GameDetail(ctx, gameID)
	if err != nil {
		p.failureEvent(err).Int64("game_id", gameID).Msg("previous match unavailable")
		return nil
	}
	tm, err := GetTeammates(game, puuid)
	if err != nil {
		p.log.Warn().Err(err).Msg("previous match unavailable")
		return nil
	}

	prev := &PreviousMatch{GameID: gameID, ChampionID: tm.ChampionID}
	switch {
	case containsSummoner(tm.Allies, currentSummonerID):
		prev.Fate = FateAlly
	case containsSummoner(tm.Enemies, currentSummonerID):
		prev.Fate = FateEnemy
	}
	if tm.ChampionID > 0 {
		prev.ChampionResolved = true
		prev.ChampionName = p.names.ChampionName(tm.ChampionID)
	}
	return prev
}

func containsSummoner(members []TeamMember, summonerID int64) bool {
	for _, m := range members {
		if m.SummonerID == summonerID {
			return true
		}
	}
	return false
}

// TeamGameInfo is the lobby view of one team.
type TeamGameInfo struct {
	Summoners []*SummonerGameInfo
	Champions map[int64]int // summoner id -> champion id
	Order     []int64
}

func newTeamGameInfo(summoners []*SummonerGameInfo) *TeamGameInfo {
	t := &TeamGameInfo{Summoners: summoners, Champions: make(map[int64]int, len(summoners))}
	for _, s := range summoners {
		t.Champions[s.SummonerID] = s.ChampionID
		t.Order = append(t.Order, s.SummonerID)
	}
	return t
}

// gatherMembers builds cards concurrently, keeping input order. A failed
// member is dropped without affecting the others.
func (p *Pipeline) gatherMembers(ctx context.Context, members []Member, isRank bool, currentSummonerID int64) []*SummonerGameInfo {
	results := make([]*SummonerGameInfo, len(members))

	var g errgroup.Group
	g.SetLimit(memberFetchLimit)
	for i, m := range members {
		g.Go(func() error {
			info, err := p.SummonerGameInfo(ctx, m, isRank, currentSummonerID)
			if err != nil {
				p.failureEvent(err).Int64("summoner_id", m.SummonerID).Msg("skipping player")
				return nil
			}
			results[i] = info
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// AllyGameInfo builds the cards of the local team during champion select,
// ordered by cell id.
func (p *Pipeline) AllyGameInfo(ctx context.Context, session *lcu.ChampSelectSession, currentSummonerID int64) *TeamGameInfo {
	// only ranked lobbies assign positions
	isRank := len(session.MyTeam) > 0 && session.MyTeam[0].AssignedPosition != ""

	members := make([]Member, 0, len(session.MyTeam))
	for _, pl := range session.MyTeam {
		members = append(members, Member{
			SummonerID:       pl.SummonerID,
			ChampionID:       pl.ChampionID,
			CellID:           pl.CellID,
			SelectedPosition: pl.AssignedPosition,
		})
	}

	summoners := p.gatherMembers(ctx, members, isRank, currentSummonerID)
	sort.SliceStable(summoners, func(a, b int) bool { return summoners[a].CellID < summoners[b].CellID })
	return newTeamGameInfo(summoners)
}

// Side picks a team relative to the current summoner.
type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

// queues with no per-player lobby cards (arena, TFT)
var skippedLobbyQueues = map[int]bool{1700: true, 1090: true, 1100: true, 1110: true, 1130: true, 1160: true}

// GameInfoByGameflowSession builds the cards of one side of a game in
// progress. It returns nil for queues without lobby cards.
func (p *Pipeline) GameInfoByGameflowSession(ctx context.Context, session *lcu.GameflowSession, currentSummonerID int64, side Side) *TeamGameInfo {
	data := session.GameData
	if skippedLobbyQueues[data.Queue.ID] {
		return nil
	}
	isRank := isRankedQueue(data.Queue.ID)

	ally, enemy := SeparateTeams(data, currentSummonerID)
	team := ally
	if side == SideEnemy {
		team = enemy
	}

	members := make([]Member, 0, len(team))
	for _, pl := range team {
		members = append(members, Member{
			SummonerID:       pl.SummonerID,
			ChampionID:       pl.ChampionID,
			SelectedPosition: pl.SelectedPosition,
		})
	}

	summoners := p.gatherMembers(ctx, members, isRank, currentSummonerID)
	if isRank {
		if sorted, ok := SortByGameRole(summoners); ok {
			summoners = sorted
		}
	}
	return newTeamGameInfo(summoners)
}

// SeparateTeams returns (ally, enemy). The current summoner's team is the
// ally team; when absent from team one, team two is assumed.
func SeparateTeams(data lcu.GameData, currentSummonerID int64) (ally, enemy []lcu.GameflowPlayer) {
	for _, s := range data.TeamOne {
		if s.SummonerID == currentSummonerID {
			return data.TeamOne, data.TeamTwo
		}
	}
	return data.TeamTwo, data.TeamOne
}

var roleOrder = map[string]int{"TOP": 0, "JUNGLE": 1, "MIDDLE": 2, "BOTTOM": 3, "UTILITY": 4}

// sortByRole returns false when any position is outside the canonical five.
func sortByRole[T any](items []T, position func(T) string) ([]T, bool) {
	for _, it := range items {
		if _, ok := roleOrder[position(it)]; !ok {
			return nil, false
		}
	}
	sorted := append([]T(nil), items...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return roleOrder[position(sorted[a])] < roleOrder[position(sorted[b])]
	})
	return sorted, true
}

// SortByGameRole orders cards top to support.
func SortByGameRole(summoners []*SummonerGameInfo) ([]*SummonerGameInfo, bool) {
	return sortByRole(summoners, func(s *SummonerGameInfo) string { return s.SelectedPosition })
}

// AllyOrderByGameRole returns ally summoner ids top to support, for ranked
// queues with complete positions only.
func AllyOrderByGameRole(session *lcu.GameflowSession, currentSummonerID int64) ([]int64, bool) {
	if !isRankedQueue(session.GameData.Queue.ID) {
		return nil, false
	}
	ally, _ := SeparateTeams(session.GameData, currentSummonerID)
	sorted, ok := sortByRole(ally, func(s lcu.GameflowPlayer) string { return s.SelectedPosition })
	if !ok {
		return nil, false
	}
	ids := make([]int64, len(sorted))
	for i, s := range sorted {
		ids[i] = s.SummonerID
	}
	return ids, true
}

// NoPremade is the color of a solo-queued player.
const NoPremade = -1

// TeamColors groups premade players by their shared team participant id.
// Each group of two or more gets its own color index; solo players get NoPremade.
func TeamColors(session *lcu.GameflowSession, currentSummonerID int64) (ally, enemy map[int64]int) {
	a, e := SeparateTeams(session.GameData, currentSummonerID)
	return premadeColors(a), premadeColors(e)
}

func premadeColors(team []lcu.GameflowPlayer) map[int64]int {
	groups := make(map[int64][]int64)
	var order []int64
	for _, s := range team {
		if s.SummonerID == 0 || s.TeamParticipantID == 0 {
			continue
		}
		if _, ok := groups[s.TeamParticipantID]; !ok {
			order = append(order, s.TeamParticipantID)
		}
		groups[s.TeamParticipantID] = append(groups[s.TeamParticipantID], s.SummonerID)
	}

	colors := make(map[int64]int)
	next := 0
	for _, tid := range order {
		ids := groups[tid]
		if len(ids) == 1 {
			colors[ids[0]] = NoPremade
			continue
		}
		for _, id := range ids {
			colors[id] = next
		}
		next++
	}
	return colors
}

// SummonerOrder lists summoner ids by cell id, skipping empty slots.
func SummonerOrder(team []lcu.ChampSelectPlayer) []int64 {
	sorted := append([]lcu.ChampSelectPlayer(nil), team...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].CellID < sorted[b].CellID })

	var ids []int64
	for _, s := range sorted {
		if s.SummonerID != 0 {
			ids = append(ids, s.SummonerID)
		}
	}
	return ids
}
