package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"draftmate/internal/lcu"

	"golang.org/x/sync/errgroup"
)

// ErrNotParticipant is returned when a puuid did not play in a match.
var ErrNotParticipant = errors.New("summoner did not participate in match")

const (
	playerFetchLimit     = 10
	recentTeammatesLimit = 5
)

// RemapTeamID folds legacy team ids onto the two canonical teams.
// Custom games report team 0, which lands on 200.
func RemapTeamID(teamID int) int {
	switch teamID {
	case 300:
		return 100
	case 400, 0:
		return 200
	}
	return teamID
}

// PlayerRow is one participant of a match detail.
type PlayerRow struct {
	SummonerName string
	Puuid        string
	IsCurrent    bool
	IsPublic     bool

	ChampionID   int
	ChampionIcon string
	Spell1Icon   string
	Spell2Icon   string
	RuneIcon     string
	ItemIcons    []string
	TrinketIcon  string

	// Rank columns are only filled when ShowRank is set.
	ShowRank bool
	Tier     string
	Division string
	LP       string
	RankIcon string

	Kills      int
	Deaths     int
	Assists    int
	CS         int
	Gold       int
	ChampLevel int
	Damage     int
	// SubteamPlacement is 0 outside arena.
	SubteamPlacement int
}

// TeamDetail aggregates one team bucket.
type TeamDetail struct {
	TeamID          int
	Win             string
	BanIcons        []string
	BaronKills      int
	DragonKills     int
	RiftHeraldKills int
	TowerKills      int
	InhibitorKills  int

	Kills   int
	Deaths  int
	Assists int
	Gold    int
	Players []PlayerRow
}

// MatchDetail is the full breakdown of one match.
type MatchDetail struct {
	GameID       int64
	QueueID      int
	GameCreation string
	GameDuration string
	ModeName     string
	MapName      string

	// Win, Remake and CherryResult describe the perspective player.
	Win          bool
	Remake       bool
	CherryResult int

	Teams map[int]*TeamDetail
}

// TeamIDs returns the bucket keys in ascending order.
func (d *MatchDetail) TeamIDs() []int {
	ids := make([]int, 0, len(d.Teams))
	for id := range d.Teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (d *MatchDetail) team(id int) *TeamDetail {
	t, ok := d.Teams[id]
	if !ok {
		t = &TeamDetail{TeamID: id}
		d.Teams[id] = t
	}
	return t
}

// playerLookup is the per-participant data that needs the network.
type playerLookup struct {
	isPublic bool
	stats    *lcu.RankedStats
}

// ParseMatchDetail builds a MatchDetail from the perspective of puuid.
// Privacy and rank lookups run concurrently; their failures blank the
// affected columns only.
func (p *Pipeline) ParseMatchDetail(ctx context.Context, puuid string, game *lcu.Game) *MatchDetail {
	d := &MatchDetail{
		GameID:       game.GameID,
		QueueID:      game.QueueID,
		GameCreation: time.UnixMilli(game.GameCreation).In(p.opts.Location).Format("2006/01/02 15:04"),
		GameDuration: formatDuration(game.GameDuration),
		Teams:        make(map[int]*TeamDetail),
	}
	d.ModeName, d.MapName = p.modeAndMap(game)

	arena := game.QueueID == QueueArena
	if !arena {
		d.team(100)
		d.team(200)
		for _, t := range game.Teams {
			bucket := d.team(RemapTeamID(t.TeamID))
			bucket.Win = t.Win
			bucket.BanIcons = make([]string, 0, len(t.Bans))
			for _, b := range t.Bans {
				bucket.BanIcons = append(bucket.BanIcons, p.assets.ChampionIcon(b.ChampionID))
			}
			bucket.BaronKills = t.BaronKills
			bucket.DragonKills = t.DragonKills
			bucket.RiftHeraldKills = t.RiftHeraldKills
			bucket.TowerKills = t.TowerKills
			bucket.InhibitorKills = t.InhibitorKills
		}
	}

	lookups := p.lookupPlayers(ctx, game.ParticipantIdentities)

	participants := make(map[int]*lcu.Participant, len(game.Participants))
	for i := range game.Participants {
		participants[game.Participants[i].ParticipantID] = &game.Participants[i]
	}

	for i, ident := range game.ParticipantIdentities {
		part, ok := participants[ident.ParticipantID]
		if !ok {
			continue
		}
		stats := part.Stats

		var bucket int
		if arena {
			bucket = stats.SubteamPlacement * 100
		} else {
			bucket = RemapTeamID(part.TeamID)
		}

		row := PlayerRow{
			SummonerName: ident.Player.Name(),
			Puuid:        ident.Player.Puuid,
			IsCurrent:    ident.Player.Puuid == puuid,
			IsPublic:     lookups[i].isPublic,
			ChampionID:   part.ChampionID,
			ChampionIcon: p.assets.ChampionIcon(part.ChampionID),
			Spell1Icon:   p.assets.SummonerSpellIcon(part.Spell1ID),
			Spell2Icon:   p.assets.SummonerSpellIcon(part.Spell2ID),
			RuneIcon:     p.assets.RuneIcon(stats.Perk0),
			ItemIcons:    p.itemIcons(stats.Items()),
			TrinketIcon:  p.assets.ItemIcon(stats.Item6),
			Kills:        stats.Kills,
			Deaths:       stats.Deaths,
			Assists:      stats.Assists,
			CS:           stats.CS(),
			Gold:         stats.GoldEarned,
			ChampLevel:   stats.ChampLevel,
			Damage:       stats.TotalDamageDealtToChampions,
		}
		if arena {
			row.SubteamPlacement = stats.SubteamPlacement
		}
		if p.opts.ShowRankInGameInfo {
			p.fillRank(&row, game.QueueID, lookups[i].stats)
		}

		if row.IsCurrent {
			d.Win = stats.Win
			d.Remake = stats.GameEndedInEarlySurrender
			if arena {
				d.CherryResult = stats.SubteamPlacement
			}
		}

		t := d.team(bucket)
		t.Kills += stats.Kills
		t.Deaths += stats.Deaths
		t.Assists += stats.Assists
		t.Gold += stats.GoldEarned
		t.Players = append(t.Players, row)
	}

	return d
}

func (p *Pipeline) lookupPlayers(ctx context.Context, idents []lcu.ParticipantIdentity) []playerLookup {
	out := make([]playerLookup, len(idents))

	var g errgroup.Group
	g.SetLimit(playerFetchLimit)
	for i, ident := range idents {
		puuid := ident.Player.Puuid
		g.Go(func() error {
			out[i].isPublic = p.isPublic(ctx, puuid)
			if p.opts.ShowRankInGameInfo && puuid != lcu.AIPuuid {
				out[i].stats = p.rankOrUnranked(ctx, puuid)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// isPublic treats bots as public and unknown summoners as private.
func (p *Pipeline) isPublic(ctx context.Context, puuid string) bool {
	if puuid == lcu.AIPuuid {
		return true
	}
	s, err := p.api.SummonerByPuuid(ctx, puuid)
	if err != nil {
		p.failureEvent(err).Str("puuid", puuid).Msg("privacy lookup failed")
		return false
	}
	return s.IsPublic()
}

func (p *Pipeline) fillRank(row *PlayerRow, queueID int, stats *lcu.RankedStats) {
	row.ShowRank = true
	if stats == nil {
		return
	}

	switch queueID {
	case QueueArena:
		row.LP = strconv.Itoa(stats.Queue(lcu.QueueArena).RatedRating)
		return
	case QueueRankedFlex:
		row.Tier, row.Division = p.tr.ShortTier(stats.Queue(lcu.QueueFlex))
		row.LP = strconv.Itoa(stats.Queue(lcu.QueueFlex).LeaguePoints)
		row.RankIcon = rankIcon(stats.Queue(lcu.QueueFlex).Tier)
	default:
		row.Tier, row.Division = p.tr.ShortTier(stats.Queue(lcu.QueueSolo))
		row.LP = strconv.Itoa(stats.Queue(lcu.QueueSolo).LeaguePoints)
		row.RankIcon = rankIcon(stats.Queue(lcu.QueueSolo).Tier)
	}
}

func rankIcon(tier string) string {
	if tier == "" {
		return "UNRANKED"
	}
	return strings.ToUpper(tier)
}

// TeamMember is a participant seen from another participant.
type TeamMember struct {
	SummonerID  int64
	Name        string
	Puuid       string
	ProfileIcon int
}

// Teammates partitions a match around one participant.
type Teammates struct {
	QueueID int
	Win     bool
	Remake  bool
	// ChampionID is lcu.NoChampion when the match did not report it.
	ChampionID int
	Allies     []TeamMember
	Enemies    []TeamMember // every other team in arena
}

// GetTeammates splits the other participants of game into allies and
// enemies of puuid.
func GetTeammates(game *lcu.Game, puuid string) (*Teammates, error) {
	players := make(map[int]lcu.Player, len(game.ParticipantIdentities))
	targetID := -1
	for _, ident := range game.ParticipantIdentities {
		players[ident.ParticipantID] = ident.Player
		if ident.Player.Puuid == puuid {
			targetID = ident.ParticipantID
		}
	}
	if targetID < 0 {
		return nil, fmt.Errorf("game %d, puuid %s: %w", game.GameID, puuid, ErrNotParticipant)
	}

	side := func(part *lcu.Participant) int {
		if game.QueueID == QueueArena {
			return part.Stats.SubteamPlacement
		}
		return part.TeamID
	}

	var target *lcu.Participant
	for i := range game.Participants {
		if game.Participants[i].ParticipantID == targetID {
			target = &game.Participants[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("game %d, participant %d: %w", game.GameID, targetID, ErrNotParticipant)
	}

	res := &Teammates{
		QueueID:    game.QueueID,
		Win:        target.Stats.Win,
		Remake:     target.Stats.TeamEarlySurrendered,
		ChampionID: target.ChampionID,
	}
	targetSide := side(target)

	for i := range game.Participants {
		part := &game.Participants[i]
		if part.ParticipantID == targetID {
			continue
		}
		pl := players[part.ParticipantID]
		m := TeamMember{SummonerID: pl.SummonerID, Name: pl.Name(), Puuid: pl.Puuid, ProfileIcon: pl.ProfileIcon}
		if side(part) == targetSide {
			res.Allies = append(res.Allies, m)
		} else {
			res.Enemies = append(res.Enemies, m)
		}
	}
	return res, nil
}

// TeammateStat counts games played alongside one teammate.
type TeammateStat struct {
	Puuid  string
	Name   string
	Icon   string
	Total  int
	Wins   int
	Losses int
}

// RecentTeammates returns the five most frequent teammates of puuid across
// gameIDs. Details are fetched one at a time; a failed fetch skips that match.
func (p *Pipeline) RecentTeammates(ctx context.Context, gameIDs []int64, puuid string) []TeammateStat {
	index := make(map[string]int)
	var stats []TeammateStat

	for _, id := range gameIDs {
		game, err := p.api.GameDetail(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.failureEvent(err).Int64("game_id", id).Msg("skipping match detail")
			continue
		}
		tm, err := GetTeammates(game, puuid)
		if err != nil {
			p.log.Warn().Err(err).Msg("skipping match")
			continue
		}

		for _, m := range tm.Allies {
			if m.SummonerID == 0 {
				continue
			}
			i, ok := index[m.Puuid]
			if !ok {
				i = len(stats)
				index[m.Puuid] = i
				stats = append(stats, TeammateStat{Puuid: m.Puuid, Name: m.Name, Icon: p.assets.ProfileIcon(m.ProfileIcon)})
			}
			stats[i].Total++
			if tm.Remake {
				continue
			}
			if tm.Win {
				stats[i].Wins++
			} else {
				stats[i].Losses++
			}
		}
	}

	sort.SliceStable(stats, func(a, b int) bool { return stats[a].Total > stats[b].Total })
	if len(stats) > recentTeammatesLimit {
		stats = stats[:recentTeammatesLimit]
	}
	return stats
}
