package aggregate

import (
	"context"
	"errors"
	"testing"

	"draftmate/internal/lcu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapTeamID(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{100, 100},
		{200, 200},
		{300, 100},
		{400, 200},
		{0, 200},
	}
	for _, tt := range tests {
		got := RemapTeamID(tt.in)
		assert.Equal(t, tt.want, got, "remap %d", tt.in)
		assert.Equal(t, got, RemapTeamID(got), "remap of %d is idempotent", tt.in)
	}
}

func fiveVersusFive(id int64, queueID int) *lcu.Game {
	var players []player
	for i := 0; i < 10; i++ {
		team := 100
		if i >= 5 {
			team = 200
		}
		players = append(players, player{
			summonerID: int64(i + 1),
			puuid:      string(rune('a' + i)),
			teamID:     team,
			win:        team == 100,
			champion:   i + 1,
		})
	}
	return detailGame(id, queueID, players...)
}

func TestGetTeammates_CompletePartition(t *testing.T) {
	arena := detailGame(2, QueueArena,
		player{summonerID: 1, puuid: "a", placement: 1, win: true},
		player{summonerID: 2, puuid: "b", placement: 1, win: true},
		player{summonerID: 3, puuid: "c", placement: 2},
		player{summonerID: 4, puuid: "d", placement: 2},
		player{summonerID: 5, puuid: "e", placement: 3},
		player{summonerID: 6, puuid: "f", placement: 3},
	)
	games := []*lcu.Game{fiveVersusFive(1, 420), arena}

	for _, g := range games {
		for _, ident := range g.ParticipantIdentities {
			tm, err := GetTeammates(g, ident.Player.Puuid)
			require.NoError(t, err)
			assert.Equal(t, len(g.Participants), len(tm.Allies)+len(tm.Enemies)+1)

			seen := map[string]bool{ident.Player.Puuid: true}
			for _, m := range append(append([]TeamMember(nil), tm.Allies...), tm.Enemies...) {
				assert.False(t, seen[m.Puuid], "%s appears twice", m.Puuid)
				seen[m.Puuid] = true
			}
		}
	}

	tm, err := GetTeammates(arena, "c")
	require.NoError(t, err)
	require.Len(t, tm.Allies, 1)
	assert.Equal(t, "d", tm.Allies[0].Puuid)
	assert.Len(t, tm.Enemies, 4)
}

func TestGetTeammates_NotParticipant(t *testing.T) {
	_, err := GetTeammates(fiveVersusFive(1, 420), "nobody")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestGetTeammates_MissingChampion(t *testing.T) {
	g := detailGame(1, 0, player{summonerID: 1, puuid: "a", teamID: 100, champion: lcu.NoChampion})
	tm, err := GetTeammates(g, "a")
	require.NoError(t, err)
	assert.Equal(t, lcu.NoChampion, tm.ChampionID)
}

func TestParseMatchDetail_FoldsLegacyTeams(t *testing.T) {
	api := newFakeAPI()
	g := detailGame(9, 420,
		player{summonerID: 1, puuid: "me", teamID: 300, win: true},
		player{summonerID: 2, puuid: "ally", teamID: 100, win: true},
		player{summonerID: 3, puuid: "foe", teamID: 400},
		player{summonerID: 0, puuid: lcu.AIPuuid, teamID: 200},
	)
	g.Teams = []lcu.Team{
		{TeamID: 300, Win: "Win", BaronKills: 1, Bans: []lcu.TeamBan{{ChampionID: 55}}},
		{TeamID: 400, Win: "Fail", DragonKills: 2},
	}
	api.addSummoner(&lcu.Summoner{SummonerID: 1, Puuid: "me", Privacy: "PUBLIC"})
	api.addSummoner(&lcu.Summoner{SummonerID: 2, Puuid: "ally", Privacy: "PRIVATE"})

	d := newTestPipeline(api, Options{}).ParseMatchDetail(context.Background(), "me", g)

	assert.Equal(t, []int{100, 200}, d.TeamIDs())
	blue, red := d.Teams[100], d.Teams[200]
	assert.Equal(t, "Win", blue.Win)
	assert.Equal(t, 1, blue.BaronKills)
	assert.Equal(t, []string{"champion-55"}, blue.BanIcons)
	assert.Equal(t, 2, red.DragonKills)
	require.Len(t, blue.Players, 2)
	require.Len(t, red.Players, 2)
	assert.Equal(t, 2, blue.Kills)
	assert.Equal(t, 2000, red.Gold)

	byPuuid := map[string]PlayerRow{}
	for _, tid := range d.TeamIDs() {
		for _, row := range d.Teams[tid].Players {
			byPuuid[row.Puuid] = row
		}
	}
	assert.True(t, byPuuid["me"].IsCurrent)
	assert.True(t, byPuuid["me"].IsPublic)
	assert.False(t, byPuuid["ally"].IsPublic)
	assert.False(t, byPuuid["foe"].IsPublic, "failed lookups count as private")
	assert.True(t, byPuuid[lcu.AIPuuid].IsPublic)
	assert.False(t, byPuuid["me"].ShowRank)

	assert.True(t, d.Win)
	assert.False(t, d.Remake)
}

func TestParseMatchDetail_CustomTeamZero(t *testing.T) {
	g := detailGame(5, 0,
		player{summonerID: 1, puuid: "a", teamID: 0},
		player{summonerID: 2, puuid: "b", teamID: 100},
	)
	g.Teams = []lcu.Team{{TeamID: 0, Win: "Fail"}, {TeamID: 100, Win: "Win"}}

	d := newTestPipeline(newFakeAPI(), Options{}).ParseMatchDetail(context.Background(), "a", g)
	assert.Equal(t, []int{100, 200}, d.TeamIDs())
	assert.Equal(t, "Fail", d.Teams[200].Win)
	require.Len(t, d.Teams[200].Players, 1)
	assert.Equal(t, "a", d.Teams[200].Players[0].Puuid)
}

func TestParseMatchDetail_ArenaBuckets(t *testing.T) {
	g := detailGame(6, QueueArena,
		player{summonerID: 1, puuid: "me", placement: 3},
		player{summonerID: 2, puuid: "duo", placement: 3},
		player{summonerID: 3, puuid: "x", placement: 1},
		player{summonerID: 4, puuid: "y", placement: 4},
	)

	d := newTestPipeline(newFakeAPI(), Options{}).ParseMatchDetail(context.Background(), "me", g)
	assert.Equal(t, []int{100, 300, 400}, d.TeamIDs())
	assert.Len(t, d.Teams[300].Players, 2)
	assert.Equal(t, 3, d.CherryResult)
	assert.Equal(t, 3, d.Teams[300].Players[0].SubteamPlacement)
}

func TestParseMatchDetail_RankColumns(t *testing.T) {
	api := newFakeAPI()
	api.ranked["a"] = &lcu.RankedStats{QueueMap: map[string]lcu.QueueStats{
		lcu.QueueSolo: {Tier: "DIAMOND", Division: "II", LeaguePoints: 20},
		lcu.QueueFlex: {Tier: "", Division: "NA", LeaguePoints: 0},
	}}
	flex := detailGame(7, QueueRankedFlex,
		player{summonerID: 1, puuid: "a", teamID: 100},
		player{summonerID: 2, puuid: "b", teamID: 200},
	)
	solo := detailGame(8, QueueRankedSolo,
		player{summonerID: 1, puuid: "a", teamID: 100},
	)
	p := newTestPipeline(api, Options{ShowRankInGameInfo: true})

	d := p.ParseMatchDetail(context.Background(), "a", flex)
	rowA := d.Teams[100].Players[0]
	assert.True(t, rowA.ShowRank)
	assert.Equal(t, "", rowA.Tier)
	assert.Equal(t, "", rowA.Division)
	assert.Equal(t, "UNRANKED", rowA.RankIcon)

	rowB := d.Teams[200].Players[0]
	assert.True(t, rowB.ShowRank)
	assert.Empty(t, rowB.Tier, "not found degrades to blank")
	assert.Empty(t, rowB.LP)

	d = p.ParseMatchDetail(context.Background(), "a", solo)
	row := d.Teams[100].Players[0]
	assert.Equal(t, "Diamond", row.Tier)
	assert.Equal(t, "II", row.Division)
	assert.Equal(t, "20", row.LP)
	assert.Equal(t, "DIAMOND", row.RankIcon)
}

func TestRecentTeammates(t *testing.T) {
	api := newFakeAPI()
	me := player{summonerID: 1, puuid: "me", teamID: 100}
	mate := func(id int64, puuid string) player { return player{summonerID: id, puuid: puuid, teamID: 100} }
	foe := player{summonerID: 99, puuid: "foe", teamID: 200}

	won := func(ps ...player) []player {
		for i := range ps {
			ps[i].win = ps[i].teamID == 100
		}
		return ps
	}
	api.details[1] = detailGame(1, 420, won(me, mate(2, "b"), mate(3, "c"), foe)...)
	api.details[2] = detailGame(2, 420, me, mate(2, "b"), foe)
	remade := won(me, mate(2, "b"), mate(0, "bot"), foe)
	for i := range remade {
		remade[i].remake = true
	}
	api.details[3] = detailGame(3, 420, remade...)
	api.details[4] = detailGame(4, 420, me, mate(4, "d"), mate(5, "e"), mate(6, "f"), mate(7, "g"), foe)
	api.detailErr[5] = errors.New("timeout")

	got := newTestPipeline(api, Options{}).RecentTeammates(context.Background(), []int64{1, 2, 3, 5, 4}, "me")

	require.Len(t, got, 5)
	assert.Equal(t, TeammateStat{Puuid: "b", Name: "name-b", Icon: "profile-2", Total: 3, Wins: 1, Losses: 1}, got[0])
	assert.Equal(t, []string{"c", "d", "e", "f"}, []string{got[1].Puuid, got[2].Puuid, got[3].Puuid, got[4].Puuid})
	for _, s := range got {
		assert.NotEqual(t, "bot", s.Puuid)
		assert.NotEqual(t, "foe", s.Puuid)
	}
}
