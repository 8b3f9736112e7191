package rank

import (
	"testing"

	"draftmate/internal/lcu"

	"github.com/stretchr/testify/assert"
)

func TestTranslateTier(t *testing.T) {
	en := NewTranslator(English)
	zh := NewTranslator(Chinese)

	tests := []struct {
		name  string
		tr    *Translator
		tier  string
		short bool
		want  string
	}{
		{"empty english", en, "", false, "--"},
		{"empty chinese", zh, "", true, "--"},
		{"english capitalizes", en, "GRANDMASTER", false, "Grandmaster"},
		{"english short is the same", en, "gold", true, "Gold"},
		{"chinese long", zh, "DIAMOND", false, "璀璨钻石"},
		{"chinese short", zh, "Emerald", true, "翡翠"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tr.TranslateTier(tt.tier, tt.short))
		})
	}
}

func TestParseRankInfo_NotFound(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{English, "Unranked"},
		{Chinese, "未定级"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			s := NewTranslator(tt.lang).ParseRankInfo(nil)
			assert.False(t, s.Ranked)
			for _, q := range []QueueRank{s.Solo, s.Flex, s.Arena} {
				assert.Equal(t, tt.want, q.Tier)
				assert.Empty(t, q.Division)
				assert.Empty(t, q.LP)
			}
		})
	}
}

func TestParseRankInfo(t *testing.T) {
	info := &lcu.RankedStats{QueueMap: map[string]lcu.QueueStats{
		lcu.QueueSolo:  {Tier: "PLATINUM", Division: "II", LeaguePoints: 75},
		lcu.QueueFlex:  {Tier: "", Division: "NA"},
		lcu.QueueArena: {RatedRating: 1420},
	}}

	s := NewTranslator(English).ParseRankInfo(info)
	assert.True(t, s.Ranked)
	assert.Equal(t, QueueRank{Tier: "Platinum", Division: "II", LP: "75", Icon: "PLATINUM"}, s.Solo)
	assert.Equal(t, QueueRank{Tier: "Unranked", Division: "", LP: "0", Icon: "UNRANKED"}, s.Flex)
	assert.Equal(t, "1420", s.Arena.LP)
}

func TestParseDetailRankInfo(t *testing.T) {
	info := &lcu.RankedStats{QueueMap: map[string]lcu.QueueStats{
		lcu.QueueSolo: {
			Tier: "GOLD", Division: "I", LeaguePoints: 12, Wins: 30, Losses: 20,
			HighestTier: "PLATINUM", HighestDivision: "IV",
			PreviousSeasonEndTier: "", PreviousSeasonEndDivision: "NA",
		},
	}}

	rows := NewTranslator(English).ParseDetailRankInfo(info)
	assert.Equal(t, DetailRow{"Ranked Solo", "50", "60 %", "30", "20", "Gold I", "12", "Platinum IV", "--"}, rows[0])
	assert.Equal(t, DetailRow{"Ranked Flex", "0", "--", "0", "0", "--", "0", "--", "--"}, rows[1])
}

func TestPositionLabels(t *testing.T) {
	en := NewTranslator(English)
	assert.Equal(t, "BOT", en.Position(PositionBottom))
	assert.Equal(t, "SUP", en.Position(PositionSupport))
	assert.Equal(t, "JUG", en.Position(PositionJungle))
	assert.Empty(t, en.Position("NONE"))

	assert.Equal(t, "辅助", NewTranslator(Chinese).Position(PositionSupport))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Chinese, ParseLanguage("zh_CN"))
	assert.Equal(t, English, ParseLanguage("en"))
	assert.Equal(t, English, ParseLanguage("fr"))
}
