// Package rank turns raw ranked enumerations into display strings.
package rank

import (
	"strconv"
	"strings"

	"draftmate/internal/lcu"
)

// Language selects the label set.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ParseLanguage accepts "en"/"english" and "zh"/"chinese"; anything else is English.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh_cn", "zh-cn", "chinese":
		return Chinese
	default:
		return English
	}
}

var chineseTiers = map[string][2]string{
	"IRON":        {"坚韧黑铁", "黑铁"},
	"BRONZE":      {"英勇黄铜", "黄铜"},
	"SILVER":      {"不屈白银", "白银"},
	"GOLD":        {"荣耀黄金", "黄金"},
	"PLATINUM":    {"华贵铂金", "铂金"},
	"EMERALD":     {"流光翡翠", "翡翠"},
	"DIAMOND":     {"璀璨钻石", "钻石"},
	"MASTER":      {"超凡大师", "大师"},
	"GRANDMASTER": {"傲世宗师", "宗师"},
	"CHALLENGER":  {"最强王者", "王者"},
}

type labels struct {
	unranked   string
	rankedSolo string
	rankedFlex string
	arena      string
	positions  map[string]string
}

var labelSets = map[Language]labels{
	English: {
		unranked:   "Unranked",
		rankedSolo: "Ranked Solo",
		rankedFlex: "Ranked Flex",
		arena:      "Arena",
		positions: map[string]string{
			PositionTop: "TOP", PositionJungle: "JUG", PositionMiddle: "MID",
			PositionBottom: "BOT", PositionSupport: "SUP",
		},
	},
	Chinese: {
		unranked:   "未定级",
		rankedSolo: "单双排位",
		rankedFlex: "灵活排位",
		arena:      "斗魂竞技场",
		positions: map[string]string{
			PositionTop: "上单", PositionJungle: "打野", PositionMiddle: "中单",
			PositionBottom: "下路", PositionSupport: "辅助",
		},
	},
}

// Canonical position keys.
const (
	PositionTop     = "TOP"
	PositionJungle  = "JUNGLE"
	PositionMiddle  = "MIDDLE"
	PositionBottom  = "BOTTOM"
	PositionSupport = "SUPPORT"
)

// NoTier is shown for an empty tier.
const NoTier = "--"

// Translator is safe for concurrent use; it holds no mutable state.
type Translator struct {
	lang   Language
	labels labels
}

func NewTranslator(lang Language) *Translator {
	l, ok := labelSets[lang]
	if !ok {
		lang, l = English, labelSets[English]
	}
	return &Translator{lang: lang, labels: l}
}

func (t *Translator) Language() Language { return t.lang }

// TranslateTier maps "GOLD" to "Gold" or "荣耀黄金"/"黄金".
func (t *Translator) TranslateTier(tier string, short bool) string {
	if tier == "" {
		return NoTier
	}
	if t.lang == Chinese {
		if names, ok := chineseTiers[strings.ToUpper(tier)]; ok {
			if short {
				return names[1]
			}
			return names[0]
		}
	}
	return capitalize(tier)
}

func capitalize(s string) string {
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Position returns the localized label for a canonical position key, "" if unknown.
func (t *Translator) Position(key string) string {
	return t.labels.positions[key]
}

func (t *Translator) Unranked() string { return t.labels.unranked }

// QueueRank is the compact rank shown on cards.
type QueueRank struct {
	Tier     string
	Division string
	LP       string // empty when there is no ranked data
	Icon     string // tier key for icon lookup, "UNRANKED" when none
}

// Summary is the per-queue rank of one summoner.
type Summary struct {
	Solo  QueueRank
	Flex  QueueRank
	Arena QueueRank
	// Ranked is false when the client had no ranked data at all.
	Ranked bool
}

const unrankedIcon = "UNRANKED"

// ParseRankInfo builds a Summary. A nil info means the lookup returned not found.
func (t *Translator) ParseRankInfo(info *lcu.RankedStats) Summary {
	if info == nil {
		blank := QueueRank{Tier: t.labels.unranked, Icon: unrankedIcon}
		return Summary{Solo: blank, Flex: blank, Arena: blank}
	}

	arena := info.Queue(lcu.QueueArena)
	arenaRank := QueueRank{Tier: t.labels.unranked, Icon: unrankedIcon, LP: strconv.Itoa(arena.RatedRating)}

	return Summary{
		Solo:   t.queueRank(info.Queue(lcu.QueueSolo)),
		Flex:   t.queueRank(info.Queue(lcu.QueueFlex)),
		Arena:  arenaRank,
		Ranked: true,
	}
}

func (t *Translator) queueRank(q lcu.QueueStats) QueueRank {
	r := QueueRank{
		Division: cleanDivision(q.Division),
		LP:       strconv.Itoa(q.LeaguePoints),
	}
	if q.Tier == "" {
		r.Tier = t.labels.unranked
		r.Icon = unrankedIcon
	} else {
		r.Tier = t.TranslateTier(q.Tier, true)
		r.Icon = strings.ToUpper(q.Tier)
	}
	return r
}

// ShortTier is the short tier + division pair used in match detail rows.
// The tier is "" when unranked.
func (t *Translator) ShortTier(q lcu.QueueStats) (tier, division string) {
	if q.Tier == "" {
		return "", cleanDivision(q.Division)
	}
	return t.TranslateTier(q.Tier, true), cleanDivision(q.Division)
}

func cleanDivision(d string) string {
	if d == "NA" {
		return ""
	}
	return d
}

// DetailRow columns: queue, total, win rate, wins, losses, current, LP, highest, previous season.
type DetailRow [9]string

// ParseDetailRankInfo builds the solo and flex rows of the ranked detail table.
func (t *Translator) ParseDetailRankInfo(info *lcu.RankedStats) []DetailRow {
	return []DetailRow{
		t.detailRow(t.labels.rankedSolo, info.Queue(lcu.QueueSolo)),
		t.detailRow(t.labels.rankedFlex, info.Queue(lcu.QueueFlex)),
	}
}

func (t *Translator) detailRow(label string, q lcu.QueueStats) DetailRow {
	total := q.Wins + q.Losses
	winRate := NoTier
	if total != 0 {
		winRate = strconv.Itoa(q.Wins*100/total) + " %"
	}
	return DetailRow{
		label,
		strconv.Itoa(total),
		winRate,
		strconv.Itoa(q.Wins),
		strconv.Itoa(q.Losses),
		t.tierDivision(q.Tier, q.Division),
		strconv.Itoa(q.LeaguePoints),
		t.tierDivision(q.HighestTier, q.HighestDivision),
		t.tierDivision(q.PreviousSeasonEndTier, q.PreviousSeasonEndDivision),
	}
}

func (t *Translator) tierDivision(tier, division string) string {
	name := t.TranslateTier(tier, false)
	if name == NoTier {
		division = ""
	}
	return strings.TrimSpace(name + " " + cleanDivision(division))
}
