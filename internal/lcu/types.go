package lcu

import "encoding/json"

// NoChampion marks a participant whose champion id was not reported (custom games).
const NoChampion = -1

// AIPuuid is the puuid the client reports for bots.
const AIPuuid = "00000000-0000-0000-0000-000000000000"

// Summoner is the response of the summoner endpoints.
type Summoner struct {
	SummonerID       int64  `json:"summonerId"`
	Puuid            string `json:"puuid"`
	GameName         string `json:"gameName"`
	TagLine          string `json:"tagLine"`
	DisplayName      string `json:"displayName"`
	SummonerLevel    int    `json:"summonerLevel"`
	XpSinceLastLevel int    `json:"xpSinceLastLevel"`
	XpUntilNextLevel int    `json:"xpUntilNextLevel"`
	Privacy          string `json:"privacy"`
	ProfileIconID    int    `json:"profileIconId"`
}

// Name returns the Riot ID game name, falling back to the legacy display name.
func (s *Summoner) Name() string {
	if s.GameName != "" {
		return s.GameName
	}
	return s.DisplayName
}

// IsPublic reports whether the profile is visible to others.
func (s *Summoner) IsPublic() bool {
	return s.Privacy == "PUBLIC"
}

// MatchHistory is the response of /lol-match-history/v1/products/lol/{puuid}/matches
type MatchHistory struct {
	AccountID int64    `json:"accountId"`
	Games     GameList `json:"games"`
}

type GameList struct {
	GameCount      int    `json:"gameCount"`
	GameIndexBegin int    `json:"gameIndexBegin"`
	GameIndexEnd   int    `json:"gameIndexEnd"`
	Games          []Game `json:"games"`
}

// Game is one match. History entries carry only the owner's participant;
// /lol-match-history/v1/games/{id} carries all of them.
type Game struct {
	GameID                int64                 `json:"gameId"`
	GameCreation          int64                 `json:"gameCreation"` // ms
	GameDuration          int                   `json:"gameDuration"` // s
	GameMode              string                `json:"gameMode"`
	GameType              string                `json:"gameType"`
	MapID                 int                   `json:"mapId"`
	QueueID               int                   `json:"queueId"`
	Participants          []Participant         `json:"participants"`
	ParticipantIdentities []ParticipantIdentity `json:"participantIdentities"`
	Teams                 []Team                `json:"teams"`
}

type Participant struct {
	ParticipantID int                 `json:"participantId"`
	TeamID        int                 `json:"teamId"`
	ChampionID    int                 `json:"championId"`
	Spell1ID      int                 `json:"spell1Id"`
	Spell2ID      int                 `json:"spell2Id"`
	Stats         ParticipantStats    `json:"stats"`
	Timeline      ParticipantTimeline `json:"timeline"`
}

// UnmarshalJSON defaults ChampionID to NoChampion when the field is absent.
func (p *Participant) UnmarshalJSON(b []byte) error {
	type alias Participant
	a := alias{ChampionID: NoChampion}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Participant(a)
	return nil
}

type ParticipantStats struct {
	Win                         bool `json:"win"`
	GameEndedInEarlySurrender   bool `json:"gameEndedInEarlySurrender"`
	TeamEarlySurrendered        bool `json:"teamEarlySurrendered"`
	Kills                       int  `json:"kills"`
	Deaths                      int  `json:"deaths"`
	Assists                     int  `json:"assists"`
	ChampLevel                  int  `json:"champLevel"`
	GoldEarned                  int  `json:"goldEarned"`
	TotalMinionsKilled          int  `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int  `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int  `json:"totalDamageDealtToChampions"`
	SubteamPlacement            int  `json:"subteamPlacement"`
	Perk0                       int  `json:"perk0"`
	Item0                       int  `json:"item0"`
	Item1                       int  `json:"item1"`
	Item2                       int  `json:"item2"`
	Item3                       int  `json:"item3"`
	Item4                       int  `json:"item4"`
	Item5                       int  `json:"item5"`
	Item6                       int  `json:"item6"` // trinket
}

// Items returns the six inventory slots.
func (s *ParticipantStats) Items() []int {
	return []int{s.Item0, s.Item1, s.Item2, s.Item3, s.Item4, s.Item5}
}

// CS is lane plus jungle minions.
func (s *ParticipantStats) CS() int {
	return s.TotalMinionsKilled + s.NeutralMinionsKilled
}

type ParticipantTimeline struct {
	Lane string `json:"lane"`
	Role string `json:"role"`
}

type ParticipantIdentity struct {
	ParticipantID int    `json:"participantId"`
	Player        Player `json:"player"`
}

type Player struct {
	Puuid        string `json:"puuid"`
	SummonerID   int64  `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	GameName     string `json:"gameName"`
	TagLine      string `json:"tagLine"`
	ProfileIcon  int    `json:"profileIcon"`
}

// Name returns the Riot ID game name, falling back to the summoner name.
func (p *Player) Name() string {
	if p.GameName != "" {
		return p.GameName
	}
	return p.SummonerName
}

type Team struct {
	TeamID          int       `json:"teamId"`
	Win             string    `json:"win"` // "Win" or "Fail"
	Bans            []TeamBan `json:"bans"`
	BaronKills      int       `json:"baronKills"`
	DragonKills     int       `json:"dragonKills"`
	RiftHeraldKills int       `json:"riftHeraldKills"`
	TowerKills      int       `json:"towerKills"`
	InhibitorKills  int       `json:"inhibitorKills"`
}

type TeamBan struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// Ranked queue keys in RankedStats.QueueMap.
const (
	QueueSolo  = "RANKED_SOLO_5x5"
	QueueFlex  = "RANKED_FLEX_SR"
	QueueArena = "CHERRY"
)

// RankedStats is the response of /lol-ranked/v1/ranked-stats/{puuid}
type RankedStats struct {
	QueueMap map[string]QueueStats `json:"queueMap"`
}

// Queue returns the stats for key, or a zero value when absent.
func (r *RankedStats) Queue(key string) QueueStats {
	if r == nil {
		return QueueStats{}
	}
	return r.QueueMap[key]
}

type QueueStats struct {
	QueueType                 string `json:"queueType"`
	Tier                      string `json:"tier"`
	Division                  string `json:"division"`
	LeaguePoints              int    `json:"leaguePoints"`
	Wins                      int    `json:"wins"`
	Losses                    int    `json:"losses"`
	HighestTier               string `json:"highestTier"`
	HighestDivision           string `json:"highestDivision"`
	PreviousSeasonEndTier     string `json:"previousSeasonEndTier"`
	PreviousSeasonEndDivision string `json:"previousSeasonEndDivision"`
	RatedRating               int    `json:"ratedRating"`
}

// ChampSelectSession represents the champion select session data
type ChampSelectSession struct {
	GameID            int64                 `json:"gameId"`
	Timer             ChampSelectTimer      `json:"timer"`
	MyTeam            []ChampSelectPlayer   `json:"myTeam"`
	TheirTeam         []ChampSelectPlayer   `json:"theirTeam"`
	Actions           [][]ChampSelectAction `json:"actions"`
	LocalPlayerCellID int                   `json:"localPlayerCellId"`
	BenchEnabled      bool                  `json:"benchEnabled"`
	BenchChampions    []BenchChampion       `json:"benchChampions"`
	PickOrderSwaps    []SwapRequest         `json:"pickOrderSwaps"`
	Trades            []SwapRequest         `json:"trades"`
}

type ChampSelectTimer struct {
	Phase                   string  `json:"phase"`
	TotalTimeInPhase        int     `json:"totalTimeInPhase"`
	TimeLeftInPhase         int     `json:"timeLeftInPhase"`
	AdjustedTimeLeftInPhase float64 `json:"adjustedTimeLeftInPhase"` // ms
}

type ChampSelectPlayer struct {
	CellID             int    `json:"cellId"`
	ChampionID         int    `json:"championId"`
	ChampionPickIntent int    `json:"championPickIntent"`
	SummonerID         int64  `json:"summonerId"`
	Puuid              string `json:"puuid"`
	AssignedPosition   string `json:"assignedPosition"`
	SelectedSkinID     int    `json:"selectedSkinId"`
	Team               int    `json:"team"`
}

type ChampSelectAction struct {
	ID           int    `json:"id"`
	ActorCellID  int    `json:"actorCellId"`
	ChampionID   int    `json:"championId"`
	Type         string `json:"type"` // "pick", "ban"
	Completed    bool   `json:"completed"`
	IsInProgress bool   `json:"isInProgress"`
}

type BenchChampion struct {
	ChampionID int `json:"championId"`
}

// SwapRequest is a pick-order swap or champion trade offer.
type SwapRequest struct {
	ID     int    `json:"id"`
	CellID int    `json:"cellId"`
	State  string `json:"state"` // "RECEIVED", "SENT", "AVAILABLE", ...
}

// LocalPlayer returns the local player's row in MyTeam.
func (s *ChampSelectSession) LocalPlayer() (ChampSelectPlayer, bool) {
	for _, p := range s.MyTeam {
		if p.CellID == s.LocalPlayerCellID {
			return p, true
		}
	}
	return ChampSelectPlayer{}, false
}

// Action looks up an action by id.
func (s *ChampSelectSession) Action(id int) (ChampSelectAction, bool) {
	for _, group := range s.Actions {
		for _, a := range group {
			if a.ID == id {
				return a, true
			}
		}
	}
	return ChampSelectAction{}, false
}

// GameflowSession is the response of /lol-gameflow/v1/session
type GameflowSession struct {
	Phase    string   `json:"phase"`
	GameData GameData `json:"gameData"`
}

type GameData struct {
	GameID  int64            `json:"gameId"`
	Queue   Queue            `json:"queue"`
	TeamOne []GameflowPlayer `json:"teamOne"`
	TeamTwo []GameflowPlayer `json:"teamTwo"`
}

type Queue struct {
	ID int `json:"id"`
}

type GameflowPlayer struct {
	SummonerID        int64  `json:"summonerId"`
	Puuid             string `json:"puuid"`
	ChampionID        int    `json:"championId"`
	SelectedPosition  string `json:"selectedPosition"`
	TeamParticipantID int64  `json:"teamParticipantId"`
}

// CarouselSkin is an entry of /lol-champ-select/v1/skin-carousel-skins
type CarouselSkin struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Disabled   bool        `json:"disabled"`
	Ownership  Ownership   `json:"ownership"`
	ChildSkins []ChildSkin `json:"childSkins"`
}

type ChildSkin struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Disabled  bool      `json:"disabled"`
	Ownership Ownership `json:"ownership"`
}

type Ownership struct {
	Owned bool `json:"owned"`
}
