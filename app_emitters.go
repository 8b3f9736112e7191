package main

import (
	"draftmate/internal/aggregate"

	"github.com/rs/zerolog"
)

// Emitter receives aggregates for the presentation layer.
type Emitter interface {
	ConnectionStatus(connected bool, port string)
	ChampSelect(active bool)
	// TeamInfo delivers lobby cards for one side. colors maps summoner id
	// to premade group and is nil during champion select.
	TeamInfo(side aggregate.Side, info *aggregate.TeamGameInfo, colors map[int64]int)
}

// LogEmitter writes every event as a structured log line.
type LogEmitter struct {
	log zerolog.Logger
}

func NewLogEmitter(logger zerolog.Logger) *LogEmitter {
	return &LogEmitter{log: logger.With().Str("component", "emitter").Logger()}
}

func (e *LogEmitter) ConnectionStatus(connected bool, port string) {
	e.log.Info().Str("event", "lcu:status").Bool("connected", connected).Str("port", port).Send()
}

func (e *LogEmitter) ChampSelect(active bool) {
	e.log.Info().Str("event", "champselect:update").Bool("in_champ_select", active).Send()
}

func (e *LogEmitter) TeamInfo(side aggregate.Side, info *aggregate.TeamGameInfo, colors map[int64]int) {
	if info == nil {
		return
	}
	for _, id := range info.Order {
		card := findCard(info, id)
		if card == nil {
			continue
		}
		ev := e.log.Info().
			Str("event", "gameinfo:update").
			Str("side", sideName(side)).
			Int64("summoner_id", id).
			Str("summoner", card.Name).
			Int("champion_id", info.Champions[id]).
			Str("position", card.SelectedPosition).
			Str("solo", card.Rank.Solo.Tier+" "+card.Rank.Solo.Division).
			Int("games", len(card.Games)).
			Int("kills", card.Kills).
			Int("deaths", card.Deaths).
			Int("assists", card.Assists)
		if group, ok := colors[id]; ok && group != aggregate.NoPremade {
			ev = ev.Int("premade", group)
		}
		if card.Previous != nil {
			ev = ev.Int64("previous_game", card.Previous.GameID).Stringer("previous_fate", card.Previous.Fate)
		}
		ev.Send()
	}
}

func findCard(info *aggregate.TeamGameInfo, id int64) *aggregate.SummonerGameInfo {
	for _, s := range info.Summoners {
		if s != nil && s.SummonerID == id {
			return s
		}
	}
	return nil
}

func sideName(s aggregate.Side) string {
	if s == aggregate.SideEnemy {
		return "enemy"
	}
	return "ally"
}
