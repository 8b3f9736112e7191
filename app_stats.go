package main

import (
	"context"
	"errors"
	"fmt"

	"draftmate/internal/aggregate"
)

// recentTeammateGames is how many recent matches RecentTeammates scans.
const recentTeammateGames = 20

var errNoSummoner = errors.New("current summoner unknown")

// resolvePuuid defaults an empty puuid to the logged in summoner.
func (a *App) resolvePuuid(puuid string) (string, error) {
	if puuid != "" {
		return puuid, nil
	}
	s := a.currentSummoner()
	if s == nil {
		return "", errNoSummoner
	}
	return s.Puuid, nil
}

// SummonerOverview returns the profile view for puuid, or for the logged
// in summoner when puuid is empty.
func (a *App) SummonerOverview(ctx context.Context, puuid string) (*aggregate.SummonerOverview, error) {
	puuid, err := a.resolvePuuid(puuid)
	if err != nil {
		return nil, err
	}
	return a.pipeline.SummonerOverview(ctx, puuid)
}

// MatchDetail returns the scoreboard of gameID from puuid's perspective.
func (a *App) MatchDetail(ctx context.Context, gameID int64, puuid string) (*aggregate.MatchDetail, error) {
	puuid, err := a.resolvePuuid(puuid)
	if err != nil {
		return nil, err
	}
	game, err := a.client.GameDetail(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", gameID, err)
	}
	return a.pipeline.ParseMatchDetail(ctx, puuid, game), nil
}

// RecentTeammates ranks the players puuid queued with most often recently.
func (a *App) RecentTeammates(ctx context.Context, puuid string) ([]aggregate.TeammateStat, error) {
	puuid, err := a.resolvePuuid(puuid)
	if err != nil {
		return nil, err
	}
	list, err := a.client.SummonerGames(ctx, puuid, 0, recentTeammateGames-1)
	if err != nil {
		return nil, fmt.Errorf("match history: %w", err)
	}
	ids := make([]int64, 0, len(list.Games))
	for _, g := range list.Games {
		ids = append(ids, g.GameID)
	}
	stats := a.pipeline.RecentTeammates(ctx, ids, puuid)
	if stats == nil {
		stats = []aggregate.TeammateStat{}
	}
	return stats, nil
}

// RerollAndRestoreChampion rerolls in ARAM-style queues and keeps the
// current champion.
func (a *App) RerollAndRestoreChampion(ctx context.Context) error {
	if err := a.engine.RerollAndRestoreChampion(ctx); err != nil {
		a.log.Warn().Err(err).Msg("reroll failed")
		return err
	}
	a.log.Info().Msg("rerolled and restored champion")
	return nil
}
