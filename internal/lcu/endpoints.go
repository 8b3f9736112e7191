package lcu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CurrentSummoner returns the logged-in summoner.
func (c *Client) CurrentSummoner(ctx context.Context) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v1/current-summoner", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SummonerByID looks up a summoner by summoner id.
func (c *Client) SummonerByID(ctx context.Context, id int64) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, fmt.Sprintf("/lol-summoner/v1/summoners/%d", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SummonerByPuuid looks up a summoner by puuid.
func (c *Client) SummonerByPuuid(ctx context.Context, puuid string) (*Summoner, error) {
	var s Summoner
	if err := c.GetJSON(ctx, "/lol-summoner/v2/summoners/puuid/"+url.PathEscape(puuid), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SummonerGames fetches the match history window [begin, end], both inclusive.
func (c *Client) SummonerGames(ctx context.Context, puuid string, begin, end int) (*GameList, error) {
	// The endpoint treats endIndex as exclusive.
	path := fmt.Sprintf("/lol-match-history/v1/products/lol/%s/matches?begIndex=%d&endIndex=%d",
		url.PathEscape(puuid), begin, end+1)

	var history MatchHistory
	if err := c.GetJSON(ctx, path, &history); err != nil {
		return nil, err
	}
	return &history.Games, nil
}

// GameDetail fetches a match with every participant.
func (c *Client) GameDetail(ctx context.Context, gameID int64) (*Game, error) {
	var g Game
	if err := c.GetJSON(ctx, fmt.Sprintf("/lol-match-history/v1/games/%d", gameID), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// RankedStats returns ErrNotFound when the summoner has no ranked data.
func (c *Client) RankedStats(ctx context.Context, puuid string) (*RankedStats, error) {
	var r RankedStats
	if err := c.GetJSON(ctx, "/lol-ranked/v1/ranked-stats/"+url.PathEscape(puuid), &r); err != nil {
		return nil, err
	}
	if len(r.QueueMap) == 0 {
		return nil, fmt.Errorf("ranked stats for %s: %w", puuid, ErrNotFound)
	}
	return &r, nil
}

// GameflowPhase returns the current phase, e.g. "Lobby", "ChampSelect", "InProgress".
func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	var phase string
	if err := c.GetJSON(ctx, "/lol-gameflow/v1/gameflow-phase", &phase); err != nil {
		return "", err
	}
	return strings.Trim(phase, `"`), nil
}

func (c *Client) GameflowSession(ctx context.Context) (*GameflowSession, error) {
	var s GameflowSession
	if err := c.GetJSON(ctx, "/lol-gameflow/v1/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ChampSelectSession returns ErrNotFound outside champion select.
func (c *Client) ChampSelectSession(ctx context.Context) (*ChampSelectSession, error) {
	var s ChampSelectSession
	if err := c.GetJSON(ctx, "/lol-champ-select/v1/session", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type actionPatch struct {
	ChampionID int    `json:"championId"`
	Type       string `json:"type"`
	Completed  bool   `json:"completed"`
}

func (c *Client) patchAction(ctx context.Context, actionID int, patch actionPatch) error {
	path := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d", actionID)
	return c.do(ctx, http.MethodPatch, path, patch, nil)
}

// SelectChampion hovers championID on a pick action, locking it in when completed is set.
func (c *Client) SelectChampion(ctx context.Context, actionID, championID int, completed bool) error {
	return c.patchAction(ctx, actionID, actionPatch{ChampionID: championID, Type: "pick", Completed: completed})
}

func (c *Client) BanChampion(ctx context.Context, actionID, championID int, completed bool) error {
	return c.patchAction(ctx, actionID, actionPatch{ChampionID: championID, Type: "ban", Completed: completed})
}

func (c *Client) AcceptTrade(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/lol-champ-select/v1/session/trades/%d/accept", id), nil, nil)
}

func (c *Client) AcceptPickOrderSwap(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/lol-champ-select/v1/session/pick-order-swaps/%d/accept", id), nil, nil)
}

// BenchSwap takes championID from the shared bench.
func (c *Client) BenchSwap(ctx context.Context, championID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/lol-champ-select/v1/session/bench/swap/%d", championID), nil, nil)
}

func (c *Client) Reroll(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/lol-champ-select/v1/session/my-selection/reroll", nil, nil)
}

// CurrentChampion returns the locked-in champion id, 0 if none.
func (c *Client) CurrentChampion(ctx context.Context) (int, error) {
	var id int
	err := c.GetJSON(ctx, "/lol-champ-select/v1/current-champion", &id)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return id, err
}

func (c *Client) SkinCarousel(ctx context.Context) ([]CarouselSkin, error) {
	var skins []CarouselSkin
	if err := c.GetJSON(ctx, "/lol-champ-select/v1/skin-carousel-skins", &skins); err != nil {
		return nil, err
	}
	return skins, nil
}

func (c *Client) SelectSkin(ctx context.Context, skinID int) error {
	body := map[string]int{"selectedSkinId": skinID}
	return c.do(ctx, http.MethodPatch, "/lol-champ-select/v1/session/my-selection", body, nil)
}
