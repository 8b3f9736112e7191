package main

import (
	"context"
	"time"
)

// pollForLeagueClient keeps the HTTP and WebSocket connections alive.
func (a *App) pollForLeagueClient(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasConnected := a.tryConnect(ctx)
	if wasConnected {
		a.connectWebSocket(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isConnected := a.client.IsConnected(ctx)

			switch {
			case isConnected && !wasConnected:
				wasConnected = true
				a.connectWebSocket(ctx)
			case !isConnected:
				if wasConnected {
					a.wsClient.Disconnect()
					a.endChampSelect()
					a.setPhase("")
					a.emitter.ConnectionStatus(false, "")
					a.log.Info().Msg("League disconnected, waiting for reconnection")
					wasConnected = false
				}
				if a.tryConnect(ctx) {
					wasConnected = true
					a.connectWebSocket(ctx)
				}
			case !a.wsClient.IsConnected():
				a.connectWebSocket(ctx)
			}
		}
	}
}

// tryConnect connects to the client, records the current summoner and
// refreshes static data.
func (a *App) tryConnect(ctx context.Context) bool {
	if err := a.client.Connect(ctx); err != nil {
		a.log.Debug().Err(err).Msg("waiting for League")
		return false
	}
	a.emitter.ConnectionStatus(true, a.client.Port())
	a.log.Info().Str("port", a.client.Port()).Msg("League connected")

	if s, err := a.client.CurrentSummoner(ctx); err != nil {
		a.log.Warn().Err(err).Msg("current summoner unavailable")
	} else {
		a.mu.Lock()
		a.summoner = s
		a.mu.Unlock()
		a.log.Info().Str("summoner", s.Name()).Int64("summoner_id", s.SummonerID).Msg("logged in")
	}

	if err := a.data.Load(ctx, a.client); err != nil {
		a.log.Warn().Err(err).Msg("static data unavailable")
	}
	return true
}

// connectWebSocket subscribes to client events and syncs the current phase.
func (a *App) connectWebSocket(ctx context.Context) {
	creds := a.client.Credentials()
	if creds == nil {
		return
	}
	if err := a.wsClient.Connect(ctx, creds); err != nil {
		a.log.Warn().Err(err).Msg("websocket connection failed")
		return
	}
	a.log.Info().Msg("websocket connected")

	a.syncGameflowPhase(ctx)
}

func (a *App) syncGameflowPhase(ctx context.Context) {
	phase, err := a.client.GameflowPhase(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("gameflow phase unavailable")
		return
	}
	a.onGameflowPhase(phase)
}
