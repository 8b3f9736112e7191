package main

import (
	"context"
	"errors"
	"time"

	"draftmate/internal/aggregate"
	"draftmate/internal/automation"
	"draftmate/internal/lcu"

	"golang.org/x/sync/errgroup"
)

const (
	phaseChampSelect = "ChampSelect"
	phaseInProgress  = "InProgress"
)

// setPhase records phase and returns the previous one.
func (a *App) setPhase(phase string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.phase
	a.phase = phase
	return prev
}

func (a *App) activeSession() *automation.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// onGameflowPhase handles gameflow transitions from the websocket or polling.
func (a *App) onGameflowPhase(phase string) {
	prev := a.setPhase(phase)
	if phase == prev {
		return
	}
	a.log.Info().Str("from", prev).Str("to", phase).Msg("gameflow phase changed")

	if phase == phaseChampSelect {
		a.beginChampSelect()
	} else {
		a.endChampSelect()
	}

	if phase == phaseInProgress {
		go a.emitGameInfo(a.ctx)
	}
}

func (a *App) currentPhase() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// onChampSelectUpdate handles champ select session events. Only the
// ChampSelect gameflow phase may start a session; late updates just tick.
func (a *App) onChampSelectUpdate(session *lcu.ChampSelectSession, inChampSelect bool) {
	if !inChampSelect {
		a.endChampSelect()
		return
	}
	if a.currentPhase() == phaseChampSelect {
		a.beginChampSelect()
	}
	if s := a.activeSession(); s != nil {
		s.Tick(session)
	}
}

// beginChampSelect starts an automation session with fresh latches unless
// one is already running.
func (a *App) beginChampSelect() {
	a.mu.Lock()
	if a.session != nil {
		a.mu.Unlock()
		return
	}
	a.session = a.engine.Begin(a.ctx)
	a.mu.Unlock()

	a.log.Info().Msg("entered champion select")
	a.emitter.ChampSelect(true)
	go a.emitAllyInfo(a.ctx)
}

// endChampSelect cancels outstanding automation tasks and waits for them.
func (a *App) endChampSelect() {
	a.mu.Lock()
	s := a.session
	a.session = nil
	a.mu.Unlock()
	if s == nil {
		return
	}

	s.End()
	a.log.Info().Msg("exited champion select")
	a.emitter.ChampSelect(false)
}

// pollChampSelect ticks the active session every interval. Without a
// websocket it also polls the gameflow phase.
func (a *App) pollChampSelect(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.pollOnce(ctx)
		}
	}
}

func (a *App) pollOnce(ctx context.Context) {
	if a.client.Credentials() == nil {
		return
	}
	if !a.wsClient.IsConnected() {
		a.syncGameflowPhase(ctx)
	}

	s := a.activeSession()
	if s == nil {
		return
	}
	snap, err := a.client.ChampSelectSession(ctx)
	if errors.Is(err, lcu.ErrNotFound) {
		a.endChampSelect()
		return
	}
	if err != nil {
		a.log.Debug().Err(err).Msg("champ select session unavailable")
		return
	}
	s.Tick(snap)
}

func (a *App) emitAllyInfo(ctx context.Context) {
	snap, err := a.client.ChampSelectSession(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("skip ally info")
		return
	}
	team := a.pipeline.AllyGameInfo(ctx, snap, a.currentSummonerID())
	a.emitter.TeamInfo(aggregate.SideAlly, team, nil)
}

// emitGameInfo emits both sides of a game that just started.
func (a *App) emitGameInfo(ctx context.Context) {
	session, err := a.client.GameflowSession(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("gameflow session unavailable")
		return
	}
	me := a.currentSummonerID()
	allyColors, enemyColors := aggregate.TeamColors(session, me)

	var g errgroup.Group
	for side, colors := range map[aggregate.Side]map[int64]int{
		aggregate.SideAlly:  allyColors,
		aggregate.SideEnemy: enemyColors,
	} {
		g.Go(func() error {
			if info := a.pipeline.GameInfoByGameflowSession(ctx, session, me, side); info != nil {
				a.emitter.TeamInfo(side, info, colors)
			}
			return nil
		})
	}
	_ = g.Wait()
}
