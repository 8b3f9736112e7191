package automation

import (
	"context"
	"fmt"
	"time"

	"draftmate/internal/lcu"
)

const (
	actionPick = "pick"
	actionBan  = "ban"

	stateReceived = "RECEIVED"
)

// findAction returns the first of the local player's actions of kind
// matching ok. Groups are scanned newest first when latestFirst is set.
func findAction(snap *lcu.ChampSelectSession, kind string, latestFirst bool, ok func(lcu.ChampSelectAction) bool) (lcu.ChampSelectAction, bool) {
	n := len(snap.Actions)
	for i := 0; i < n; i++ {
		group := snap.Actions[i]
		if latestFirst {
			group = snap.Actions[n-1-i]
		}
		for _, a := range group {
			if a.ActorCellID == snap.LocalPlayerCellID && a.Type == kind && ok(a) {
				return a, true
			}
		}
	}
	return lcu.ChampSelectAction{}, false
}

func inProgress(a lcu.ChampSelectAction) bool { return a.IsInProgress }

func pendingPick(a lcu.ChampSelectAction) bool { return a.IsInProgress && !a.Completed }

func (s *Session) championID(name string) (int, bool) {
	id, ok := s.engine.champions.ChampionIDByName(name)
	if !ok {
		s.log.Debug().Str("champion", name).Msg("unknown champion name")
	}
	return id, ok
}

// acceptOnce waits one time unit and accepts the first received request.
// A request id is handled at most once per session unless accepting fails.
func (s *Session) acceptOnce(ctx context.Context, kind string, requests []lcu.SwapRequest, accept func(context.Context, int) error) (int, bool) {
	for _, r := range requests {
		if r.State != stateReceived {
			continue
		}
		key := fmt.Sprintf("%s:%d", kind, r.ID)
		if !s.claimInflight(key) {
			return 0, false
		}
		if !sleep(ctx, s.engine.cfg.TimeUnit) {
			s.releaseInflight(key)
			return 0, false
		}
		if err := accept(ctx, r.ID); err != nil {
			s.releaseInflight(key)
			s.log.Warn().Err(err).Str("kind", kind).Int("id", r.ID).Msg("accept failed")
			return 0, false
		}
		s.log.Info().Str("kind", kind).Int("id", r.ID).Msg("accepted request")
		return r.ID, true
	}
	return 0, false
}

// autoSwap accepts a pick-order swap. The new slot gets a fresh pick timer,
// so any pending auto-complete is revoked.
func (s *Session) autoSwap(ctx context.Context, snap *lcu.ChampSelectSession) {
	if _, ok := s.acceptOnce(ctx, "swap", snap.PickOrderSwaps, s.engine.api.AcceptPickOrderSwap); ok {
		s.latches.ReleasePickCompleted()
	}
}

func (s *Session) autoTrade(ctx context.Context, snap *lcu.ChampSelectSession) {
	s.acceptOnce(ctx, "trade", snap.Trades, s.engine.api.AcceptTrade)
}

// autoBenchSwap takes the configured champion from the bench when offered.
func (s *Session) autoBenchSwap(ctx context.Context, snap *lcu.ChampSelectSession) {
	if !snap.BenchEnabled {
		return
	}
	championID, ok := s.championID(s.engine.cfg.AutoSelectChampionName)
	if !ok {
		return
	}
	for _, b := range snap.BenchChampions {
		if b.ChampionID != championID {
			continue
		}
		if err := s.engine.api.BenchSwap(ctx, championID); err != nil {
			s.log.Warn().Err(err).Int("champion_id", championID).Msg("bench swap failed")
			return
		}
		s.log.Info().Int("champion_id", championID).Msg("swapped champion from bench")
		return
	}
}

// autoPick hovers the configured champion on the local player's pick.
func (s *Session) autoPick(ctx context.Context, snap *lcu.ChampSelectSession) {
	if s.latches.Picked() {
		return
	}
	if me, ok := snap.LocalPlayer(); ok && (me.ChampionID != 0 || me.ChampionPickIntent != 0) {
		return
	}
	action, ok := findAction(snap, actionPick, true, inProgress)
	if !ok {
		return
	}
	championID, ok := s.championID(s.engine.cfg.AutoSelectChampionName)
	if !ok {
		return
	}
	if !s.latches.ClaimPick() {
		return
	}
	if err := s.engine.api.SelectChampion(ctx, action.ID, championID, false); err != nil {
		s.log.Warn().Err(err).Int("action_id", action.ID).Msg("auto pick failed")
		return
	}
	s.log.Info().Int("champion_id", championID).Msg("hovered champion")
}

// autoComplete locks in whatever is hovered one time unit before the pick
// timer expires.
func (s *Session) autoComplete(ctx context.Context, snap *lcu.ChampSelectSession) {
	if s.latches.PickCompleted() {
		return
	}
	action, ok := findAction(snap, actionPick, true, pendingPick)
	if !ok {
		return
	}
	token, ok := s.latches.ClaimPickCompleted()
	if !ok {
		return
	}

	if !sleep(ctx, lockInDelay(snap.Timer.AdjustedTimeLeftInPhase, s.engine.cfg.TimeUnit)) {
		return
	}
	if !s.latches.HoldsPickCompleted(token) {
		return
	}

	fresh, err := s.engine.api.ChampSelectSession(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("session gone before auto complete")
		return
	}
	current, ok := fresh.Action(action.ID)
	if !ok || !pendingPick(current) || current.ActorCellID != fresh.LocalPlayerCellID {
		return
	}
	if current.ChampionID == 0 {
		s.log.Debug().Int("action_id", action.ID).Msg("nothing hovered, not locking in")
		return
	}
	if err := s.engine.api.SelectChampion(ctx, current.ID, current.ChampionID, true); err != nil {
		s.log.Warn().Err(err).Int("action_id", current.ID).Msg("auto complete failed")
		return
	}
	s.log.Info().Int("champion_id", current.ChampionID).Msg("locked in champion")
}

// lockInDelay is how long to wait so the lock-in lands one time unit before
// the phase timer, given leftMs milliseconds remaining.
func lockInDelay(leftMs float64, unit time.Duration) time.Duration {
	d := time.Duration(leftMs*float64(time.Millisecond)) - unit
	if d < 0 {
		return 0
	}
	return d
}

// autoBan bans the configured champion after a grace period that lets
// teammates declare their picks.
func (s *Session) autoBan(ctx context.Context, snap *lcu.ChampSelectSession) {
	if s.latches.Banned() {
		return
	}
	action, ok := findAction(snap, actionBan, false, inProgress)
	if !ok {
		return
	}
	championID, ok := s.championID(s.engine.cfg.AutoBanChampionName)
	if !ok {
		return
	}
	if !s.latches.ClaimBan() {
		return
	}

	if !sleep(ctx, s.engine.cfg.AutoBanDelay) {
		return
	}

	fresh, err := s.engine.api.ChampSelectSession(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("session gone before auto ban")
		return
	}
	current, ok := fresh.Action(action.ID)
	if !ok || !current.IsInProgress || current.Completed {
		return
	}
	if s.engine.cfg.AvoidTeammateIntent {
		for _, p := range fresh.MyTeam {
			if p.ChampionPickIntent == championID {
				s.log.Info().Int("champion_id", championID).Msg("teammate wants the ban target, clearing it")
				championID = 0
				break
			}
		}
	}

	if err := s.engine.api.BanChampion(ctx, action.ID, championID, true); err != nil {
		s.log.Warn().Err(err).Int("action_id", action.ID).Msg("auto ban failed")
		return
	}
	s.log.Info().Int("champion_id", championID).Msg("banned champion")
}

// championLocked reports whether the local player has a champion to dress.
// Draft queues need a completed pick; bench queues assign one directly.
func championLocked(snap *lcu.ChampSelectSession) bool {
	if _, ok := findAction(snap, actionPick, false, func(lcu.ChampSelectAction) bool { return true }); ok {
		_, done := findAction(snap, actionPick, false, func(a lcu.ChampSelectAction) bool { return a.Completed })
		return done
	}
	me, ok := snap.LocalPlayer()
	return ok && me.ChampionID != 0
}

// autoSelectSkinRandom applies a random owned skin once the champion is locked.
func (s *Session) autoSelectSkinRandom(ctx context.Context, snap *lcu.ChampSelectSession) {
	if s.latches.SkinPicked() {
		return
	}
	if !championLocked(snap) {
		return
	}
	if !s.latches.ClaimSkin() {
		return
	}

	skins, err := s.engine.api.SkinCarousel(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("skin carousel unavailable")
		return
	}
	ids := pickableSkins(skins)
	if len(ids) == 0 {
		return
	}
	skinID := ids[s.engine.intn(len(ids))]
	if err := s.engine.api.SelectSkin(ctx, skinID); err != nil {
		s.log.Warn().Err(err).Int("skin_id", skinID).Msg("select skin failed")
		return
	}
	s.log.Info().Int("skin_id", skinID).Msg("selected random skin")
}

// pickableSkins lists owned, enabled skins and their owned variants.
func pickableSkins(skins []lcu.CarouselSkin) []int {
	var ids []int
	for _, skin := range skins {
		if skin.Disabled || !skin.Ownership.Owned {
			continue
		}
		ids = append(ids, skin.ID)
		for _, child := range skin.ChildSkins {
			if !child.Disabled && child.Ownership.Owned {
				ids = append(ids, child.ID)
			}
		}
	}
	return ids
}
