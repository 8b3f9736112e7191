package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"draftmate/internal/lcu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localCell = 2

// banAndPickSession has the local player banning in the first group and
// picking in the second, both in progress.
func banAndPickSession() *lcu.ChampSelectSession {
	return &lcu.ChampSelectSession{
		LocalPlayerCellID: localCell,
		Timer:             lcu.ChampSelectTimer{AdjustedTimeLeftInPhase: 30},
		MyTeam: []lcu.ChampSelectPlayer{
			{CellID: 1},
			{CellID: localCell},
		},
		Actions: [][]lcu.ChampSelectAction{
			{
				{ID: 1, ActorCellID: 1, Type: actionBan, IsInProgress: true},
				{ID: 2, ActorCellID: localCell, Type: actionBan, IsInProgress: true},
			},
			{
				{ID: 3, ActorCellID: localCell, Type: actionPick, IsInProgress: true},
			},
		},
	}
}

func runTicks(e *Engine, snaps ...*lcu.ChampSelectSession) *Session {
	s := e.Begin(context.Background())
	for _, snap := range snaps {
		s.Tick(snap)
	}
	s.Wait()
	return s
}

func TestAutoBan_OverlappingTicksBanOnce(t *testing.T) {
	api := &fakeAPI{}
	snap := banAndPickSession()
	api.setSession(snap)
	e := newTestEngine(api, Config{AutoBan: true, AutoBanChampionName: "Yasuo", AutoBanDelay: 20 * time.Millisecond})

	s := runTicks(e, snap, snap, snap, snap, snap)
	defer s.End()

	assert.Equal(t, []call{{"ban", 2, 157, true}}, api.callsTo("ban"))
}

func TestAutoBan_AvoidTeammateIntent(t *testing.T) {
	tests := []struct {
		name  string
		avoid bool
		want  int
	}{
		{"policy off bans anyway", false, 157},
		{"policy on clears the target", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			fresh := banAndPickSession()
			fresh.MyTeam[0].ChampionPickIntent = 157
			api.setSession(fresh)
			e := newTestEngine(api, Config{AutoBan: true, AutoBanChampionName: "Yasuo", AvoidTeammateIntent: tt.avoid})

			runTicks(e, banAndPickSession()).End()

			assert.Equal(t, []call{{"ban", 2, tt.want, true}}, api.callsTo("ban"))
		})
	}
}

func TestAutoBan_StaleAction(t *testing.T) {
	api := &fakeAPI{}
	fresh := banAndPickSession()
	fresh.Actions[0][1].Completed = true
	fresh.Actions[0][1].IsInProgress = false
	api.setSession(fresh)
	e := newTestEngine(api, Config{AutoBan: true, AutoBanChampionName: "Yasuo"})

	runTicks(e, banAndPickSession()).End()

	assert.Empty(t, api.callsTo("ban"))
}

func TestAutoBan_SessionGone(t *testing.T) {
	api := &fakeAPI{sessionErr: lcu.ErrNotFound}
	e := newTestEngine(api, Config{AutoBan: true, AutoBanChampionName: "Yasuo"})

	s := runTicks(e, banAndPickSession())
	s.End()

	assert.Empty(t, api.callsTo("ban"))
	assert.True(t, s.Latches().Banned())
}

func TestAutoBan_UnknownChampion(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEngine(api, Config{AutoBan: true, AutoBanChampionName: "Nobody"})

	s := runTicks(e, banAndPickSession())
	s.End()

	assert.Empty(t, api.allCalls())
	assert.False(t, s.Latches().Banned())
}

func TestAutoPick(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEngine(api, Config{AutoSelectChampion: true, AutoSelectChampionName: "Ahri"})
	snap := banAndPickSession()

	s := runTicks(e, snap, snap, snap)
	s.End()

	assert.Equal(t, []call{{"select", 3, 103, false}}, api.callsTo("select"))
	assert.True(t, s.Latches().Picked())
}

func TestAutoPick_LatestGroupFirst(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEngine(api, Config{AutoSelectChampion: true, AutoSelectChampionName: "Ahri"})
	snap := banAndPickSession()
	snap.Actions = append(snap.Actions, []lcu.ChampSelectAction{
		{ID: 7, ActorCellID: localCell, Type: actionPick, IsInProgress: true},
	})

	runTicks(e, snap).End()

	assert.Equal(t, []call{{"select", 7, 103, false}}, api.callsTo("select"))
}

func TestAutoPick_SkipsWhenAlreadyChosen(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*lcu.ChampSelectSession)
	}{
		{"intent declared", func(s *lcu.ChampSelectSession) { s.MyTeam[1].ChampionPickIntent = 99 }},
		{"champion set", func(s *lcu.ChampSelectSession) { s.MyTeam[1].ChampionID = 99 }},
		{"not our turn", func(s *lcu.ChampSelectSession) { s.Actions[1][0].IsInProgress = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			e := newTestEngine(api, Config{AutoSelectChampion: true, AutoSelectChampionName: "Ahri"})
			snap := banAndPickSession()
			tt.mutate(snap)

			s := runTicks(e, snap)
			s.End()

			assert.Empty(t, api.callsTo("select"))
			assert.False(t, s.Latches().Picked())
		})
	}
}

func TestAutoComplete_LocksHoveredChampion(t *testing.T) {
	api := &fakeAPI{}
	fresh := banAndPickSession()
	fresh.Actions[1][0].ChampionID = 99
	api.setSession(fresh)
	e := newTestEngine(api, Config{AutoCompleteOnTimeout: true})

	s := runTicks(e, banAndPickSession(), banAndPickSession())
	s.End()

	assert.Equal(t, []call{{"select", 3, 99, true}}, api.callsTo("select"))
}

func TestAutoComplete_LocksInOneTimeUnitBeforeTimer(t *testing.T) {
	api := &fakeAPI{}
	fresh := banAndPickSession()
	fresh.Actions[1][0].ChampionID = 103
	api.setSession(fresh)
	e := newTestEngine(api, Config{AutoCompleteOnTimeout: true, TimeUnit: 50 * time.Millisecond})

	snap := banAndPickSession()
	snap.Timer.AdjustedTimeLeftInPhase = 300
	start := time.Now()
	runTicks(e, snap).End()
	elapsed := time.Since(start)

	assert.Equal(t, []call{{"select", 3, 103, true}}, api.callsTo("select"))
	assert.GreaterOrEqual(t, elapsed, 250*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestLockInDelay(t *testing.T) {
	tests := []struct {
		name   string
		leftMs float64
		unit   time.Duration
		want   time.Duration
	}{
		{"short unit", 3000, 50 * time.Millisecond, 2950 * time.Millisecond},
		{"long unit", 30000, 2 * time.Second, 28 * time.Second},
		{"fractional ms", 1500.5, time.Second, 500*time.Millisecond + 500*time.Microsecond},
		{"timer nearly out", 400, time.Second, 0},
		{"no timer", 0, time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lockInDelay(tt.leftMs, tt.unit))
		})
	}
}

func TestAutoComplete_SkipsStaleOrEmpty(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*lcu.ChampSelectSession)
	}{
		{"nothing hovered", func(*lcu.ChampSelectSession) {}},
		{"already locked", func(s *lcu.ChampSelectSession) {
			s.Actions[1][0].ChampionID = 99
			s.Actions[1][0].Completed = true
		}},
		{"action gone", func(s *lcu.ChampSelectSession) { s.Actions = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			fresh := banAndPickSession()
			tt.mutate(fresh)
			api.setSession(fresh)
			e := newTestEngine(api, Config{AutoCompleteOnTimeout: true})

			runTicks(e, banAndPickSession()).End()

			assert.Empty(t, api.callsTo("select"))
		})
	}
}

func TestAutoSwap_RevokesPendingAutoComplete(t *testing.T) {
	api := &fakeAPI{}
	fresh := banAndPickSession()
	fresh.Actions[1][0].ChampionID = 99
	api.setSession(fresh)
	e := newTestEngine(api, Config{
		AutoAcceptPickOrderSwap: true,
		AutoCompleteOnTimeout:   true,
		TimeUnit:                2 * time.Millisecond,
	})

	snap := banAndPickSession()
	snap.Timer.AdjustedTimeLeftInPhase = 60
	snap.PickOrderSwaps = []lcu.SwapRequest{{ID: 5, CellID: 4, State: stateReceived}}

	s := runTicks(e, snap)
	assert.Equal(t, []call{{method: "swap", id: 5}}, api.callsTo("swap"))
	assert.Empty(t, api.callsTo("select"), "the revoked auto-complete must not fire")
	assert.False(t, s.Latches().PickCompleted())

	// The next tick re-arms auto-complete for the new slot.
	snap.Timer.AdjustedTimeLeftInPhase = 20
	s.Tick(snap)
	s.Wait()
	s.End()

	assert.Len(t, api.callsTo("swap"), 1)
	assert.Equal(t, []call{{"select", 3, 99, true}}, api.callsTo("select"))
}

func TestAutoTrade(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEngine(api, Config{AutoAcceptChampionTrade: true})
	snap := banAndPickSession()
	snap.Trades = []lcu.SwapRequest{
		{ID: 8, CellID: 0, State: "SENT"},
		{ID: 9, CellID: 1, State: stateReceived},
	}

	s := runTicks(e, snap, snap)
	s.Tick(snap)
	s.Wait()
	s.End()

	assert.Equal(t, []call{{method: "trade", id: 9}}, api.callsTo("trade"))
}

func TestAutoTrade_RetriesAfterFailure(t *testing.T) {
	api := &fakeAPI{failAccept: errors.New("conflict")}
	e := newTestEngine(api, Config{AutoAcceptChampionTrade: true})
	snap := banAndPickSession()
	snap.Trades = []lcu.SwapRequest{{ID: 9, State: stateReceived}}

	s := runTicks(e, snap)
	s.Tick(snap)
	s.Wait()
	s.End()

	assert.Len(t, api.callsTo("trade"), 2)
}

func TestAutoBenchSwap(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		bench   []lcu.BenchChampion
		want    int
	}{
		{"champion on bench", true, []lcu.BenchChampion{{ChampionID: 1}, {ChampionID: 103}}, 2},
		{"champion missing", true, []lcu.BenchChampion{{ChampionID: 1}}, 0},
		{"bench disabled", false, []lcu.BenchChampion{{ChampionID: 103}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			e := newTestEngine(api, Config{AutoSelectChampion: true, AutoSelectChampionName: "ahri"})
			snap := banAndPickSession()
			snap.Actions = nil
			snap.BenchEnabled = tt.enabled
			snap.BenchChampions = tt.bench

			runTicks(e, snap, snap).End()

			calls := api.callsTo("bench")
			assert.Len(t, calls, tt.want)
			for _, c := range calls {
				assert.Equal(t, 103, c.champion)
			}
		})
	}
}

func TestAutoSelectSkinRandom(t *testing.T) {
	owned := lcu.Ownership{Owned: true}
	api := &fakeAPI{skins: []lcu.CarouselSkin{
		{ID: 1, Ownership: owned},
		{ID: 2, Ownership: owned, Disabled: true},
		{ID: 3, ChildSkins: []lcu.ChildSkin{{ID: 31, Ownership: owned}}},
		{ID: 4, Ownership: owned, ChildSkins: []lcu.ChildSkin{
			{ID: 41, Ownership: owned},
			{ID: 42},
			{ID: 43, Ownership: owned, Disabled: true},
		}},
	}}
	e := newTestEngine(api, Config{AutoSelectSkinRandom: true})
	var gotN int
	e.intn = func(n int) int {
		gotN = n
		return n - 1
	}

	pending := banAndPickSession()
	s := runTicks(e, pending)
	assert.Empty(t, api.allCalls(), "no skin before the pick is locked")

	locked := banAndPickSession()
	locked.Actions[1][0].Completed = true
	s.Tick(locked)
	s.Tick(locked)
	s.Wait()
	s.End()

	assert.Equal(t, 3, gotN)
	assert.Equal(t, []call{{method: "skin", id: 41}}, api.callsTo("skin"))
	assert.Len(t, api.callsTo("carousel"), 1)
}

func TestAutoSelectSkinRandom_BenchQueue(t *testing.T) {
	owned := lcu.Ownership{Owned: true}
	api := &fakeAPI{skins: []lcu.CarouselSkin{{ID: 22001, Ownership: owned}, {ID: 22002, Ownership: owned}}}
	e := newTestEngine(api, Config{AutoSelectSkinRandom: true})
	e.intn = func(int) int { return 0 }

	waiting := banAndPickSession()
	waiting.Actions = nil
	s := runTicks(e, waiting)
	assert.Empty(t, api.allCalls(), "no skin before a champion is assigned")

	assigned := banAndPickSession()
	assigned.Actions = nil
	assigned.MyTeam[1].ChampionID = 22
	s.Tick(assigned)
	s.Tick(assigned)
	s.Tick(assigned)
	s.Wait()
	s.End()

	assert.Equal(t, []call{{method: "skin", id: 22001}}, api.callsTo("skin"))
	assert.Len(t, api.callsTo("carousel"), 1)
}

func TestPickableSkins_NoneOwned(t *testing.T) {
	got := pickableSkins([]lcu.CarouselSkin{{ID: 1}, {ID: 2, Disabled: true}})
	require.Empty(t, got)
}
