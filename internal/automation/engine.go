// Package automation reacts to champion select snapshots: it hovers, locks,
// bans, accepts swaps and trades, and picks skins on the player's behalf.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"draftmate/internal/lcu"

	"github.com/rs/zerolog"
)

// ErrNoChampion is returned by RerollAndRestoreChampion when nothing is selected.
var ErrNoChampion = errors.New("no champion selected")

// API is the part of the client the engine drives.
type API interface {
	ChampSelectSession(ctx context.Context) (*lcu.ChampSelectSession, error)
	SelectChampion(ctx context.Context, actionID, championID int, completed bool) error
	BanChampion(ctx context.Context, actionID, championID int, completed bool) error
	AcceptTrade(ctx context.Context, id int) error
	AcceptPickOrderSwap(ctx context.Context, id int) error
	BenchSwap(ctx context.Context, championID int) error
	Reroll(ctx context.Context) error
	CurrentChampion(ctx context.Context) (int, error)
	SkinCarousel(ctx context.Context) ([]lcu.CarouselSkin, error)
	SelectSkin(ctx context.Context, skinID int) error
}

// ChampionResolver maps configured champion names to ids.
type ChampionResolver interface {
	ChampionIDByName(name string) (int, bool)
}

// Config toggles each handler. A disabled handler never touches the client.
type Config struct {
	AutoAcceptPickOrderSwap bool
	AutoSelectChampion      bool
	AutoSelectChampionName  string
	AutoAcceptChampionTrade bool
	AutoCompleteOnTimeout   bool
	AutoBan                 bool
	AutoBanChampionName     string
	AutoBanDelay            time.Duration
	// AvoidTeammateIntent skips the ban when a teammate is hovering that champion.
	AvoidTeammateIntent  bool
	AutoSelectSkinRandom bool
	// TimeUnit is the grace period before accepting swaps and trades, and the
	// margin kept before the pick timer runs out. Defaults to one second.
	TimeUnit time.Duration
}

// Engine holds the configuration shared by all sessions.
type Engine struct {
	api       API
	champions ChampionResolver
	cfg       Config
	log       zerolog.Logger
	intn      func(n int) int
}

func NewEngine(api API, champions ChampionResolver, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.TimeUnit <= 0 {
		cfg.TimeUnit = time.Second
	}
	return &Engine{
		api:       api,
		champions: champions,
		cfg:       cfg,
		log:       logger.With().Str("component", "automation").Logger(),
		intn:      rand.IntN,
	}
}

// Session is one champion select. It owns the latches and every task
// started by Tick; End cancels and waits for them.
type Session struct {
	engine  *Engine
	latches *Latches
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex // guards wg.Add against End
	wg sync.WaitGroup

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// Begin starts a session with fresh latches.
func (e *Engine) Begin(parent context.Context) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		engine:   e,
		latches:  &Latches{},
		log:      e.log,
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]struct{}),
	}
}

func (s *Session) Latches() *Latches { return s.latches }

type handler struct {
	name    string
	enabled func(Config) bool
	run     func(*Session, context.Context, *lcu.ChampSelectSession)
}

var handlers = []handler{
	{"autoSwap", func(c Config) bool { return c.AutoAcceptPickOrderSwap }, (*Session).autoSwap},
	{"autoBenchSwap", func(c Config) bool { return c.AutoSelectChampion }, (*Session).autoBenchSwap},
	{"autoTrade", func(c Config) bool { return c.AutoAcceptChampionTrade }, (*Session).autoTrade},
	{"autoPick", func(c Config) bool { return c.AutoSelectChampion }, (*Session).autoPick},
	{"autoComplete", func(c Config) bool { return c.AutoCompleteOnTimeout }, (*Session).autoComplete},
	{"autoBan", func(c Config) bool { return c.AutoBan }, (*Session).autoBan},
	{"autoSelectSkinRandom", func(c Config) bool { return c.AutoSelectSkinRandom }, (*Session).autoSelectSkinRandom},
}

// Tick runs every enabled handler against snap, each in its own goroutine.
// It does not wait for them. Ticks after End are ignored.
func (s *Session) Tick(snap *lcu.ChampSelectSession) {
	if snap == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}

	for _, h := range handlers {
		if !h.enabled(s.engine.cfg) {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			h.run(s, s.ctx, snap)
		}()
	}
}

// Wait blocks until every task started so far has returned.
func (s *Session) Wait() { s.wg.Wait() }

// End cancels outstanding tasks and waits for them to return.
func (s *Session) End() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

// RerollAndRestoreChampion rerolls and takes the previous champion back
// from the bench.
func (e *Engine) RerollAndRestoreChampion(ctx context.Context) error {
	championID, err := e.api.CurrentChampion(ctx)
	if err != nil {
		return fmt.Errorf("current champion: %w", err)
	}
	if championID == 0 {
		return ErrNoChampion
	}
	if err := e.api.Reroll(ctx); err != nil {
		return fmt.Errorf("reroll: %w", err)
	}
	if err := e.api.BenchSwap(ctx, championID); err != nil {
		return fmt.Errorf("bench swap %d: %w", championID, err)
	}
	return nil
}

// sleep waits d or until ctx is done; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Session) claimInflight(key string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, ok := s.inflight[key]; ok {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Session) releaseInflight(key string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, key)
}
