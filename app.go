package main

import (
	"context"
	"sync"
	"time"

	"draftmate/internal/aggregate"
	"draftmate/internal/automation"
	"draftmate/internal/config"
	"draftmate/internal/gamedata"
	"draftmate/internal/lcu"
	"draftmate/internal/rank"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// App struct
type App struct {
	ctx      context.Context
	cfg      *config.Config
	log      zerolog.Logger
	client   *lcu.Client
	wsClient *lcu.WebSocketClient
	data     *gamedata.Manager
	store    *gamedata.Store
	pipeline *aggregate.Pipeline
	engine   *automation.Engine
	emitter  Emitter

	mu       sync.Mutex
	phase    string
	session  *automation.Session
	summoner *lcu.Summoner
}

// NewApp wires every component from cfg. A cache that cannot be opened is
// logged and skipped.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	a := &App{
		ctx:      context.Background(),
		cfg:      cfg,
		log:      logger.With().Str("component", "app").Logger(),
		client:   lcu.NewClient(lcu.Options{LockfilePath: cfg.LCU.LockfilePath, Timeout: cfg.LCU.RequestTimeout}, logger),
		wsClient: lcu.NewWebSocketClient(logger),
		emitter:  NewLogEmitter(logger),
	}

	if path := cachePath(cfg); path != "" {
		store, err := gamedata.OpenStore(path)
		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("static data cache unavailable")
		} else {
			a.store = store
		}
	}
	a.data = gamedata.NewManager(a.store, logger)

	tr := rank.NewTranslator(rank.ParseLanguage(cfg.Language))
	a.pipeline = aggregate.New(a.client, a.data, a.data, tr, aggregate.Options{
		ShowRankInGameInfo:  cfg.Pipeline.ShowRankInGameInfo,
		FilterRankedHistory: cfg.Pipeline.FilterRankedHistory,
	}, logger)
	a.engine = automation.NewEngine(a.client, a.data, automationConfig(cfg.Automation), logger)

	return a
}

func cachePath(cfg *config.Config) string {
	if cfg.Data.CachePath != "" {
		return cfg.Data.CachePath
	}
	return gamedata.DefaultCachePath()
}

func automationConfig(c config.AutomationConfig) automation.Config {
	return automation.Config{
		AutoAcceptPickOrderSwap: c.AutoAcceptPickOrderSwap,
		AutoSelectChampion:      c.AutoSelectChampion,
		AutoSelectChampionName:  c.AutoSelectChampionName,
		AutoAcceptChampionTrade: c.AutoAcceptChampionTrade,
		AutoCompleteOnTimeout:   c.AutoCompleteOnTimeout,
		AutoBan:                 c.AutoBan,
		AutoBanChampionName:     c.AutoBanChampionName,
		AutoBanDelay:            c.AutoBanDelay,
		AvoidTeammateIntent:     c.AvoidTeammateIntent,
		AutoSelectSkinRandom:    c.AutoSelectSkinRandom,
		TimeUnit:                c.TimeUnit,
	}
}

// Run drives the client connection and champion select until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx

	if err := a.data.LoadCached(ctx); err != nil {
		a.log.Debug().Err(err).Msg("no cached static data")
	}

	a.wsClient.SetGameflowPhaseHandler(a.onGameflowPhase)
	a.wsClient.SetChampSelectHandler(a.onChampSelectUpdate)
	a.RegisterRerollHotkey(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.pollForLeagueClient(ctx, reconnectInterval)
		return nil
	})
	g.Go(func() error {
		a.pollChampSelect(ctx, a.cfg.LCU.PollInterval)
		return nil
	})
	return g.Wait()
}

// shutdown ends any champion select session and closes connections.
func (a *App) shutdown() {
	a.endChampSelect()
	a.wsClient.Disconnect()
	a.client.Disconnect()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close static data cache")
		}
	}
}

const reconnectInterval = 2 * time.Second

func (a *App) currentSummoner() *lcu.Summoner {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summoner
}

func (a *App) currentSummonerID() int64 {
	if s := a.currentSummoner(); s != nil {
		return s.SummonerID
	}
	return 0
}
