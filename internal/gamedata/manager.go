package gamedata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrNotLoaded = errors.New("static game data not loaded")

// Fetcher is the subset of the LCU client used to pull static tables.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// QueueInfo holds the display names for a queue id
type QueueInfo struct {
	Name    string
	MapName string
}

// Champion holds champion metadata
type Champion struct {
	ID    int
	Name  string // Display name (e.g., "Wukong")
	Alias string // Internal name (e.g., "MonkeyKing")
}

// Snapshot is one complete copy of the static tables.
type Snapshot struct {
	Queues    map[int]QueueInfo
	Maps      map[int]string
	Champions map[int]Champion
	Items     map[int]string // id -> icon path
	Spells    map[int]string
	Perks     map[int]string
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Queues:    make(map[int]QueueInfo),
		Maps:      make(map[int]string),
		Champions: make(map[int]Champion),
		Items:     make(map[int]string),
		Spells:    make(map[int]string),
		Perks:     make(map[int]string),
	}
}

// Manager resolves queue, map and champion names and asset paths.
type Manager struct {
	store *Store
	log   zerolog.Logger

	mu   sync.RWMutex
	data *Snapshot
}

// NewManager creates a manager. store may be nil to disable the offline cache.
func NewManager(store *Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   logger.With().Str("component", "gamedata").Logger(),
		data:  newSnapshot(),
	}
}

// Load pulls the static tables from the client and writes them through to
// the cache. When the client is unavailable the cached copy is used instead.
func (m *Manager) Load(ctx context.Context, f Fetcher) error {
	snap, err := fetchSnapshot(ctx, f)
	if err == nil {
		m.set(snap)
		if m.store != nil {
			if err := m.store.Save(ctx, snap); err != nil {
				m.log.Warn().Err(err).Msg("failed to cache static data")
			}
		}
		m.log.Info().Int("champions", len(snap.Champions)).Int("queues", len(snap.Queues)).Msg("static data loaded")
		return nil
	}

	if m.store == nil {
		return err
	}
	m.log.Warn().Err(err).Msg("static data fetch failed, falling back to cache")
	return m.LoadCached(ctx)
}

// LoadCached populates the manager from the cache only.
func (m *Manager) LoadCached(ctx context.Context) error {
	if m.store == nil {
		return ErrNotLoaded
	}
	snap, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(snap.Champions) == 0 {
		return ErrNotLoaded
	}
	m.set(snap)
	return nil
}

func (m *Manager) set(snap *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = snap
}

// IsLoaded returns whether any static data is available
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data.Champions) > 0
}

// QueueNameMap returns the mode and map names for a queue id.
func (m *Manager) QueueNameMap(queueID int) QueueInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Queues[queueID]
}

func (m *Manager) MapName(mapID int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Maps[mapID]
}

// ChampionName returns "" for unknown ids.
func (m *Manager) ChampionName(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Champions[id].Name
}

// ChampionIDByName matches display name or alias, ignoring case.
func (m *Manager) ChampionIDByName(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, c := range m.data.Champions {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.Alias, name) {
			return id, true
		}
	}
	return 0, false
}

// ProfileIcon returns the client asset path of a profile icon.
func (m *Manager) ProfileIcon(id int) string {
	return fmt.Sprintf("/lol-game-data/assets/v1/profile-icons/%d.jpg", id)
}

// ChampionIcon returns "" for id <= 0.
func (m *Manager) ChampionIcon(id int) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf("/lol-game-data/assets/v1/champion-icons/%d.png", id)
}

func (m *Manager) ItemIcon(id int) string {
	return m.lookup(id, func(s *Snapshot) map[int]string { return s.Items })
}

func (m *Manager) SummonerSpellIcon(id int) string {
	return m.lookup(id, func(s *Snapshot) map[int]string { return s.Spells })
}

func (m *Manager) RuneIcon(id int) string {
	return m.lookup(id, func(s *Snapshot) map[int]string { return s.Perks })
}

func (m *Manager) lookup(id int, table func(*Snapshot) map[int]string) string {
	if id == 0 {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return table(m.data)[id]
}

type queueJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MapID       int    `json:"mapId"`
}

type mapJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type championJSON struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type assetJSON struct {
	ID       int    `json:"id"`
	IconPath string `json:"iconPath"`
}

func fetchSnapshot(ctx context.Context, f Fetcher) (*Snapshot, error) {
	var (
		queues    []queueJSON
		maps      []mapJSON
		champions []championJSON
		items     []assetJSON
		spells    []assetJSON
		perks     []assetJSON
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(path string, out any) {
		g.Go(func() error {
			if err := f.GetJSON(gctx, path, out); err != nil {
				return fmt.Errorf("fetch %s: %w", path, err)
			}
			return nil
		})
	}
	fetch("/lol-game-queues/v1/queues", &queues)
	fetch("/lol-maps/v1/maps", &maps)
	fetch("/lol-game-data/assets/v1/champion-summary.json", &champions)
	fetch("/lol-game-data/assets/v1/items.json", &items)
	fetch("/lol-game-data/assets/v1/summoner-spells.json", &spells)
	fetch("/lol-game-data/assets/v1/perks.json", &perks)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := newSnapshot()
	for _, mp := range maps {
		// several entries share an id, one per game mode
		if _, ok := snap.Maps[mp.ID]; !ok {
			snap.Maps[mp.ID] = mp.Name
		}
	}
	for _, q := range queues {
		name := q.Description
		if name == "" {
			name = q.Name
		}
		snap.Queues[q.ID] = QueueInfo{Name: name, MapName: snap.Maps[q.MapID]}
	}
	for _, c := range champions {
		if c.ID <= 0 {
			continue
		}
		snap.Champions[c.ID] = Champion{ID: c.ID, Name: c.Name, Alias: c.Alias}
	}
	for _, it := range items {
		snap.Items[it.ID] = it.IconPath
	}
	for _, sp := range spells {
		snap.Spells[sp.ID] = sp.IconPath
	}
	for _, p := range perks {
		snap.Perks[p.ID] = p.IconPath
	}
	return snap, nil
}
