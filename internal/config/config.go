// Package config loads draftmate settings from an optional config file, a
// .env file and DRAFTMATE_* environment variables.
package config

import (
	"time"

	"draftmate/internal/logger"
)

type Config struct {
	Logger     logger.Config    `mapstructure:"logger"`
	LCU        LCUConfig        `mapstructure:"lcu"`
	Data       DataConfig       `mapstructure:"data"`
	Language   string           `mapstructure:"language" validate:"oneof=en zh"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Automation AutomationConfig `mapstructure:"automation"`
}

type LCUConfig struct {
	// LockfilePath overrides lockfile discovery.
	LockfilePath   string        `mapstructure:"lockfile_path"`
	PollInterval   time.Duration `mapstructure:"poll_interval" validate:"gte=100ms"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=1s"`
}

type DataConfig struct {
	// CachePath is the static data cache. Empty uses the per-user config dir.
	CachePath string `mapstructure:"cache_path"`
}

type PipelineConfig struct {
	ShowRankInGameInfo  bool `mapstructure:"show_rank_in_game_info"`
	FilterRankedHistory bool `mapstructure:"filter_ranked_history"`
}

type AutomationConfig struct {
	AutoAcceptPickOrderSwap bool          `mapstructure:"auto_accept_pick_order_swap"`
	AutoSelectChampion      bool          `mapstructure:"auto_select_champion"`
	AutoSelectChampionName  string        `mapstructure:"auto_select_champion_name" validate:"required_if=AutoSelectChampion true"`
	AutoAcceptChampionTrade bool          `mapstructure:"auto_accept_champion_trade"`
	AutoCompleteOnTimeout   bool          `mapstructure:"auto_complete_on_timeout"`
	AutoBan                 bool          `mapstructure:"auto_ban"`
	AutoBanChampionName     string        `mapstructure:"auto_ban_champion_name" validate:"required_if=AutoBan true"`
	AutoBanDelay            time.Duration `mapstructure:"auto_ban_delay" validate:"gte=0"`
	AvoidTeammateIntent     bool          `mapstructure:"avoid_teammate_intent"`
	AutoSelectSkinRandom    bool          `mapstructure:"auto_select_skin_random"`
	TimeUnit                time.Duration `mapstructure:"time_unit" validate:"gt=0"`
}
