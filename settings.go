package glide

import "github.com/tanema/gween/ease"

// Settings configures an Engine and the defaults of the units it creates.
// The mapstructure tags match the keys read by the config package.
type Settings struct {
	DefaultEase       string     `mapstructure:"default_ease"`
	DefaultLoopType   LoopType   `mapstructure:"default_loop_type"`
	DefaultAutoKill   bool       `mapstructure:"default_auto_kill"`
	DefaultUpdateType UpdateType `mapstructure:"default_update_type"`
	TimeScale         float64    `mapstructure:"time_scale"`
	OverwriteManager  bool       `mapstructure:"overwrite_manager"`
	LogOverwrites     bool       `mapstructure:"log_overwrites"`
	LogLevel          LogLevel   `mapstructure:"log_level"`
	PathSubdivisions  int        `mapstructure:"path_subdivisions"`
	Debug             bool       `mapstructure:"debug"`
	Capacity          int        `mapstructure:"capacity"` // initial arena and registry size
}

// DefaultSettings returns the settings a new Engine starts with.
func DefaultSettings() Settings {
	return Settings{
		DefaultEase:       "OutQuad",
		DefaultLoopType:   LoopRestart,
		DefaultAutoKill:   true,
		DefaultUpdateType: UpdateNormal,
		TimeScale:         1,
		OverwriteManager:  true,
		LogLevel:          LogWarnings,
		PathSubdivisions:  DefaultPathSubdivisions,
		Capacity:          64,
	}
}

// Params configures one tween or sequence. Start from Engine.Params to get
// the engine defaults. A zero Loops means one loop and a zero TimeScale means
// 1; Infinite loops forever.
type Params struct {
	ID         string
	IntID      int
	Ease       string         // name from EaseNames; empty uses the engine default
	EaseFunc   ease.TweenFunc // overrides Ease when set
	Loops      int
	LoopType   LoopType
	Delay      float64
	TimeScale  float64
	AutoKill   bool
	SpeedBased bool // the duration passed to To is a speed in units/second
	UpdateType UpdateType
	Paused     bool
}
