package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Rewards RewardsConfig `mapstructure:"rewards"`
	Trainer TrainerConfig `mapstructure:"trainer"`
	UI      UIConfig      `mapstructure:"ui"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig holds board settings
type GameConfig struct {
	BoardWidth  int `mapstructure:"board_width"`
	BoardHeight int `mapstructure:"board_height"`
}

// AgentConfig holds learning hyperparameters and the approximator topology
type AgentConfig struct {
	MemoryCapacity int     `mapstructure:"memory_capacity"`
	BatchSize      int     `mapstructure:"batch_size"`
	Gamma          float64 `mapstructure:"gamma"`
	EpsilonStart   float64 `mapstructure:"epsilon_start"`
	EpsilonMin     float64 `mapstructure:"epsilon_min"`
	EpsilonDecay   float64 `mapstructure:"epsilon_decay"`
	Epochs         int     `mapstructure:"epochs"`
	HiddenUnits    []int   `mapstructure:"hidden_units"`
	Activation     string  `mapstructure:"activation"`
	LearningRate   float64 `mapstructure:"learning_rate"`
	FitBatchSize   int     `mapstructure:"fit_batch_size"`
	// Seed drives the game, the policy and weight init. 0 means time-based.
	Seed int64 `mapstructure:"seed"`
	// ModelAddr selects a remote model server instead of the in-process network
	ModelAddr string `mapstructure:"model_addr"`
}

// RewardsConfig holds the reward shaping values
type RewardsConfig struct {
	LineClear float64 `mapstructure:"line_clear"`
	StepCost  float64 `mapstructure:"step_cost"`
}

// TrainerConfig holds headless loop settings
type TrainerConfig struct {
	MaxTicks    int `mapstructure:"max_ticks"`
	LogEvery    int `mapstructure:"log_every"`
	RenderEvery int `mapstructure:"render_every"`
}

// UIConfig holds UI/client configuration
type UIConfig struct {
	Window       WindowConfig `mapstructure:"window"`
	TileSize     int          `mapstructure:"tile_size"`
	TickInterval int          `mapstructure:"tick_interval"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	ModelServer ModelServerConfig `mapstructure:"model_server"`
}

// ModelServerConfig holds gRPC model server configuration
type ModelServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.board_width", 12)
	v.SetDefault("game.board_height", 20)

	// Agent defaults
	v.SetDefault("agent.memory_capacity", 5000)
	v.SetDefault("agent.batch_size", 64)
	v.SetDefault("agent.gamma", 0.95)
	v.SetDefault("agent.epsilon_start", 1.0)
	v.SetDefault("agent.epsilon_min", 0.01)
	v.SetDefault("agent.epsilon_decay", 0.995)
	v.SetDefault("agent.epochs", 1)
	v.SetDefault("agent.hidden_units", []int{128, 128})
	v.SetDefault("agent.activation", "tanh")
	v.SetDefault("agent.learning_rate", 0.001)
	v.SetDefault("agent.fit_batch_size", 32)
	v.SetDefault("agent.seed", 0)
	v.SetDefault("agent.model_addr", "")

	// Reward defaults
	v.SetDefault("rewards.line_clear", 10.0)
	v.SetDefault("rewards.step_cost", 0.1)

	// Trainer defaults
	v.SetDefault("trainer.max_ticks", 0)
	v.SetDefault("trainer.log_every", 1000)
	v.SetDefault("trainer.render_every", 0)

	// UI defaults
	v.SetDefault("ui.window.width", 480)
	v.SetDefault("ui.window.height", 720)
	v.SetDefault("ui.window.title", "Tetris RL")
	v.SetDefault("ui.tile_size", 20)
	v.SetDefault("ui.tick_interval", 1)

	// Model server defaults
	v.SetDefault("server.model_server.host", "0.0.0.0")
	v.SetDefault("server.model_server.port", 50061)
	v.SetDefault("server.model_server.log_level", "info")
	v.SetDefault("server.model_server.graceful_shutdown_delay", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tetris-rl")
	}

	v.SetEnvPrefix("TRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the search paths only
		// ConfigFileNotFoundError is ignored.
		if configPath == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil || Validate(next) != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// A 4x4 piece must fit
	if c.Game.BoardWidth < 4 || c.Game.BoardHeight < 4 {
		return fmt.Errorf("game board must be at least 4x4")
	}

	if c.Agent.MemoryCapacity <= 0 {
		return fmt.Errorf("agent.memory_capacity must be positive")
	}
	if c.Agent.BatchSize <= 0 {
		return fmt.Errorf("agent.batch_size must be positive")
	}
	if c.Agent.Gamma < 0 || c.Agent.Gamma > 1 {
		return fmt.Errorf("agent.gamma must be between 0 and 1")
	}
	if c.Agent.EpsilonMin < 0 || c.Agent.EpsilonMin > c.Agent.EpsilonStart || c.Agent.EpsilonStart > 1 {
		return fmt.Errorf("agent epsilon must satisfy 0 <= epsilon_min <= epsilon_start <= 1")
	}
	if c.Agent.EpsilonDecay <= 0 || c.Agent.EpsilonDecay > 1 {
		return fmt.Errorf("agent.epsilon_decay must be in (0, 1]")
	}
	if c.Agent.Epochs <= 0 {
		return fmt.Errorf("agent.epochs must be positive")
	}
	if len(c.Agent.HiddenUnits) == 0 {
		return fmt.Errorf("agent.hidden_units must name at least one layer")
	}
	for i, u := range c.Agent.HiddenUnits {
		if u <= 0 {
			return fmt.Errorf("agent.hidden_units[%d] must be positive", i)
		}
	}
	switch strings.ToLower(c.Agent.Activation) {
	case "tanh", "relu":
	default:
		return fmt.Errorf("agent.activation must be tanh or relu")
	}
	if c.Agent.LearningRate <= 0 {
		return fmt.Errorf("agent.learning_rate must be positive")
	}
	if c.Agent.FitBatchSize <= 0 {
		return fmt.Errorf("agent.fit_batch_size must be positive")
	}

	if c.Trainer.MaxTicks < 0 || c.Trainer.LogEvery < 0 || c.Trainer.RenderEvery < 0 {
		return fmt.Errorf("trainer counters must be non-negative")
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.TileSize <= 0 {
		return fmt.Errorf("ui.tile_size must be positive")
	}
	if c.UI.TickInterval <= 0 {
		return fmt.Errorf("ui.tick_interval must be positive")
	}

	if c.Server.ModelServer.Port <= 0 || c.Server.ModelServer.Port > 65535 {
		return fmt.Errorf("server.model_server.port must be between 1 and 65535")
	}
	if c.Server.ModelServer.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.model_server.graceful_shutdown_delay must be non-negative")
	}

	return nil
}
