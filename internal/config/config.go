package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Pacing   PacingConfig   `mapstructure:"pacing"`
	Movement MovementConfig `mapstructure:"movement"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Battle   BattleConfig   `mapstructure:"battle"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PacingConfig holds the delays between enemy actions. All values are
// milliseconds.
type PacingConfig struct {
	UnitDelayMs       int `mapstructure:"unit_delay_ms"`
	PreAttackDelayMs  int `mapstructure:"pre_attack_delay_ms"`
	DeathCheckDelayMs int `mapstructure:"death_check_delay_ms"`
}

// UnitDelay is the pause between consecutive enemy units acting.
func (p PacingConfig) UnitDelay() time.Duration {
	return time.Duration(p.UnitDelayMs) * time.Millisecond
}

// PreAttackDelay is the pause between a unit finishing its move and
// starting its attack.
func (p PacingConfig) PreAttackDelay() time.Duration {
	return time.Duration(p.PreAttackDelayMs) * time.Millisecond
}

// DeathCheckDelay is the pause between a unit dying and the battle end
// check running.
func (p PacingConfig) DeathCheckDelay() time.Duration {
	return time.Duration(p.DeathCheckDelayMs) * time.Millisecond
}

// MovementConfig holds movement animation settings
type MovementConfig struct {
	SecondsPerCell float64 `mapstructure:"seconds_per_cell"`
}

// CombatConfig holds combat animation settings
type CombatConfig struct {
	AttackDurationMs int `mapstructure:"attack_duration_ms"`
}

// AttackDuration is how long an attack takes before damage lands.
func (c CombatConfig) AttackDuration() time.Duration {
	return time.Duration(c.AttackDurationMs) * time.Millisecond
}

// ScenarioConfig holds scenario data file locations
type ScenarioConfig struct {
	Path      string `mapstructure:"path"`
	UnitsPath string `mapstructure:"units_path"`
}

// BattleConfig holds battle loop settings
type BattleConfig struct {
	TickRate int `mapstructure:"tick_rate"`
	MaxTurns int `mapstructure:"max_turns"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Pacing defaults
	v.SetDefault("pacing.unit_delay_ms", 350)
	v.SetDefault("pacing.pre_attack_delay_ms", 150)
	v.SetDefault("pacing.death_check_delay_ms", 250)

	// Movement defaults
	v.SetDefault("movement.seconds_per_cell", 0.18)

	// Combat defaults
	v.SetDefault("combat.attack_duration_ms", 200)

	// Scenario defaults
	v.SetDefault("scenario.path", "scenarios/skirmish.yaml")
	v.SetDefault("scenario.units_path", "")

	// Battle loop defaults
	v.SetDefault("battle.tick_rate", 30)
	v.SetDefault("battle.max_turns", 0)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/skirmish")
	}

	// Set environment variable prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			// Specific file requested but not found - that's ok, use defaults
		} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// For default locations, only ignore ConfigFileNotFoundError
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Validate configuration
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
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

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	// Re-unmarshal with merged config
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		// Re-unmarshal on change
		v.Unmarshal(cfg)
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Pacing.UnitDelayMs < 0 {
		return fmt.Errorf("pacing.unit_delay_ms must be non-negative")
	}
	if c.Pacing.PreAttackDelayMs < 0 {
		return fmt.Errorf("pacing.pre_attack_delay_ms must be non-negative")
	}
	if c.Pacing.DeathCheckDelayMs < 0 {
		return fmt.Errorf("pacing.death_check_delay_ms must be non-negative")
	}

	if c.Movement.SecondsPerCell <= 0 {
		return fmt.Errorf("movement.seconds_per_cell must be positive")
	}
	if c.Combat.AttackDurationMs < 0 {
		return fmt.Errorf("combat.attack_duration_ms must be non-negative")
	}

	if c.Scenario.Path == "" {
		return fmt.Errorf("scenario.path must not be empty")
	}

	if c.Battle.TickRate <= 0 {
		return fmt.Errorf("battle.tick_rate must be positive")
	}
	if c.Battle.MaxTurns < 0 {
		return fmt.Errorf("battle.max_turns must be non-negative")
	}

	return nil
}
