package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory
const FileName = "arena.cfg.json"

type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`

	Player  PlayerConfig  `json:"player" mapstructure:"player"`
	Match   MatchConfig   `json:"match" mapstructure:"match"`
	Physics PhysicsConfig `json:"physics" mapstructure:"physics"`
	Loop    LoopConfig    `json:"loop" mapstructure:"loop"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	DB      DBConfig      `json:"db" mapstructure:"db"`
	Influx  InfluxConfig  `json:"influx" mapstructure:"influx"`
	HUD     HUDConfig     `json:"hud" mapstructure:"hud"`
}

// PlayerConfig selects the profile loaded at session setup. An empty ID plays as guest.
type PlayerConfig struct {
	ID       string `json:"id" mapstructure:"id"`
	Username string `json:"username" mapstructure:"username"`
	Email    string `json:"email" mapstructure:"email"`
}

type MatchConfig struct {
	DurationSeconds int    `json:"durationSeconds" mapstructure:"durationSeconds"`
	Type            string `json:"type" mapstructure:"type"`
}

type PhysicsConfig struct {
	FixedStep    float64 `json:"fixedStep" mapstructure:"fixedStep"`
	MaxSubsteps  int     `json:"maxSubsteps" mapstructure:"maxSubsteps"`
	MaxFrameTime float64 `json:"maxFrameTime" mapstructure:"maxFrameTime"`
	Gravity      float64 `json:"gravity" mapstructure:"gravity"`
}

type LoopConfig struct {
	FrameRate int `json:"frameRate" mapstructure:"frameRate"`
}

// StorageConfig holds the match result store settings
type StorageConfig struct {
	Enabled bool         `json:"enabled" mapstructure:"enabled"`
	Type    string       `json:"type" mapstructure:"type"`
	Sqlite  SqliteConfig `json:"sqlite" mapstructure:"sqlite"`
}

type SqliteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// HUDConfig holds the websocket HUD feed settings
type HUDConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("player.id", "")
	viper.SetDefault("player.username", "")
	viper.SetDefault("player.email", "")

	viper.SetDefault("match.durationSeconds", 300)
	viper.SetDefault("match.type", "1v1")

	viper.SetDefault("physics.fixedStep", 1.0/60.0)
	viper.SetDefault("physics.maxSubsteps", 10)
	viper.SetDefault("physics.maxFrameTime", 0.25)
	viper.SetDefault("physics.gravity", -20.0)

	viper.SetDefault("loop.frameRate", 60)

	viper.SetDefault("storage.enabled", true)
	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./arena.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "arena")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "arena")
	viper.SetDefault("influx.bucket", "match_results")

	viper.SetDefault("hud.enabled", false)
	viper.SetDefault("hud.address", "localhost:8090")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
// Defaults stay in effect when the file cannot be read.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Get decodes the current settings
func Get() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Match.DurationSeconds <= 0 {
		return Config{}, fmt.Errorf("match.durationSeconds must be positive, got %d", cfg.Match.DurationSeconds)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
