package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Game     GameConfig     `yaml:"game"`

	path string // where the config was loaded from, for Save
}

// ServerConfig holds the game server process and HTTP API settings
type ServerConfig struct {
	Jar          string        `yaml:"jar"`
	ListenAddr   string        `yaml:"listen_addr"`
	HTTPPort     int           `yaml:"http_port"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// GameConfig holds the UHC rules. The fields marked runtime-mutable can be
// changed by operator chat commands and written back with Save.
type GameConfig struct {
	CentreX             int            `yaml:"x"`                  // runtime-mutable (!x)
	CentreZ             int            `yaml:"z"`                  // runtime-mutable (!z)
	MinuteMarker        int            `yaml:"minutemarker"`       // runtime-mutable (!minutes)
	TeamSize            int            `yaml:"playersperteam"`     // runtime-mutable (!teamsize)
	RevealNames         int            `yaml:"revealnames"`        // runtime-mutable (!revealnames)
	DisconnectGraceSecs int            `yaml:"disconnectgrace"`
	Eternal             EternalConfig  `yaml:"eternal"`     // runtime-mutable (!eternal)
	WorldBorder         BorderConfig   `yaml:"worldborder"` // runtime-mutable pre-match (!border)
	Ops                 []string       `yaml:"ops"`
	TeamNames           []string       `yaml:"teamnames"`
}

// EternalConfig controls the permanent day/night cutover
type EternalConfig struct {
	Mode      string `yaml:"mode"`      // "day", "night" or "off"
	TimeBegin int    `yaml:"timebegin"` // minutes after match start
}

// BorderConfig controls the progressive world border shrink.
// Start greater than Finish is the usual shrink; the reverse (a growing
// border) is also legal. Duration must not be negative.
type BorderConfig struct {
	Start     int `yaml:"start"`     // starting width in blocks
	Finish    int `yaml:"finish"`    // final width in blocks
	TimeBegin int `yaml:"timebegin"` // minutes after match start before moving
	Duration  int `yaml:"duration"`  // minutes taken to reach the final width
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.path = path

	// Set defaults
	if cfg.Server.Jar == "" {
		cfg.Server.Jar = "server.jar"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1"
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.TickInterval == 0 {
		cfg.Server.TickInterval = time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "uhcd.db"
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = 24 * time.Hour
	}
	if cfg.Game.MinuteMarker == 0 {
		cfg.Game.MinuteMarker = 10
	}
	if cfg.Game.TeamSize == 0 {
		cfg.Game.TeamSize = 2
	}
	if cfg.Game.RevealNames == 0 {
		cfg.Game.RevealNames = 30
	}
	if cfg.Game.DisconnectGraceSecs == 0 {
		cfg.Game.DisconnectGraceSecs = 120
	}
	if cfg.Game.Eternal.Mode == "" {
		cfg.Game.Eternal.Mode = "off"
	}
	if cfg.Game.Eternal.TimeBegin == 0 {
		cfg.Game.Eternal.TimeBegin = 120
	}
	if cfg.Game.WorldBorder.Start == 0 {
		cfg.Game.WorldBorder.Start = 1000
	}
	if cfg.Game.WorldBorder.Finish == 0 {
		cfg.Game.WorldBorder.Finish = 100
	}
	if cfg.Game.WorldBorder.TimeBegin == 0 {
		cfg.Game.WorldBorder.TimeBegin = 60
	}
	if cfg.Game.WorldBorder.Duration == 0 {
		cfg.Game.WorldBorder.Duration = 30
	}
	if len(cfg.Game.TeamNames) == 0 {
		cfg.Game.TeamNames = defaultTeamNames()
	}

	return &cfg, nil
}

// Save writes the configuration back to the file it was loaded from.
// Called on the operator's explicit !save command.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no backing file")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// defaultTeamNames is the fallback name pool, one name per possible team
func defaultTeamNames() []string {
	return []string{
		"Aardvarks", "Bears", "Cheetahs", "Dingoes", "Eagles",
		"Ferrets", "Geckos", "Hyenas", "Iguanas", "Jackals",
		"Krakens", "Lemurs", "Mantises", "Narwhals", "Ocelots",
	}
}
