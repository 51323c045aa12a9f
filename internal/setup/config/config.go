package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrUnknownStorageDriver  = errors.New("unknown storage driver")
	ErrMissingDiscordToken   = errors.New("bot.toml is missing discord.token")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared between the bot and the database tooling.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Retry      Retry      `koanf:"retry"`
	Storage    Storage    `koanf:"storage"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	SQLite     SQLite     `koanf:"sqlite"`
	Telemetry  Telemetry  `koanf:"telemetry"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Run pending migrations on startup.
	AutoMigrate bool `koanf:"auto_migrate"`
	// Accounts allowed to run privileged commands.
	Owners []uint64 `koanf:"owners"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
}

// OwnerIDs returns the configured owners as Discord IDs.
func (c *BotConfig) OwnerIDs() []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(c.Owners))
	for _, owner := range c.Owners {
		ids = append(ids, snowflake.ID(owner))
	}

	return ids
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log session directories to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// Retry contains storage retry configuration.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
	// Maximum total retry time in milliseconds.
	MaxElapsed int `koanf:"max_elapsed"`
}

// Storage selects the database backend.
type Storage struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `koanf:"driver"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Require TLS.
	SSL bool `koanf:"ssl"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// SQLite contains embedded database configuration.
type SQLite struct {
	// Path to the database file, or a "file:" URI.
	Path string `koanf:"path"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN. Tracing is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported with traces.
	ServiceName string `koanf:"service_name"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
}

// DefaultPaths lists the directories searched for config files.
func DefaultPaths() []string {
	paths := []string{".unbanmanager"}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, homeDir+"/.unbanmanager/config")
	}

	return append(paths,
		"/etc/unbanmanager/config",
		"/app/config",
		"config",
		".",
	)
}

// LoadConfig loads the configuration from the default search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	return LoadConfigFrom(DefaultPaths())
}

// LoadConfigFrom loads common.toml and bot.toml from the first path containing each.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	for _, configName := range []string{"common", "bot"} {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	if err := config.normalize(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// normalize fills defaults and validates values that cannot be defaulted.
func (c *Config) normalize() error {
	driver := strings.ToLower(strings.TrimSpace(c.Common.Storage.Driver))
	switch driver {
	case "", DriverPostgres, "postgresql":
		c.Common.Storage.Driver = DriverPostgres
	case DriverSQLite:
		c.Common.Storage.Driver = DriverSQLite
		if c.Common.SQLite.Path == "" {
			c.Common.SQLite.Path = "unbanmanager.db"
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Common.Storage.Driver)
	}

	if c.Common.Debug.LogLevel == "" {
		c.Common.Debug.LogLevel = "info"
	}

	if c.Common.Telemetry.ServiceName == "" {
		c.Common.Telemetry.ServiceName = "unbanmanager"
	}

	if c.Bot.RequestTimeout <= 0 {
		c.Bot.RequestTimeout = 10000
	}

	return nil
}

// Validate checks the settings required to connect to Discord.
func (c *BotConfig) Validate() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return ErrMissingDiscordToken
	}

	return nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/unbanmanager/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
