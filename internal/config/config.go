package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeySearchURL = "openlibrary.search_url"
	KeyDetailURL = "openlibrary.detail_url"
	KeyTimeout   = "openlibrary.timeout"
	KeyRateLimit = "openlibrary.rate_limit"
	KeyUserAgent = "openlibrary.user_agent"
	KeyLogLevel  = "log.level"
	KeyLogFile   = "log.file"
)

// Defaults for the Open Library endpoints and client behaviour
const (
	DefaultSearchURL = "https://openlibrary.org/search.json"
	DefaultDetailURL = "https://openlibrary.org/api/books"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 3.0
	DefaultUserAgent = "bookshelf (+https://github.com/lepinkainen/bookshelf)"
	DefaultLogLevel  = "info"
	DefaultLogFile   = "bookshelf.log"

	envPrefix = "BOOKSHELF"
)

// Settings is the resolved configuration used by the commands.
type Settings struct {
	SearchURL string
	DetailURL string
	Timeout   time.Duration
	RateLimit float64
	UserAgent string
	LogLevel  string
	LogFile   string
}

// SetDefaults registers every default with viper.
func SetDefaults() {
	viper.SetDefault(KeySearchURL, DefaultSearchURL)
	viper.SetDefault(KeyDetailURL, DefaultDetailURL)
	viper.SetDefault(KeyTimeout, DefaultTimeout)
	viper.SetDefault(KeyRateLimit, DefaultRateLimit)
	viper.SetDefault(KeyUserAgent, DefaultUserAgent)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyLogFile, DefaultLogFile)
}

// InitConfig wires defaults, .env, environment variables and an optional config file.
// An explicit configFile must exist; the implicit ./config.yaml may be missing.
func InitConfig(configFile string) error {
	// .env is optional; values already present in the environment win
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	SetDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configFile == "" {
			slog.Debug("Config file not found, using defaults")
			return nil
		}
		return err
	}

	slog.Debug("Loaded config file", "path", viper.ConfigFileUsed())
	return nil
}

// Load returns the current settings from viper.
func Load() Settings {
	return Settings{
		SearchURL: viper.GetString(KeySearchURL),
		DetailURL: viper.GetString(KeyDetailURL),
		Timeout:   viper.GetDuration(KeyTimeout),
		RateLimit: viper.GetFloat64(KeyRateLimit),
		UserAgent: viper.GetString(KeyUserAgent),
		LogLevel:  viper.GetString(KeyLogLevel),
		LogFile:   viper.GetString(KeyLogFile),
	}
}

// ParseLogLevel maps a level name to slog.Level, defaulting to info.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
