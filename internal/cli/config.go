package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config is the optional ersmatch.toml configuration file.
//
// The file is looked up in the working directory first, then in
// ~/.config/ersmatch/. All fields are optional; flags override the file.
type Config struct {
	// CacheDir overrides the decode result cache directory.
	CacheDir string `toml:"cache_dir"`

	// RedisURL enables the Redis cache backend (redis://host:port/db).
	RedisURL string `toml:"redis_url"`

	// MongoURL enables the MongoDB run archive (mongodb://host:port).
	MongoURL string `toml:"mongo_url"`

	// MongoDatabase is the database holding the run archive.
	MongoDatabase string `toml:"mongo_database"`

	// Addr is the default listen address for the serve command.
	Addr string `toml:"addr"`

	// MaxGrowth is the default growth budget for decodes. Zero means
	// unbounded.
	MaxGrowth int64 `toml:"max_growth"`
}

const configFile = "ersmatch.toml"

// LoadConfig reads the configuration file, returning defaults when no
// file exists. A file that fails to parse is reported through the
// logger and ignored.
func LoadConfig(logger *log.Logger) Config {
	cfg := defaultConfig()
	path, ok := findConfig()
	if !ok {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if logger != nil {
			logger.Warn("ignoring unreadable config file", "path", path, "err", err)
		}
		return defaultConfig()
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = appName
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg
}

func defaultConfig() Config {
	return Config{
		MongoDatabase: appName,
		Addr:          ":8080",
	}
}

func findConfig() (string, bool) {
	if _, err := os.Stat(configFile); err == nil {
		return configFile, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, ".config", appName, configFile)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}
