// Package cli implements the ersmatch command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/daypatu/ers-pymatching/pkg/buildinfo"
	"github.com/daypatu/ers-pymatching/pkg/cache"
	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "ersmatch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the
// configuration file (if any) loaded.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	return &CLI{
		Logger: logger,
		Config: LoadConfig(logger),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "ersmatch decodes quantum error correction syndromes",
		Long:         `ersmatch is a minimum-weight perfect matching decoder for quantum error correction. It pairs up detection events on a weighted detector graph, tracking which logical observables the correction flips.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a decode runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*decode.Runner, error) {
	dc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return decode.NewRunner(dc, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.Config.RedisURL)
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, falling back to file cache", "err", err)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the run archive: MongoDB when configured, otherwise a
// local file store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.MongoURL != "" {
		return store.NewMongoStore(ctx, c.Config.MongoURL, c.Config.MongoDatabase)
	}
	return store.NewFileStore("")
}

// cacheDir returns the cache directory using XDG standard (~/.cache/ersmatch/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseSyndrome parses a comma-separated detector list ("0,3,7").
func parseSyndrome(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var events []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		events = append(events, d)
	}
	return events, nil
}
