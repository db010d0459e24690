package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"workq/internal/config"
	"workq/internal/logging"
	"workq/internal/queue"
)

type commandContext struct {
	configFlag *string
	dbFlag     *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, dbFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dbFlag:     dbFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dbFlag != nil && strings.TrimSpace(*c.dbFlag) != "" {
			dbPath, err := config.ExpandPath(*c.dbFlag)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.DatabasePath = dbPath
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// ensureLogger builds the CLI logger once. Logs go to stderr so stdout
// stays reserved for data.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withStore(fn func(*queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg, c.ensureLogger())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// resolveWorker returns the explicitly-passed worker id, or the persisted
// per-host default when the command was invoked without one.
func (c *commandContext) resolveWorker(cmd *cobra.Command, positional []string) (string, error) {
	if len(positional) > 0 && strings.TrimSpace(positional[0]) != "" {
		return positional[0], nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	worker, err := config.EnsureWorkerID(cfg, c.configPath)
	if err != nil {
		// The generated id is still usable for this invocation.
		c.ensureLogger().Warn("could not persist generated worker id", "error", err)
	}
	return worker, nil
}
