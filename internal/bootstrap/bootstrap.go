// Package bootstrap assembles the engine and its host from configuration. It
// is shared by the daemon and the command-line client so both open the same
// save the same way.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/config"
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice"
	"github.com/Neon681/bmt-idle-sub000/internal/game/tick"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/postgres"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/redis"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/sqlite"
)

// LoadConfig loads an optional .env file into the environment and then the
// configuration. An empty path uses defaults and IDLE_ overrides only.
func LoadConfig(path string) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("loading .env: %w", err)
	}
	if path == "" {
		return config.LoadFromViper(config.NewViper())
	}
	return config.Load(path)
}

// NewSource returns the engine's randomness source: seeded when a seed is
// configured, crypto-backed otherwise, optionally logging every draw.
func NewSource(cfg config.EngineConfig, logger *zap.Logger) dice.Source {
	var src dice.Source
	if cfg.Seed != 0 {
		src = dice.NewSeededSource(cfg.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	if cfg.AuditDice {
		src = dice.NewLoggedSource(src, logger)
	}
	return src
}

// OpenStore connects to the configured storage backend.
//
// Postcondition: the caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	start := time.Now()
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLite.Path)
	case config.BackendRedis:
		store, err = redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	case config.BackendPostgres:
		store, err = postgres.Open(ctx, cfg.Database)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Info("store opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.Duration("elapsed", time.Since(start)),
	)
	return store, nil
}

// LoadCatalog reads the content directory and logs what it holds.
func LoadCatalog(cfg config.ContentConfig, logger *zap.Logger) (*catalog.Registry, error) {
	start := time.Now()
	reg, err := catalog.LoadDir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading content from %s: %w", cfg.Dir, err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Dir),
		zap.Int("skills", len(reg.SkillIDs())),
		zap.Int("activities", len(reg.Activities())),
		zap.Int("monsters", len(reg.Monsters())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reg, nil
}

// NewGame wires a Game for the configured save.
func NewGame(cfg config.Config, reg *catalog.Registry, store storage.Store, clk clock.Clock, logger *zap.Logger) (*gameserver.Game, error) {
	machine := training.NewMachine(reg, training.Config{
		SessionDuration:      cfg.Engine.SessionDuration,
		UnarmedAttackSpeedMs: cfg.Engine.UnarmedAttackSpeedMs,
	})
	return gameserver.NewGame(gameserver.GameConfig{
		SaveName: cfg.Storage.SaveName,
		Registry: reg,
		Machine:  machine,
		Engine:   tick.NewEngine(NewSource(cfg.Engine, logger)),
		Store:    store,
		Clock:    clk,
		Logger:   logger,
	})
}
