package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/bootstrap"
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/tick"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
	"github.com/Neon681/bmt-idle-sub000/internal/observability"
	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

const timeout = 30 * time.Second

// session is an opened save for the lifetime of one command.
type session struct {
	reg  *catalog.Registry
	game *gameserver.Game
}

func openSession(ctx context.Context) (*session, *tick.Result, func(), error) {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := zap.NewNop()
	if verbose {
		if logger, err = observability.NewLogger(cfg.Logging, "idlectl"); err != nil {
			return nil, nil, nil, err
		}
	}
	reg, err := bootstrap.LoadCatalog(cfg.Content, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = store.Close()
		_ = logger.Sync()
	}
	game, err := bootstrap.NewGame(cfg, reg, store, clock.New(), logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	res, err := game.Load(ctx)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return &session{reg: reg, game: game}, &res, cleanup, nil
}

// withSession runs fn against the opened save and prints the resulting status.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	s, res, cleanup, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	out := cmd.OutOrStdout()
	renderEvents(out, res.Events)
	if err := fn(ctx, s); err != nil {
		return err
	}
	snap, err := s.game.Snapshot()
	if err != nil {
		return err
	}
	renderStatus(out, snap, s.reg)
	return nil
}

var newForce bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a fresh character, replacing the save with --force",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		cfg, err := bootstrap.LoadConfig(configPath)
		if err != nil {
			return err
		}
		store, err := bootstrap.OpenStore(ctx, cfg, zap.NewNop())
		if err != nil {
			return err
		}
		existing, err := store.Load(ctx, cfg.Storage.SaveName)
		switch {
		case err == nil && !newForce:
			_ = store.Close()
			return fmt.Errorf("save %q already exists (created %s); use --force to replace it",
				existing.Name, existing.State.Character.CreatedAt.Format(time.RFC3339))
		case err == nil:
			if err := store.Delete(ctx, cfg.Storage.SaveName); err != nil {
				_ = store.Close()
				return err
			}
		case !errors.Is(err, storage.ErrSaveNotFound):
			_ = store.Close()
			return err
		}
		if err := store.Close(); err != nil {
			return err
		}
		return withSession(cmd, func(context.Context, *session) error { return nil })
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show skills, inventory and the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(context.Context, *session) error { return nil })
	},
}

var catchupCmd = &cobra.Command{
	Use:   "catchup",
	Short: "Credit offline progress and report what happened",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		_, res, cleanup, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		out := cmd.OutOrStdout()
		renderEvents(out, res.Events)
		fmt.Fprintf(out, "actions: %d  player attacks: %d  monster attacks: %d\n",
			res.Actions, res.PlayerAttacks, res.MonsterAttacks)
		return nil
	},
}

var xpTableMax int

var xpTableCmd = &cobra.Command{
	Use:   "xp-table",
	Short: "Print the experience required for each level",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if xpTableMax < 2 {
			return fmt.Errorf("--max must be at least 2")
		}
		renderXPTable(cmd.OutOrStdout(), xpTableMax)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start [activity-id]",
	Short: "Begin a gathering activity",
	Long: `Begin a gathering activity, cancelling the current session.

  Example: start chop_tree`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			_, err := s.game.StartActivity(ctx, args[0])
			return err
		})
	},
}

var fightCmd = &cobra.Command{
	Use:   "fight [monster-id]",
	Short: "Begin combat against a monster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			_, err := s.game.StartCombat(ctx, args[0])
			return err
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Stop the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			stopped, err := s.game.Cancel(ctx)
			if err == nil && !stopped {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to cancel")
			}
			return err
		})
	},
}

func init() {
	newCmd.Flags().BoolVar(&newForce, "force", false, "replace an existing save")
	xpTableCmd.Flags().IntVar(&xpTableMax, "max", 99, "highest level to print")
}
