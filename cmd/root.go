package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/cadence/internal/config"
	"github.com/abhisek/cadence/internal/logging"
	"github.com/abhisek/cadence/internal/metrics"
	"github.com/abhisek/cadence/internal/session"
	"github.com/abhisek/cadence/internal/store"
	"github.com/abhisek/cadence/internal/terms"
	"github.com/abhisek/cadence/internal/ui/theme"
)

// app carries the state shared by every command of one invocation.
type app struct {
	viper   *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// kv is opened on first use; tests may set it up front.
	kv       store.KV
	terms    *terms.Service
	sessions *session.Manager
}

func newApp() *app {
	return &app{
		viper:   config.New(),
		logger:  slog.Default(),
		metrics: metrics.New(),
		now:     time.Now,
	}
}

func Execute() error {
	return newRootCmd(newApp()).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Spaced repetition and interleaved practice scheduler",
		Long:          "Cadence schedules reviews of study terms with spaced repetition and mixes topics into interleaved practice sessions.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/cadence/config.yaml)")
	pf.String("db", "", "Database path or DSN (overrides CADENCE_DB env var)")
	pf.String("driver", "", "Store driver: sqlite, postgres, redis or memory")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("metrics", false, "Print Prometheus metrics to stderr after the command")
	pf.Bool("no-color", false, "Disable styled output")

	root.AddCommand(
		newTermCmd(a),
		newDueCmd(a),
		newPlanCmd(a),
		newSessionCmd(a),
		newStatsCmd(a),
		newSettingsCmd(a),
		newResetCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.viper, cmd.Flags()); err != nil {
		return err
	}
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(a.viper, file)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.Setup(cmd.ErrOrStderr(), logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	a.logger = logger

	noColor, _ := cmd.Flags().GetBool("no-color")
	theme.Enabled = !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(cmd.OutOrStdout())
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if dump, _ := cmd.Flags().GetBool("metrics"); dump {
		if err := a.metrics.WriteText(cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}

// services opens the store and builds the term service and session manager.
func (a *app) services(ctx context.Context) error {
	if a.sessions != nil {
		return nil
	}
	if a.kv == nil {
		kv, err := openStore(ctx, a.cfg)
		if err != nil {
			return err
		}
		a.kv = kv
	}
	a.terms = terms.NewService(a.kv,
		terms.WithLogger(a.logger),
		terms.WithMetrics(a.metrics),
		terms.WithClock(a.now),
	)
	a.sessions = session.NewManager(ctx, a.kv,
		session.WithLogger(a.logger),
		session.WithMetrics(a.metrics),
		session.WithClock(a.now),
	)
	return nil
}

// openStore opens the backend selected by cfg.
func openStore(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil
	case config.DriverRedis:
		rc := store.DefaultRedisConfig()
		rc.Addr = cfg.Redis.Addr
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		rc.KeyPrefix = cfg.Redis.Prefix
		kv, err := store.OpenRedis(ctx, rc)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return kv, nil
	case config.DriverPostgres:
		kv, err := store.Open(ctx, store.DriverPostgres, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return kv, nil
	default:
		path, err := resolveDBPath(cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		kv, err := store.Open(ctx, store.DriverSQLite, path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return kv, nil
	}
}

// resolveDBPath returns the database path using --db / store.dsn (highest
// priority), then CADENCE_DB env var, then the default XDG path.
func resolveDBPath(dsn string) (string, error) {
	if dsn != "" {
		return dsn, store.EnsureDir(dsn)
	}
	return store.DefaultDBPath()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
