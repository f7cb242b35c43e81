// Package root contains the root command and the shared wiring helpers the
// subcommands build on.
package root

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/msg-ledger/internal/allocation"
	"fjacquet/msg-ledger/internal/balance"
	"fjacquet/msg-ledger/internal/classify"
	"fjacquet/msg-ledger/internal/config"
	"fjacquet/msg-ledger/internal/ledger"
	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/parser"
	"fjacquet/msg-ledger/internal/store"
)

var (
	// Cfg is the loaded configuration, available after PersistentPreRun.
	Cfg *config.Config

	// Log is the shared logger instance for commands.
	Log logging.Logger

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "msg-ledger",
		Short: "Turn chat-style money messages into a structured ledger.",
		Long: `msg-ledger parses free-form messages like "food 499 swiggy" or
"room 300 paidby:roommate other:vyas split:equal" into persisted expenses,
peer debts and ledger entries, and answers balance queries over them.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to msg-ledger!")
			Log.Info("Use --help to see available commands")
		},
	}
)

// Init installs the configuration and logging hooks on the root command.
func Init() {
	Cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		Cfg = cfg
		Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
		return nil
	}
}

// NewParser builds the message parser from the loaded configuration.
func NewParser() (*parser.Parser, error) {
	classifier := classify.NewClassifier()
	if Cfg.Categories.File != "" {
		var err error
		classifier, err = classify.NewClassifierFromFile(Cfg.Categories.File)
		if err != nil {
			return nil, err
		}
	}
	return parser.New(time.Now, classifier, Log), nil
}

// OpenStore returns the configured store: Postgres when a DSN is set,
// otherwise a process-local in-memory store. The returned closer is always
// safe to call.
func OpenStore(ctx context.Context) (store.Store, func(), error) {
	if Cfg.Database.DSN == "" {
		Log.Warn("No database DSN configured, records will not outlive this process")
		return store.NewMemory(), func() {}, nil
	}

	pg, err := store.NewPostgres(Cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Init(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return pg, func() { _ = pg.Close() }, nil
}

// NewService wires the allocation engine and optional AI category fallback
// into a ledger service over the given store.
func NewService(ctx context.Context, st store.Store) (*ledger.Service, error) {
	engine := allocation.New(Cfg.Split.DefaultParty, Log)
	svc := ledger.NewService(st, engine, time.Now, Cfg.Currency.Default, Log)

	if Cfg.AI.Enabled {
		strategy, err := classify.NewGeminiStrategy(ctx, Cfg.AI.APIKey, Cfg.AI.Model, classify.NewClassifier().Categories(), Log)
		if err != nil {
			return nil, err
		}
		svc = svc.WithCategoryFallback(strategy)
	}

	return svc, nil
}

// NewAggregator builds the balance aggregator over the given store.
func NewAggregator(st store.Store) *balance.Aggregator {
	return balance.New(st, Log)
}
