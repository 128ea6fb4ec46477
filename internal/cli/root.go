// Package cli is the command-line front end. It plays the part of the user
// interface: it collects input, calls the services and the backup engine, and
// renders results.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/mmynk/salonbook/internal/backup"
	"github.com/mmynk/salonbook/internal/config"
	"github.com/mmynk/salonbook/internal/service"
	"github.com/mmynk/salonbook/internal/storage/sqlite"
	"github.com/mmynk/salonbook/pkg/logging"
)

// app holds everything a command needs. It is populated by open before any
// command runs and released by shutdown.
type app struct {
	stderr io.Writer

	cfgPath     string
	dbPath      string
	backupDir   string
	dumpMetrics bool

	cfg      *config.Config
	store    *sqlite.SQLiteStore
	registry *prometheus.Registry
	clients  *service.ClientService
	history  *service.HistoryService
	company  *service.CompanyService
	engine   *backup.Engine
}

// Execute runs the CLI with the process arguments and exits non-zero on error.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	defer a.shutdown()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salonbook",
		Short: "Client and service-history records for a small business",
		Long: `salonbook keeps clients, the services done for them and the business
profile in a local SQLite database, and backs everything up to CSV.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.dumpMetrics {
				return a.writeMetrics(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	flags.StringVar(&a.dbPath, "db", "", "database file (overrides config)")
	flags.StringVar(&a.backupDir, "backup-dir", "", "backup directory (overrides config)")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "print metrics to stderr after the command")

	root.AddCommand(
		a.clientCmd(),
		a.historyCmd(),
		a.companyCmd(),
		a.backupCmd(),
		a.restoreCmd(),
	)
	return root
}

// open loads configuration, sets up logging and opens the store.
func (a *app) open() error {
	cfg, err := config.Load(a.cfgPath, ".env")
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.backupDir != "" {
		cfg.BackupDir = a.backupDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(a.stderr, logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	a.store = store
	slog.Debug("Storage initialized", "database", cfg.DBPath)

	a.registry = prometheus.NewRegistry()
	a.clients = service.NewClientService(store)
	a.history = service.NewHistoryService(store)
	a.company = service.NewCompanyService(store)
	if _, err := a.company.Load(rootContext()); err != nil {
		return err
	}

	opts := []backup.Option{backup.WithMetrics(backup.NewMetrics(a.registry))}
	if fields := strings.Fields(cfg.ShareCommand); len(fields) > 0 {
		opts = append(opts, backup.WithSharer(backup.CommandSharer{Name: fields[0], Args: fields[1:]}))
	}
	a.engine = backup.New(store, backup.DirWriter{Dir: cfg.BackupDir}, opts...)

	return nil
}

func (a *app) shutdown() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}

// writeMetrics dumps the registry in the Prometheus text format.
func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
