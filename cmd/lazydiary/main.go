package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Joseda-hg/lazydiary/internal/config"
	"github.com/Joseda-hg/lazydiary/internal/db"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/Joseda-hg/lazydiary/internal/observability"
	"github.com/Joseda-hg/lazydiary/internal/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	dbPath     string
	diaryID    int64
	port       int
	web        bool
}

// app is everything a subcommand needs once config is resolved.
type app struct {
	cfg     config.Config
	cfgPath string
	logger  *slog.Logger

	store    *db.Store
	engine   *journal.Engine
	metrics  *observability.Metrics
	registry *prometheus.Registry

	closers []func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := execute(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line in args and releases whatever the command
// opened, whether it succeeded or not. cobra skips post-run hooks on error,
// so closing happens here.
func execute(ctx context.Context, args []string) (*app, error) {
	root, appFn := newRootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	a := appFn()
	if a != nil {
		a.close()
	}
	return a, err
}

func newRootCommand() (*cobra.Command, func() *app) {
	f := &flags{}
	var a *app

	root := &cobra.Command{
		Use:           "lazydiary",
		Short:         "A diary of daily pages whose open tasks carry forward.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd, f)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a, f)
		},
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "sqlite db path")
	root.PersistentFlags().Int64Var(&f.diaryID, "diary", 0, "diary id (defaults to default_diary from config)")
	root.PersistentFlags().IntVar(&f.port, "port", 0, "web server port")
	root.Flags().BoolVar(&f.web, "web", false, "also serve the web API while the TUI runs")

	appFn := func() *app { return a }
	root.AddCommand(
		newServeCommand(appFn),
		newDiaryCommand(appFn),
		newNoteCommand(appFn, f),
		newPageCommand(appFn, f),
		newTaskCommand(appFn, f),
	)
	return root, appFn
}

func newApp(cmd *cobra.Command, f *flags) (*app, error) {
	cfgPath := f.configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath(cfgPath)
	}
	if f.port != 0 {
		cfg.WebPort = f.port
	}
	if f.web {
		cfg.WebEnabled = true
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, cfgPath: cfgPath}

	// The TUI owns the terminal, so it only logs when the web server runs
	// and then to a file.
	isTUI := cmd == cmd.Root()
	if isTUI {
		a.logger, err = a.fileLogger()
		if err != nil {
			return nil, err
		}
	} else {
		a.logger = newLogger(os.Stderr, cfg)
	}

	if cfg.Tracing {
		traceFile, err := os.OpenFile(filepath.Join(filepath.Dir(cfgPath), "traces.json"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		shutdown, err := observability.InitTracer(traceFile)
		if err != nil {
			_ = traceFile.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() {
			shutdown(context.Background())
			_ = traceFile.Close()
		})
	}

	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = sqlDB.Close() })

	a.registry = prometheus.NewRegistry()
	a.metrics = observability.NewMetrics(a.registry)
	a.store = db.NewStore(sqlDB)
	a.engine = journal.New(a.store,
		journal.WithLogger(a.logger),
		journal.WithMetrics(a.metrics))
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) fileLogger() (*slog.Logger, error) {
	if !a.cfg.WebEnabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(a.cfgPath), "lazydiary.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = logFile.Close() })
	return newLogger(logFile, a.cfg), nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// diaryID resolves the diary a command works on: --diary, then
// default_diary from config.
func (a *app) diaryID(f *flags) (int64, error) {
	if f.diaryID != 0 {
		return f.diaryID, nil
	}
	if a.cfg.DefaultDiary != 0 {
		return a.cfg.DefaultDiary, nil
	}
	return 0, errors.New("no diary selected: pass --diary or run `lazydiary diary create <owner>`")
}

// tuiDiary picks the diary for the TUI, creating one for the current user
// on first run and remembering it as default_diary.
func (a *app) tuiDiary(ctx context.Context, f *flags) (int64, error) {
	if id, err := a.diaryID(f); err == nil {
		return id, nil
	}

	diaries, err := a.store.ListDiaries(ctx)
	if err != nil {
		return 0, err
	}
	var diary model.Diary
	if len(diaries) > 0 {
		diary = diaries[0]
	} else {
		owner := os.Getenv("USER")
		if owner == "" {
			owner = "me"
		}
		diary, err = a.store.CreateDiary(ctx, owner)
		if err != nil {
			return 0, err
		}
	}

	a.cfg.DefaultDiary = diary.ID
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		return 0, err
	}
	return diary.ID, nil
}

func runTUI(ctx context.Context, a *app, f *flags) error {
	diaryID, err := a.tuiDiary(ctx, f)
	if err != nil {
		return err
	}

	if a.cfg.WebEnabled {
		srv := a.httpServer()
		go func() {
			a.logger.Info("web server running", "addr", "http://localhost"+srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !isServerClosed(err) {
				a.logger.Error("web server error", "error", err)
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	if err := tui.Run(a.store, a.engine, diaryID); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
