package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modelcheck/internal/app"
	"modelcheck/internal/config"
	"modelcheck/internal/report"
	"modelcheck/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./modelcheck.toml", "Path to config file")
	once       = flag.Bool("once", false, "Analyze once and exit")
	watch      = flag.Bool("watch", false, "Re-analyze on source changes")
	tsv        = flag.Bool("tsv", false, "Emit injected symbols as TSV instead of the styled report")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("modelcheck v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./modelcheck.toml" {
			cfg, err = config.Load("./modelcheck.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.Paths.ProjectRoot = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, "modelcheck")
		if err != nil {
			slog.Warn("failed to set up tracing", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					slog.Warn("trace shutdown failed", "error", err)
				}
			}()
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Observability.MetricsAddr != "" {
		srv := app.NewObservabilityServer(cfg.Observability.MetricsAddr, a)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	summary, err := a.Analyze(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	printSummary(summary)

	if *watch && !*once {
		if err := a.Watch(ctx, printSummary); err != nil && ctx.Err() == nil {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if summary.Errors > 0 {
		os.Exit(1)
	}
}

func printSummary(summary *report.Summary) {
	var (
		out string
		err error
	)
	if *tsv {
		out, err = report.NewTSVGenerator(summary).Generate()
	} else {
		out, err = report.NewConsoleGenerator(summary).Generate()
	}
	if err != nil {
		slog.Error("failed to render report", "error", err)
		return
	}
	fmt.Print(out)
}
