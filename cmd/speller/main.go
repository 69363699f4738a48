package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/NivBraz/speller/internal/app"
	"github.com/NivBraz/speller/internal/config"
	"github.com/NivBraz/speller/internal/metrics"
)

var CLI struct {
	Config     string   `short:"c" help:"Configuration file path (optional)" env:"SPELLER_CONFIG"`
	Dictionary string   `short:"d" help:"Dictionary word list, file path or http(s) URL"`
	Format     string   `short:"f" help:"Output format (text or json)"`
	Verbose    bool     `short:"v" help:"Enable verbose logging"`
	Texts      []string `arg:"" optional:"" help:"Texts to spell-check, file paths or http(s) URLs"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("speller"),
		kong.Description("Spell-check texts against a dictionary word list."),
	)

	// Load configuration
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if CLI.Dictionary != "" {
		cfg.Dictionary.Location = CLI.Dictionary
	}
	if CLI.Format != "" {
		cfg.Output.Format = CLI.Format
	}
	if CLI.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	texts := append(cfg.TextLocations, CLI.Texts...)
	if len(texts) == 0 {
		logger.Warn("No texts given, only loading the dictionary")
	}

	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		promRecorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = promRecorder
	}

	application, err := app.New(ctx, cfg, app.WithRecorder(recorder), app.WithLogger(logger))
	if err != nil {
		logger.Error("Could not load dictionary", "error", err)
		os.Exit(1)
	}

	results, runErr := application.Run(ctx, texts)
	if runErr != nil {
		logger.Error("Errors occurred during the run", "error", runErr)
	}

	unload := application.Close()
	results.Stats.TimeUnload = unload.Seconds()
	results.Stats.TimeTotal += unload.Seconds()

	if promRecorder != nil {
		if err := promRecorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("Failed to write metrics", "error", err)
		}
	}

	switch cfg.Output.Format {
	case "json":
		var output []byte
		if cfg.Output.PrettyPrint {
			output, err = json.MarshalIndent(results, "", "    ")
		} else {
			output, err = json.Marshal(results)
		}
		if err != nil {
			logger.Error("Failed to marshal results", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(output))
	default:
		writeReport(os.Stdout, results)
	}

	if runErr != nil {
		os.Exit(2)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
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
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
