package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/honyakun/external/config"
	controlimpl "github.com/foxseedlab/honyakun/external/control"
	repositoryimpl "github.com/foxseedlab/honyakun/external/repository"
	transportimpl "github.com/foxseedlab/honyakun/external/transport"
	"github.com/foxseedlab/honyakun/internal/config"
	"github.com/foxseedlab/honyakun/internal/session"
	"github.com/foxseedlab/honyakun/internal/transcript"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: honyakun <audio-file|->")
		os.Exit(2)
	}
	input := os.Args[1]

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	result, err := runSession(cfg, injector, input)
	if err != nil {
		slog.Error("streaming session failed", "error", err)
		os.Exit(1)
	}
	printResult(result)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	controlimpl.RegisterDI(injector)
	transportimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func buildOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.SourceLanguage = cfg.SourceLanguage
	opts.TargetLanguages = cfg.TargetLanguages
	opts.ContentType = cfg.ContentType
	opts.Formality = cfg.Formality
	opts.GlossaryID = cfg.GlossaryID
	opts.ChunkBytes = cfg.ChunkBytes
	opts.ChunkInterval = time.Duration(cfg.ChunkIntervalMS) * time.Millisecond
	opts.DisableReconnect = cfg.ReconnectDisabled
	opts.MaxReconnectAttempts = cfg.MaxReconnectAttempts
	opts.FinalizeTimeout = time.Duration(cfg.FinalizeTimeoutSec) * time.Second
	return opts
}

func runSession(cfg *config.Config, injector do.Injector, input string) (*transcript.SessionResult, error) {
	streamer, err := do.Invoke[*session.Streamer](injector)
	if err != nil {
		slog.Error("failed to resolve streamer", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := &session.Observers{
		OnSourceTranscript: func(u session.TranscriptUpdate) {
			slog.Info("source transcript", "text", u.Text, "tentative", u.Tentative)
		},
		OnTargetTranscript: func(language string, u session.TranscriptUpdate) {
			slog.Info("target transcript", "language", language, "text", u.Text, "tentative", u.Tentative)
		},
		OnEndOfSourceTranscript: func() {
			slog.Info("source transcript finished")
		},
		OnEndOfTargetTranscript: func(language string) {
			slog.Info("target transcript finished", "language", language)
		},
		OnReconnecting: func(attempt int) {
			slog.Warn("reconnecting", "attempt", attempt)
		},
	}

	opts := buildOptions(cfg)
	if input == "-" {
		return streamer.StreamReader(ctx, os.Stdin, opts, obs)
	}
	return streamer.StreamFile(ctx, input, opts, obs)
}

func printResult(result *transcript.SessionResult) {
	fmt.Printf("session %s\n", result.SessionID)
	fmt.Printf("[%s] %s\n", result.Source.Language, result.Source.Text)
	for _, line := range result.Targets {
		fmt.Printf("[%s] %s\n", line.Language, line.Text)
	}
}
