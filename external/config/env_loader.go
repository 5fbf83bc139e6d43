package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/honyakun/internal/config"
)

type envConfig struct {
	Env                  string   `env:"ENV" envDefault:"production"`
	ServiceBaseURL       string   `env:"SERVICE_BASE_URL,required"`
	ServiceAuthKey       string   `env:"SERVICE_AUTH_KEY,required"`
	SourceLanguage       string   `env:"SOURCE_LANGUAGE"`
	TargetLanguages      []string `env:"TARGET_LANGUAGES,required" envSeparator:","`
	ContentType          string   `env:"CONTENT_TYPE" envDefault:"audio/pcm"`
	Formality            string   `env:"FORMALITY"`
	GlossaryID           string   `env:"GLOSSARY_ID"`
	ChunkBytes           int      `env:"CHUNK_BYTES" envDefault:"6400"`
	ChunkIntervalMS      int      `env:"CHUNK_INTERVAL_MS" envDefault:"200"`
	ReconnectDisabled    bool     `env:"RECONNECT_DISABLED" envDefault:"false"`
	MaxReconnectAttempts int      `env:"MAX_RECONNECT_ATTEMPTS" envDefault:"3"`
	FinalizeTimeoutSec   int      `env:"FINALIZE_TIMEOUT_SEC" envDefault:"0"`
	DatabaseURL          string   `env:"DATABASE_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		ServiceBaseURL:       raw.ServiceBaseURL,
		ServiceAuthKey:       raw.ServiceAuthKey,
		SourceLanguage:       raw.SourceLanguage,
		TargetLanguages:      raw.TargetLanguages,
		ContentType:          raw.ContentType,
		Formality:            raw.Formality,
		GlossaryID:           raw.GlossaryID,
		ChunkBytes:           raw.ChunkBytes,
		ChunkIntervalMS:      raw.ChunkIntervalMS,
		ReconnectDisabled:    raw.ReconnectDisabled,
		MaxReconnectAttempts: raw.MaxReconnectAttempts,
		FinalizeTimeoutSec:   raw.FinalizeTimeoutSec,
		DatabaseURL:          raw.DatabaseURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
