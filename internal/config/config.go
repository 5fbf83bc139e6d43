package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Env                  string
	ServiceBaseURL       string
	ServiceAuthKey       string
	SourceLanguage       string
	TargetLanguages      []string
	ContentType          string
	Formality            string
	GlossaryID           string
	ChunkBytes           int
	ChunkIntervalMS      int
	ReconnectDisabled    bool
	MaxReconnectAttempts int
	FinalizeTimeoutSec   int
	DatabaseURL          string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if len(c.TargetLanguages) == 0 {
		return fmt.Errorf("TARGET_LANGUAGES is required")
	}
	for _, lang := range c.TargetLanguages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("TARGET_LANGUAGES contains an empty entry")
		}
	}
	if c.ChunkBytes <= 0 {
		return fmt.Errorf("CHUNK_BYTES must be positive, got %d", c.ChunkBytes)
	}
	if c.ChunkIntervalMS < 0 {
		return fmt.Errorf("CHUNK_INTERVAL_MS must not be negative, got %d", c.ChunkIntervalMS)
	}
	if c.MaxReconnectAttempts < 0 {
		return fmt.Errorf("MAX_RECONNECT_ATTEMPTS must not be negative, got %d", c.MaxReconnectAttempts)
	}
	if c.FinalizeTimeoutSec < 0 {
		return fmt.Errorf("FINALIZE_TIMEOUT_SEC must not be negative, got %d", c.FinalizeTimeoutSec)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "SERVICE_BASE_URL", value: c.ServiceBaseURL},
		{name: "SERVICE_AUTH_KEY", value: c.ServiceAuthKey},
		{name: "CONTENT_TYPE", value: c.ContentType},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
