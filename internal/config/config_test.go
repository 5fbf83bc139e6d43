package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                  "development",
		ServiceBaseURL:       "https://api.example.com",
		ServiceAuthKey:       "key",
		TargetLanguages:      []string{"ja", "de"},
		ContentType:          "audio/pcm",
		ChunkBytes:           6400,
		ChunkIntervalMS:      200,
		MaxReconnectAttempts: 3,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when required fields are missing")
	}
}

func TestValidate_NoTargetLanguages(t *testing.T) {
	cfg := validConfig()
	cfg.TargetLanguages = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty target languages")
	}
}

func TestValidate_EmptyTargetLanguageEntry(t *testing.T) {
	cfg := validConfig()
	cfg.TargetLanguages = []string{"ja", " "}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank target language entry")
	}
}

func TestValidate_InvalidChunkBytes(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive chunk bytes")
	}
}

func TestValidate_NegativeInterval(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkIntervalMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative chunk interval")
	}
}

func TestValidate_NegativeMaxReconnectAttempts(t *testing.T) {
	cfg := validConfig()
	cfg.MaxReconnectAttempts = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative reconnect attempts")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}
