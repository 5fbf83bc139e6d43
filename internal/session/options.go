package session

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultChunkBytes           = 6400
	DefaultChunkInterval        = 200 * time.Millisecond
	DefaultMaxReconnectAttempts = 3

	maxTargetLanguages = 5
)

var supportedContentTypes = map[string]struct{}{
	"audio/pcm":  {},
	"audio/wav":  {},
	"audio/ogg":  {},
	"audio/mpeg": {},
}

var supportedFormalities = map[string]struct{}{
	"default": {},
	"more":    {},
	"less":    {},
}

// Options configures one streaming session. The zero value is not usable;
// start from DefaultOptions. A ChunkInterval of 0 sends chunks back-to-back.
type Options struct {
	SourceLanguage       string
	TargetLanguages      []string
	ContentType          string
	Formality            string
	GlossaryID           string
	ChunkBytes           int
	ChunkInterval        time.Duration
	DisableReconnect     bool
	MaxReconnectAttempts int
	// FinalizeTimeout bounds the wait for a terminal event after end-of-source
	// has been signaled. 0 waits indefinitely, matching the service contract.
	FinalizeTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		ContentType:          "audio/pcm",
		ChunkBytes:           DefaultChunkBytes,
		ChunkInterval:        DefaultChunkInterval,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
	}
}

func (o Options) normalized() Options {
	if o.ChunkBytes <= 0 {
		o.ChunkBytes = DefaultChunkBytes
	}
	if o.MaxReconnectAttempts < 0 {
		o.MaxReconnectAttempts = 0
	}
	if o.Formality == "" {
		o.Formality = "default"
	}
	o.ContentType = strings.ToLower(strings.TrimSpace(o.ContentType))
	o.SourceLanguage = strings.TrimSpace(o.SourceLanguage)
	return o
}

func (o Options) validate() error {
	if len(o.TargetLanguages) == 0 || len(o.TargetLanguages) > maxTargetLanguages {
		return &ValidationError{Reason: fmt.Sprintf("target language count must be between 1 and %d, got %d", maxTargetLanguages, len(o.TargetLanguages))}
	}
	for _, lang := range o.TargetLanguages {
		if !isSupportedLanguage(lang) {
			return &ValidationError{Reason: fmt.Sprintf("unrecognized target language %q", lang)}
		}
	}
	if o.SourceLanguage != "" && !isSupportedLanguage(o.SourceLanguage) {
		return &ValidationError{Reason: fmt.Sprintf("unrecognized source language %q", o.SourceLanguage)}
	}
	if _, ok := supportedContentTypes[o.ContentType]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("unsupported content type %q", o.ContentType)}
	}
	if _, ok := supportedFormalities[o.Formality]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("unsupported formality %q", o.Formality)}
	}
	if o.ChunkInterval < 0 {
		return &ValidationError{Reason: "chunk interval must not be negative"}
	}
	if o.FinalizeTimeout < 0 {
		return &ValidationError{Reason: "finalize timeout must not be negative"}
	}
	return nil
}
