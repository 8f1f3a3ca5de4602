package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/pipeline"
)

// newClient builds a Gemini client when an API key is configured. A
// nil client is valid: every pipeline stage has a deterministic
// fallback, so the agent still works offline with reduced quality.
func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s not set; running with deterministic fallbacks (no LLM calls)\n", config.EnvAPIKey)
		return nil, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newAgent wires a pipeline agent from resolved configuration.
func newAgent(ctx context.Context, cfg *config.Config) (*pipeline.Agent, error) {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Options{
		Client:        client,
		ProfilesDir:   cfg.ProfilesDir,
		OutputsDir:    cfg.OutputsDir,
		DefaultUserID: cfg.DefaultUserID,
		DatabaseURL:   cfg.DatabaseURL,
		DisablePDF:    cfg.DisablePDF,
		Verbose:       cfg.Verbose,
	})
}

// readEmailText returns the email body from --text, a file path, or
// stdin when the path is "-". Exactly one source must be provided.
func readEmailText(path, inline string) (string, error) {
	if path != "" && inline != "" {
		return "", fmt.Errorf("--email and --text are mutually exclusive; provide only one")
	}
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return "", fmt.Errorf("either --email or --text must be provided")
	}

	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read email from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read email file: %w", err)
	}
	return string(data), nil
}
